package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/cart"
	"github.com/auracommerce/storefront/internal/catalog"
	"github.com/auracommerce/storefront/internal/events"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/middleware"
)

// CartIDHeader names the anonymous shopper's cart. Authenticated requests
// use the session subject instead, so a shopper keeps one cart across tabs.
const CartIDHeader = "X-Cart-ID"

type CartHandler struct {
	Carts    *cart.Store
	Catalog  *catalog.Catalog
	Shipping cart.ShippingPolicy
	Events   events.Publisher
}

// resolveCart picks the cart for this request and echoes the id back so
// anonymous clients can keep using it.
func (h *CartHandler) resolveCart(c echo.Context) (*cart.Cart, string) {
	id := middleware.UserID(c)
	if id == "" {
		id = c.Request().Header.Get(CartIDHeader)
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Response().Header().Set(CartIDHeader, id)
	return h.Carts.Get(id), id
}

func (h *CartHandler) respond(c echo.Context, snap cart.Snapshot) error {
	return c.JSON(http.StatusOK, map[string]any{
		"items":      snap.Lines,
		"total":      snap.Total,
		"itemCount":  snap.ItemCount,
		"isOpen":     snap.IsOpen,
		"shipping":   h.Shipping.Quote(snap.Total),
		"orderTotal": h.Shipping.OrderTotal(snap.Total),
	})
}

func (h *CartHandler) publish(c echo.Context, cartID string, event map[string]any) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, cartID, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("cart_event_publish_failed", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	crt, _ := h.resolveCart(c)
	return h.respond(c, crt.Snapshot())
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req struct {
		ProductID     string `json:"productId"`
		SelectedColor string `json:"selectedColor"`
		SelectedSize  string `json:"selectedSize"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		l.Warn("add_item_failed", "status", 404, "reason", "unknown product", "productID", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "unknown product")
	}

	crt, cartID := h.resolveCart(c)
	snap := crt.AddItem(product, req.SelectedColor, req.SelectedSize)

	h.publish(c, cartID, map[string]any{"type": "cart_item_added", "productID": product.ID})
	return h.respond(c, snap)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	crt, cartID := h.resolveCart(c)
	snap := crt.UpdateQuantity(c.Param("key"), req.Quantity)

	h.publish(c, cartID, map[string]any{"type": "cart_quantity_updated", "key": c.Param("key"), "quantity": req.Quantity})
	return h.respond(c, snap)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	crt, cartID := h.resolveCart(c)
	snap := crt.RemoveItem(c.Param("key"))

	h.publish(c, cartID, map[string]any{"type": "cart_item_removed", "key": c.Param("key")})
	return h.respond(c, snap)
}

func (h *CartHandler) Clear(c echo.Context) error {
	crt, cartID := h.resolveCart(c)
	snap := crt.Clear()

	h.publish(c, cartID, map[string]any{"type": "cart_cleared"})
	return h.respond(c, snap)
}

func (h *CartHandler) Open(c echo.Context) error {
	crt, _ := h.resolveCart(c)
	return h.respond(c, crt.Open())
}

func (h *CartHandler) Close(c echo.Context) error {
	crt, _ := h.resolveCart(c)
	return h.respond(c, crt.Close())
}

func (h *CartHandler) Toggle(c echo.Context) error {
	crt, _ := h.resolveCart(c)
	return h.respond(c, crt.Toggle())
}
