package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/catalog"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/util"
)

type ProductHandler struct {
	Catalog *catalog.Catalog
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.get_product")

	product, ok := h.Catalog.Get(c.Param("id"))
	if !ok {
		l.Warn("get_product_failed", "status", 404, "productID", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.get_products")

	filter := catalog.Filter{
		Category: c.QueryParam("category"),
		Badge:    c.QueryParam("badge"),
		MinPrice: parseFloatDefault(c.QueryParam("min_price"), 0),
		MaxPrice: parseFloatDefault(c.QueryParam("max_price"), 0),
		Brands:   splitCSV(c.QueryParam("brands")),
		Types:    splitCSV(c.QueryParam("types")),
	}
	sortKey := catalog.SortKey(c.QueryParam("sort"))
	if sortKey == "" {
		sortKey = catalog.SortRelevance
	}

	matched := h.Catalog.Search(filter, sortKey)

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	l.Info("get_products_success", "matched", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": matched[offset:end],
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    end < total,
		},
	})
}

func (h *ProductHandler) GetFacets(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"brands":     h.Catalog.Brands(),
		"categories": h.Catalog.Categories(),
	})
}
