package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/handlers"
	"github.com/auracommerce/storefront/internal/middleware"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	EstimateHandler *handlers.EstimateHandler
	Session         *middleware.Session
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/me", d.AuthHandler.Me)

	profile := v1.Group("", d.Session.RequireSession)
	profile.PATCH("/profile", d.AuthHandler.UpdateProfile)
	profile.POST("/password", d.AuthHandler.ChangePassword)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/facets", d.ProductHandler.GetFacets)
	products.GET("/:id", d.ProductHandler.GetProduct)

	crt := v1.Group("/cart", d.Session.WithSession)
	crt.GET("", d.CartHandler.GetCart)
	crt.POST("/items", d.CartHandler.AddItem)
	crt.PATCH("/items/:key", d.CartHandler.UpdateQuantity)
	crt.DELETE("/items/:key", d.CartHandler.RemoveItem)
	crt.DELETE("", d.CartHandler.Clear)
	crt.POST("/open", d.CartHandler.Open)
	crt.POST("/close", d.CartHandler.Close)
	crt.POST("/toggle", d.CartHandler.Toggle)

	v1.POST("/estimate", d.EstimateHandler.Estimate)
	v1.GET("/deal", d.EstimateHandler.Deal)
}
