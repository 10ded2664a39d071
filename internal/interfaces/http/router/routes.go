package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlanticave/storefront/internal/interfaces/http/handler"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
)

// Handlers are the handlers mounted by StorefrontRoutes
type Handlers struct {
	Forwarding *handler.ForwardingHandler
	Catalog    *handler.CatalogHandler
	Cart       *handler.SessionCartHandler
	Checkout   *handler.CheckoutHandler
	System     *handler.SystemHandler
}

// CacheSettings are the shared-cache lifetimes of catalog reads
type CacheSettings struct {
	ProductsMaxAge time.Duration
	ProductsSWR    time.Duration
	ProductMaxAge  time.Duration
	ProductSWR     time.Duration
}

// StorefrontRoutes builds the /api route groups. session is applied to
// every route that reads or writes the session cart.
func StorefrontRoutes(h Handlers, cache CacheSettings, session gin.HandlerFunc) []RouteRegistrar {
	listCache := middleware.CacheControl(cache.ProductsMaxAge, cache.ProductsSWR)
	itemCache := middleware.CacheControl(cache.ProductMaxAge, cache.ProductSWR)

	products := NewDomainGroup("products", "/products").
		GET("", listCache, h.Forwarding.ListProducts).
		GET("/:handle", itemCache, h.Forwarding.GetProduct)

	policies := NewDomainGroup("policies", "/policies").
		GET("", h.Forwarding.GetPolicies)

	backendCart := NewDomainGroup("cart", "/cart").
		Use(middleware.NoStore()).
		POST("/create", h.Forwarding.CreateCart).
		POST("/add", h.Forwarding.AddCartLines).
		POST("/remove", h.Forwarding.RemoveCartLines).
		GET("/:cartId", h.Forwarding.GetCart)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.Group("products", "/products").
		GET("", listCache, h.Catalog.ListProducts).
		GET("/:handle", itemCache, h.Catalog.GetProduct)
	catalog.Group("policies", "/policies").
		GET("", h.Catalog.GetPolicies).
		GET("/:slug", h.Catalog.GetPolicy)

	sessionCart := NewDomainGroup("session-cart", "/session/cart").
		Use(middleware.NoStore(), session).
		GET("", h.Cart.Get).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:index", h.Cart.SetQuantity).
		DELETE("/items/:index", h.Cart.RemoveItem).
		PUT("/items/:index/stock", h.Cart.RefreshStock).
		POST("/reconcile", h.Cart.Reconcile)

	checkout := NewDomainGroup("checkout", "/checkout").
		Use(middleware.NoStore(), session).
		POST("", h.Checkout.Checkout).
		POST("/complete", h.Checkout.Complete)

	return []RouteRegistrar{products, policies, backendCart, catalog, sessionCart, checkout}
}

// SystemRoutes builds the versioned operational group
func SystemRoutes(h *handler.SystemHandler) RouteRegistrar {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}
