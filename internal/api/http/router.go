package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-gateway/internal/api/http/handlers"
	"github.com/spec-kit/storefront-gateway/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Catalog  *handlers.CatalogHandler
	Session  *session.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth", cfg.Session.Handle)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)
	authGroup.Get("/profile", cfg.Auth.Profile)
	authGroup.Put("/profile", cfg.Auth.UpdateProfile)

	cartGroup := app.Group("/cart", cfg.Session.Handle)
	cartGroup.Get("/", cfg.Cart.Get)
	cartGroup.Post("/items", cfg.Cart.Add)
	cartGroup.Patch("/items/:id", cfg.Cart.Update)
	cartGroup.Delete("/items/:id", cfg.Cart.Remove)
	cartGroup.Delete("/", cfg.Cart.Clear)

	checkoutGroup := app.Group("/checkout", cfg.Session.Handle)
	checkoutGroup.Get("/districts", cfg.Checkout.Districts)
	checkoutGroup.Post("/orders", cfg.Checkout.CreateOrder)
	checkoutGroup.Get("/orders", cfg.Checkout.ListOrders)
	checkoutGroup.Get("/orders/:id", cfg.Checkout.GetOrder)

	shopGroup := app.Group("/shop")
	shopGroup.Get("/products", cfg.Catalog.Products)
	shopGroup.Get("/products/:id", cfg.Catalog.ProductByID)
	shopGroup.Get("/products/:id/related", cfg.Catalog.Related)
	shopGroup.Get("/top-selling", cfg.Catalog.TopSelling)
	shopGroup.Get("/top-categories", cfg.Catalog.TopCategories)
	shopGroup.Post("/contact", cfg.Catalog.Contact)
}
