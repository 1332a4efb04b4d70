package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mahirlabib/pricescope/internal/config"
	"github.com/mahirlabib/pricescope/internal/handler"
	"github.com/mahirlabib/pricescope/internal/middleware"
	"github.com/mahirlabib/pricescope/internal/model"
)

// Handlers bundles everything the route table needs. main builds one of
// these and hands it over; the router owns no state of its own.
type Handlers struct {
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Products *handler.ProductHandler
	Lists    *handler.ListHandler
	Admin    *handler.AdminUserHandler
}

// Register wires the full route table onto e. Public catalog reads sit
// behind the response cache; everything under /v1/user and /v1/admin
// requires a valid access token, and /v1/admin additionally requires the
// admin role.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	rl := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	registerAuth(e, h.Auth, rl)
	registerCatalog(e, h.Products, cache)
	registerUser(e, cfg, h)
	registerAdmin(e, cfg, h)
}

// registerAuth mounts the session endpoints under /v1/auth. The OTP
// senders are rate limited so one client cannot flood the mail queue.
func registerAuth(e *echo.Echo, a *handler.AuthHandler, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
	g.POST("/send-verification-otp", a.SendEmailVerificationOTP, rl)
	g.POST("/send-reset-otp", a.SendPasswordResetOTP, rl)
	g.POST("/verify-reset-otp", a.VerifyPasswordResetOTP)
}

// registerCatalog mounts the unauthenticated browse endpoints. Only the
// reads go through the cache; the upsert feed and the detail page (which
// counts clicks) must always hit the database.
func registerCatalog(e *echo.Echo, p *handler.ProductHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/products/filter", p.FilterProducts, cache)
	e.GET("/v1/products/brands", p.GetBrands, cache)
	e.GET("/v1/products/categories", p.GetCategories, cache)
	e.GET("/v1/products/:id", p.GetProduct)
}

// registerUser mounts the authenticated owner endpoints under /v1/user.
func registerUser(e *echo.Echo, cfg config.Config, h Handlers) {
	g := e.Group("/v1/user")
	g.Use(middleware.JWTAuth(cfg.JWTSecret))

	g.GET("/me", h.Auth.Me)
	g.GET("/profile", h.Account.GetProfile)
	g.PUT("/profile", h.Account.UpdateProfile)
	g.PUT("/password", h.Account.ChangePassword)
	g.PUT("/reset-password", h.Account.ResetPassword)
	g.DELETE("", h.Account.DeleteAccount)

	g.GET("/lists", h.Lists.GetUserLists)
	g.POST("/favorites/toggle", h.Lists.ToggleFavorite)
	g.POST("/wishlist/toggle", h.Lists.ToggleWishlist)
	g.POST("/compares/toggle", h.Lists.ToggleCompare)
}

// registerAdmin mounts the admin endpoints: catalog mutations, the
// scraper upsert feed, account management and the stock report.
func registerAdmin(e *echo.Echo, cfg config.Config, h Handlers) {
	// Bootstrap route: creating the first admin requires an OTP like any
	// registration, so it can stay outside the token gate.
	e.POST("/v1/admin/auth/register", h.Auth.RegisterAdmin)

	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(cfg.JWTSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/products", h.Products.CreateProduct)
	g.POST("/products/upsert", h.Products.UpsertProduct)
	g.PUT("/products/:id", h.Products.UpdateProduct)
	g.DELETE("/products/:id", h.Products.DeleteProduct)
	g.GET("/products/stock-report", h.Products.StockStatusByShop)

	g.GET("/users", h.Admin.ListUsers)
	g.GET("/users/search", h.Admin.SearchUsers)
	g.GET("/users/:id", h.Admin.GetUser)
	g.PUT("/users/:id", h.Admin.UpdateUser)
	g.DELETE("/users/:id", h.Admin.DeleteUser)
}
