package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/middleware"
)

// Handlers groups the core API handlers mounted by Setup.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Profile      *handlers.ProfileHandler
	Member       *handlers.MemberHandler
	Admin        *handlers.AdminHandler
	Notification *handlers.NotificationHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, plugins []apps.Plugin) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/otp/send", h.Auth.SendOTP)
	auth.Post("/otp/verify", h.Auth.VerifyOTP)
	auth.Post("/admin/login", h.Auth.AdminLogin)
	auth.Post("/refresh", h.Auth.Refresh)

	// JWT middleware is attached per route so public routes stay open
	jwt := middleware.JWTProtected(cfg)
	api.Post("/auth/logout", jwt, h.Auth.Logout)

	api.Get("/profile/:identity_id", jwt, h.Profile.Get)
	api.Post("/profile/save", jwt, h.Profile.Save)

	members := api.Group("/members", jwt)
	members.Post("/add", h.Member.Add)
	members.Get("/my-family", h.Member.MyFamily)
	members.Get("/:id", h.Member.Get)
	members.Put("/:id", h.Member.Replace)
	members.Patch("/:id", h.Member.Update)
	members.Post("/:id/make-head", h.Member.TransferHead)

	notifications := api.Group("/notifications", jwt)
	notifications.Get("/my", h.Notification.List)
	notifications.Get("/:id", h.Notification.Get)
	notifications.Patch("/:id/read", h.Notification.MarkRead)

	api.Get("/dashboard", jwt, h.Notification.Dashboard)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/members", h.Admin.ListMembers)
	admin.Post("/members/import", h.Admin.Import)
	admin.Post("/members/:id/status", h.Admin.SetStatus)
	admin.Post("/members/:id/make-head", h.Admin.MakeHead)

	for _, p := range plugins {
		p.RegisterRoutes(api.Group("/"+p.ID(), jwt), db, cfg)
		// If the plugin also implements AdminPlugin, register admin routes
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin.Group("/"+p.ID()), db, cfg)
		}
	}
}
