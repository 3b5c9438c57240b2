package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/handlers"
	"github.com/otttrusted/storefront/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	otpHandler *handlers.OTPHandler,
	paymentHandler *handlers.PaymentHandler,
	orderHandler *handlers.OrderHandler,
	catalogHandler *handlers.CatalogHandler,
	reviewHandler *handlers.ReviewHandler,
	configHandler *handlers.PaymentConfigHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded payment proofs are served statically.
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public storefront data
	api.Get("/apps", catalogHandler.ListApps)
	api.Get("/reviews", reviewHandler.ListActive)
	api.Get("/payment-config", configHandler.Get)

	// Stricter limiter for credential-adjacent endpoints: 10 req/min per IP
	strict := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	// Email verification
	api.Post("/send-otp", strict, otpHandler.SendOTP)
	api.Post("/verify-otp", strict, otpHandler.VerifyOTP)

	// Payment gateway broker
	api.Post("/create-razorpay-order", paymentHandler.CreateOrder)
	api.Post("/verify-razorpay-payment", paymentHandler.VerifyPayment)

	// Auth — public
	auth := api.Group("/auth")
	auth.Use(strict)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	api.Post("/orders", middleware.JWTProtected(cfg), orderHandler.Place)
	api.Get("/orders", middleware.JWTProtected(cfg), orderHandler.List)
	api.Post("/uploads/proof", middleware.JWTProtected(cfg), uploadHandler.UploadProof)

	// Admin fulfillment console. AdminRequired verifies the operator token or
	// the bearer JWT itself.
	admin := api.Group("/admin", middleware.AdminRequired(db, cfg))
	admin.Get("/orders", orderHandler.ListAll)
	admin.Put("/orders/:id/status", orderHandler.Transition)
	admin.Get("/export/orders.csv", orderHandler.ExportCSV)

	admin.Get("/apps", catalogHandler.ListAppsAdmin)
	admin.Post("/apps", catalogHandler.CreateApp)
	admin.Put("/apps/:id", catalogHandler.UpdateApp)
	admin.Delete("/apps/:id", catalogHandler.DeleteApp)
	admin.Post("/apps/:id/plans", catalogHandler.CreatePlan)
	admin.Put("/plans/:id", catalogHandler.UpdatePlan)
	admin.Delete("/plans/:id", catalogHandler.DeletePlan)

	admin.Get("/reviews", reviewHandler.ListAll)
	admin.Post("/reviews", reviewHandler.Create)
	admin.Put("/reviews/:id", reviewHandler.ToggleActive)
	admin.Delete("/reviews/:id", reviewHandler.Delete)

	admin.Put("/payment-config", configHandler.Set)
}
