package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"github.com/example/luxentra/internal/cache"
	"github.com/example/luxentra/internal/catalog"
	"github.com/example/luxentra/internal/config"
	"github.com/example/luxentra/internal/handlers"
	"github.com/example/luxentra/internal/middleware"
	"github.com/example/luxentra/internal/repository"
	"github.com/example/luxentra/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog, cartCache cache.CartCache) {
	cartRepo := repository.NewGormCartRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)

	events := services.NewCartBroadcaster()
	emailService := services.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom)
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	cartService := services.NewCartService(cartRepo, cartCache, cat, events)
	checkoutService := services.NewCheckoutService(orderRepo, sessionRepo, cartRepo, services.Pricing{
		ShippingCharge:        cfg.ShippingCharge,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
		CouponCode:            cfg.CouponCode,
		CouponPercent:         cfg.CouponPercent,
	}, cfg.JWTSecret, cfg.CheckoutSessionTTL)
	paymentService := services.NewPaymentService(orderRepo, sessionRepo, cartService, emailService, telegramService, cfg.JWTSecret)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(cat)
	cartHandler := handlers.NewCartHandler(cartService, events)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	notificationHandler := handlers.NewNotificationHandler(emailService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Product catalog (read-only static dataset)
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Public order tracking
	api.Get("/track/:orderNumber", orderHandler.TrackOrder)

	// Payment verification and notification functions. These are called
	// back by external parties, so CORS stays open and no auth applies.
	functions := api.Group("", cors.New(cors.Config{AllowOrigins: "*"}))
	functions.Post("/payment/verify", paymentHandler.Verify)
	functions.Post("/notifications/order-confirmation", notificationHandler.SendOrderConfirmation)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	cart := protected.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Get("/events", cartHandler.Events)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:id", cartHandler.UpdateQuantity)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.ClearCart)

	protected.Post("/checkout", checkoutHandler.PlaceOrder)

	payment := protected.Group("/payment")
	payment.Get("/methods", paymentHandler.Methods)
	payment.Get("/session", paymentHandler.Session)
	payment.Post("/cod", paymentHandler.FinalizeCashOnDelivery)
	payment.Post("/gateway", paymentHandler.StartGatewayPayment)

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	// Admin dashboard
	admin := protected.Group("/admin", middleware.RequireAdmin(db))
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Get("/orders/stats", adminHandler.DashboardStats)
	admin.Put("/orders/:id", adminHandler.UpdateOrder)
}
