package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"roomstay_backend/internal/controller"
	"roomstay_backend/internal/middleware"
	"roomstay_backend/internal/model"
	"roomstay_backend/pkg/config"
	"roomstay_backend/pkg/cron"
	"roomstay_backend/pkg/database"
	"roomstay_backend/pkg/email"
	"roomstay_backend/pkg/seed"
	"roomstay_backend/pkg/subscription"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/request-reset", controller.RequestPasswordReset)
	auth.Post("/reset-password", controller.ResetPassword)

	// Public Properties Routes
	publicProps := api.Group("/p")
	publicProps.Get("/:username", controller.ListUserProperties)
	publicProps.Get("/:username/:property_slug", controller.GetPropertyBySlug)

	// Public inquiry form (the landlord's plan must carry the feature)
	api.Post("/properties/:property_id/inquiries", middleware.CheckPropertyFeature(subscription.InquiryForm), controller.CreateInquiry)

	// Property view recording
	api.Post("/properties/:id/view", controller.RecordPropertyView)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Property Routes with subscription checks
	properties := protected.Group("/properties")
	properties.Get("/my", controller.ListMyProperties)
	properties.Get("/:id", middleware.CheckPropertyOwnership(), controller.GetMyProperty)
	properties.Post("/", middleware.CheckListingLimit(), controller.CreateProperty)
	properties.Put("/:id", middleware.CheckPropertyOwnership(), controller.UpdateProperty)
	properties.Delete("/:id", middleware.CheckPropertyOwnership(), controller.DeleteProperty)
	properties.Post("/:property_id/images", middleware.CheckImageLimit(), controller.UploadPropertyImage)
	properties.Delete("/images/:image_id", controller.DeletePropertyImage)

	// Room and bed management under a property
	rooms := properties.Group("/:id/rooms", middleware.CheckPropertyOwnership())
	rooms.Get("/", controller.ListRooms)
	rooms.Post("/", controller.CreateRoom)
	rooms.Put("/:room_id", controller.UpdateRoom)
	rooms.Delete("/:room_id", controller.DeleteRoom)
	rooms.Post("/:room_id/beds", controller.CreateBed)
	rooms.Put("/beds/:bed_id", controller.UpdateBed)
	rooms.Delete("/beds/:bed_id", controller.DeleteBed)
	rooms.Get("/:room_id/occupancy", controller.GetRoomOccupancy)
	rooms.Get("/:room_id/beds/:bed_id/availability", controller.GetBedAvailability)

	// Tenant check-in and check-out
	accommodations := properties.Group("/:id/accommodations", middleware.CheckPropertyOwnership())
	accommodations.Get("/", controller.ListAccommodations)
	accommodations.Post("/", controller.CreateAccommodation)
	accommodations.Put("/:accommodation_id/checkout", controller.CheckOutAccommodation)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", middleware.CheckFeatureAccess(subscription.OccupancyReport), controller.GetDashboardStats)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Inquiry follow-up routes
	inquiries := protected.Group("/inquiries")
	inquiries.Get("/", controller.GetMyInquiries)
	inquiries.Put("/:id/status", controller.UpdateInquiryStatus)
	inquiries.Put("/:id/read", controller.MarkInquiryAsRead)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)
	subscriptions.Get("/plans/:name/price", controller.GetPlanPrice)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/purchase", controller.PurchaseSubscription)
	subProtected.Post("/renew", controller.RenewSubscription)
	subProtected.Post("/cancel", controller.CancelSubscription)
	subProtected.Get("/my", controller.GetMySubscription)

	// Stripe checkout redirect results
	subscriptions.Get("/payment-success", controller.HandleSubscriptionSuccess)
	subscriptions.Get("/payment-cancelled", controller.HandleSubscriptionCancel)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Plan administration
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole(subscription.UserAdmin))
	admin.Post("/plans", controller.CreatePlan)
	admin.Put("/plans/:id", controller.UpdatePlan)
	admin.Put("/plans/:id/activate", controller.ActivatePlan)
	admin.Put("/plans/:id/deactivate", controller.DeactivatePlan)
	admin.Delete("/plans/:id", controller.DeletePlan)
}

func main() {
	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	controller.InitAuthController()
	controller.InitSubscriptionController(cfg.Subscription.RenewalGraceDays)
	cron.InitSubscriptionExpiryCron()
	cron.InitOccupancyStatsCron(email.GlobalEmailService)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.Property{},
		&model.PropertyImage{},
		&model.PropertyView{},
		&model.PropertyStats{},
		&model.Room{},
		&model.Bed{},
		&model.Accommodation{},
		&model.Inquiry{},
		&model.LoginHistory{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlans(database.GetDB())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
