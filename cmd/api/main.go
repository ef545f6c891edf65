package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/jobs"
	"github.com/prasetyodwi/forklift_rental/notifications"
	"github.com/prasetyodwi/forklift_rental/payments"
	"github.com/prasetyodwi/forklift_rental/routes"
	"github.com/prasetyodwi/forklift_rental/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	db := database.Connect()
	database.Migrate(db)
	database.SeedAdmin(db)
	notifications.InitEmailService()

	midtransService := payments.NewMidtransService()

	hub := websocket.NewHub()
	go hub.Run()

	c := cron.New()
	c.AddFunc("*/10 * * * *", func() { jobs.ExpireStalePayments(db) })
	c.AddFunc("0 * * * *", func() { jobs.NotifyOverdueRentals(db) })
	go c.Start()
	log.Println("✅ Cron jobs for payment expiry and overdue rentals scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Forklift Rental",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  false,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Uploaded transfer proofs are served straight off disk.
	app.Static("/public", "./public")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  true,
			"message": "Welcome to Forklift Rental API",
		})
	})

	authHandler := handlers.NewAuthHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	unitHandler := handlers.NewUnitHandler(db)
	operatorHandler := handlers.NewOperatorHandler(db)
	orderHandler := handlers.NewOrderHandler(db, hub)
	paymentHandler := handlers.NewPaymentHandler(db, hub, midtransService)
	proofHandler := handlers.NewTransferProofHandler(db, hub)
	logHandler := handlers.NewTransactionLogHandler(db)
	feedbackHandler := handlers.NewFeedbackHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	routes.AuthRoutes(app, authHandler)
	routes.ProfileRoutes(app, profileHandler)
	routes.UnitRoutes(app, unitHandler)
	routes.OperatorRoutes(app, operatorHandler)
	routes.OrderRoutes(app, orderHandler, logHandler, paymentHandler)
	routes.PaymentRoutes(app, paymentHandler)
	routes.TransferProofRoutes(app, proofHandler)
	routes.FeedbackRoutes(app, feedbackHandler)
	routes.AdminRoutes(app, adminHandler, orderHandler, paymentHandler, logHandler)
	routes.WebsocketRoutes(app, hub)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
