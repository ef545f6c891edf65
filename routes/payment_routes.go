package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func PaymentRoutes(app *fiber.App, h *handlers.PaymentHandler) {
	api := app.Group("/api/v1")

	// Webhook is unauthenticated; Midtrans signs the payload instead.
	api.Post("/payments/notification", h.HandleGatewayNotification)

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("", h.CreatePayment)
	payments.Post("/gateway", middleware.UserRequired(), h.CreateGatewayTransaction)
	payments.Get("/:paymentId", h.GetPayment)
}
