package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func OrderRoutes(app *fiber.App, h *handlers.OrderHandler, logs *handlers.TransactionLogHandler, payments *handlers.PaymentHandler) {
	api := app.Group("/api/v1")

	orders := api.Group("/orders", middleware.Protected())
	orders.Get("/me", h.GetMyOrders)
	orders.Post("", middleware.UserRequired(), h.CreateOrder)
	orders.Get("/:orderId", h.GetOrder)
	orders.Delete("/:orderId", h.CancelOrder)
	orders.Put("/:orderId/status", middleware.AdminRequired(), h.UpdateOrderStatus)
	orders.Get("/:orderId/payments", payments.ListOrderPayments)
	orders.Get("/:orderId/logs", middleware.AdminRequired(), logs.ListOrderLogs)
}
