package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func AdminRoutes(app *fiber.App, admin *handlers.AdminHandler, orders *handlers.OrderHandler, payments *handlers.PaymentHandler, logs *handlers.TransactionLogHandler) {
	api := app.Group("/api/v1")

	adm := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	adm.Get("/dashboard-analytics", admin.GetDashboardAnalytics)
	adm.Get("/users", admin.ListUsers)
	adm.Get("/orders", orders.AdminListOrders)
	adm.Get("/payments", payments.AdminListPayments)

	logGroup := adm.Group("/transaction-logs")
	logGroup.Get("", logs.ListLogs)
	logGroup.Get("/:logId", logs.GetLog)
	logGroup.Delete("/:logId", logs.DeleteLog)

	adm.Get("/uploads/signature", handlers.GenerateUploadSignature)
}
