package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func OperatorRoutes(app *fiber.App, h *handlers.OperatorHandler) {
	api := app.Group("/api/v1")

	operators := api.Group("/operators", middleware.Protected())
	operators.Get("/available", h.ListAvailableOperators)
	operators.Get("", middleware.AdminRequired(), h.ListOperators)
	operators.Get("/:operatorId", h.GetOperator)
	operators.Post("", middleware.AdminRequired(), h.CreateOperator)
	operators.Put("/:operatorId", middleware.AdminRequired(), h.UpdateOperator)
	operators.Delete("/:operatorId", middleware.AdminRequired(), h.DeleteOperator)
}
