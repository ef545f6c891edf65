package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func UnitRoutes(app *fiber.App, h *handlers.UnitHandler) {
	api := app.Group("/api/v1")

	units := api.Group("/units", middleware.Protected())
	units.Get("", h.ListUnits)
	units.Get("/available", h.ListAvailableUnits)
	units.Get("/:unitId", h.GetUnit)
	units.Post("", middleware.AdminRequired(), h.CreateUnit)
	units.Put("/:unitId", middleware.AdminRequired(), h.UpdateUnit)
	units.Delete("/:unitId", middleware.AdminRequired(), h.DeleteUnit)
}
