package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func FeedbackRoutes(app *fiber.App, h *handlers.FeedbackHandler) {
	api := app.Group("/api/v1")

	feedback := api.Group("/feedback", middleware.Protected())
	feedback.Post("", middleware.UserRequired(), h.CreateFeedback)
	feedback.Get("", middleware.AdminRequired(), h.ListFeedback)
	feedback.Delete("/:feedbackId", middleware.AdminRequired(), h.DeleteFeedback)
}
