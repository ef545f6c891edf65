package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/middleware"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

type FeedbackHandler struct {
	db *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

type CreateFeedbackRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateFeedback accepts one review per completed order from its owner.
func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	customerID := middleware.CallerID(c)

	var req CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	orderID, _ := uuid.Parse(req.OrderID)

	var feedback models.Feedback
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return errors.New("order not found")
		}
		if order.CustomerID != customerID {
			return errAccessDenied
		}
		if order.Status != models.OrderCompleted {
			return errors.New("feedback can only be submitted for completed orders")
		}

		var existing models.Feedback
		if err := tx.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
			return errors.New("feedback for this order has already been submitted")
		}

		feedback = models.Feedback{
			OrderID:    orderID,
			CustomerID: customerID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		return tx.Create(&feedback).Error
	})
	if err != nil {
		if errors.Is(err, errAccessDenied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": true, "message": "Feedback submitted successfully", "data": feedback})
}

func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	var list []models.Feedback
	if err := h.db.Preload("Customer").Preload("Order").Order("created_at desc").Find(&list).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch feedback", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Feedback retrieved", "data": list})
}

func (h *FeedbackHandler) DeleteFeedback(c *fiber.Ctx) error {
	var feedback models.Feedback
	if err := h.db.First(&feedback, "id = ?", c.Params("feedbackId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Feedback not found"})
	}
	if err := h.db.Delete(&feedback).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to delete feedback", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Feedback deleted successfully"})
}
