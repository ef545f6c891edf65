package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

type OperatorHandler struct {
	db *gorm.DB
}

func NewOperatorHandler(db *gorm.DB) *OperatorHandler {
	return &OperatorHandler{db: db}
}

func (h *OperatorHandler) ListOperators(c *fiber.Ctx) error {
	var operators []models.Operator
	if err := h.db.Order("created_at desc").Find(&operators).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch operators", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Operators retrieved", "data": operators})
}

func (h *OperatorHandler) ListAvailableOperators(c *fiber.Ctx) error {
	var operators []models.Operator
	if err := h.db.Where("status = ?", models.OperatorAvailable).Order("created_at desc").Find(&operators).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch available operators", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Available operators retrieved", "data": operators})
}

func (h *OperatorHandler) GetOperator(c *fiber.Ctx) error {
	var operator models.Operator
	if err := h.db.First(&operator, "id = ?", c.Params("operatorId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Operator not found"})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Operator detail retrieved", "data": operator})
}

type OperatorRequest struct {
	Name  string  `json:"name" validate:"required,min=3"`
	Phone string  `json:"phone" validate:"required,min=8"`
	Photo *string `json:"photo,omitempty"`
}

func (h *OperatorHandler) CreateOperator(c *fiber.Ctx) error {
	var req OperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	operator := models.Operator{
		Name:   req.Name,
		Phone:  req.Phone,
		Photo:  req.Photo,
		Status: models.OperatorAvailable,
	}
	if err := h.db.Create(&operator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to create operator", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": true, "message": "Operator created successfully", "data": operator})
}

func (h *OperatorHandler) UpdateOperator(c *fiber.Ctx) error {
	var operator models.Operator
	if err := h.db.First(&operator, "id = ?", c.Params("operatorId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Operator not found"})
	}

	type updateRequest struct {
		Name  *string `json:"name,omitempty" validate:"omitempty,min=3"`
		Phone *string `json:"phone,omitempty" validate:"omitempty,min=8"`
		Photo *string `json:"photo,omitempty"`
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	if req.Name != nil {
		operator.Name = *req.Name
	}
	if req.Phone != nil {
		operator.Phone = *req.Phone
	}
	if req.Photo != nil {
		operator.Photo = req.Photo
	}

	if err := h.db.Save(&operator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to update operator", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Operator updated successfully", "data": operator})
}

func (h *OperatorHandler) DeleteOperator(c *fiber.Ctx) error {
	var operator models.Operator
	if err := h.db.First(&operator, "id = ?", c.Params("operatorId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Operator not found"})
	}
	if operator.Status == models.OperatorAssigned {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot delete an operator with an active assignment"})
	}
	if err := h.db.Delete(&operator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to delete operator", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Operator deleted successfully"})
}
