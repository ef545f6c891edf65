package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

type UnitHandler struct {
	db *gorm.DB
}

func NewUnitHandler(db *gorm.DB) *UnitHandler {
	return &UnitHandler{db: db}
}

func (h *UnitHandler) ListUnits(c *fiber.Ctx) error {
	var units []models.Unit
	if err := h.db.Order("created_at desc").Find(&units).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch units", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Units retrieved", "data": units})
}

func (h *UnitHandler) ListAvailableUnits(c *fiber.Ctx) error {
	var units []models.Unit
	if err := h.db.Where("status = ?", models.UnitAvailable).Order("created_at desc").Find(&units).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch available units", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Available units retrieved", "data": units})
}

func (h *UnitHandler) GetUnit(c *fiber.Ctx) error {
	var unit models.Unit
	if err := h.db.First(&unit, "id = ?", c.Params("unitId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Unit not found"})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Unit detail retrieved", "data": unit})
}

type UnitRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Capacity    string  `json:"capacity" validate:"required"`
	HourlyRate  float64 `json:"hourly_rate" validate:"required,gt=0"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *UnitHandler) CreateUnit(c *fiber.Ctx) error {
	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}
	if !models.IsValidCapacity(req.Capacity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  false,
			"message": fmt.Sprintf("Capacity must be one of: %s", strings.Join(models.ValidCapacities, ", ")),
		})
	}

	unit := models.Unit{
		Name:        req.Name,
		Capacity:    req.Capacity,
		HourlyRate:  req.HourlyRate,
		Image:       req.Image,
		Description: req.Description,
		Status:      models.UnitAvailable,
	}
	if err := h.db.Create(&unit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to create unit", "error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": true, "message": "Unit created successfully", "data": unit})
}

func (h *UnitHandler) UpdateUnit(c *fiber.Ctx) error {
	var unit models.Unit
	if err := h.db.First(&unit, "id = ?", c.Params("unitId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Unit not found"})
	}

	type updateRequest struct {
		Name        *string  `json:"name,omitempty" validate:"omitempty,min=3"`
		Capacity    *string  `json:"capacity,omitempty"`
		HourlyRate  *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
		Image       *string  `json:"image,omitempty"`
		Description *string  `json:"description,omitempty"`
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}
	if req.Capacity != nil && !models.IsValidCapacity(*req.Capacity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  false,
			"message": fmt.Sprintf("Capacity must be one of: %s", strings.Join(models.ValidCapacities, ", ")),
		})
	}

	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.Capacity != nil {
		unit.Capacity = *req.Capacity
	}
	if req.HourlyRate != nil {
		unit.HourlyRate = *req.HourlyRate
	}
	if req.Image != nil {
		unit.Image = req.Image
	}
	if req.Description != nil {
		unit.Description = req.Description
	}

	if err := h.db.Save(&unit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to update unit", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Unit updated successfully", "data": unit})
}

// DeleteUnit refuses to remove a forklift that is currently on rent.
func (h *UnitHandler) DeleteUnit(c *fiber.Ctx) error {
	var unit models.Unit
	if err := h.db.First(&unit, "id = ?", c.Params("unitId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Unit not found"})
	}
	if unit.Status == models.UnitRented {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot delete a unit that is currently rented"})
	}
	if err := h.db.Delete(&unit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to delete unit", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Unit deleted successfully"})
}
