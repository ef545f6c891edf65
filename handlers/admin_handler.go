package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// GetDashboardAnalytics feeds the staff console overview.
func (h *AdminHandler) GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalOrders, activeRentals, awaitingVerification, availableUnits int64
	var revenue float64

	h.db.Model(&models.Order{}).Count(&totalOrders)
	h.db.Model(&models.Order{}).Where("status = ?", models.OrderDispatched).Count(&activeRentals)
	h.db.Model(&models.TransferProof{}).Where("status = ?", models.VerificationPending).Count(&awaitingVerification)
	h.db.Model(&models.Unit{}).Where("status = ?", models.UnitAvailable).Count(&availableUnits)
	h.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Dashboard analytics retrieved",
		"data": fiber.Map{
			"total_orders":          totalOrders,
			"active_rentals":        activeRentals,
			"proofs_awaiting_check": awaitingVerification,
			"available_units":       availableUnits,
			"total_revenue":         revenue,
		},
	})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch users", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Users retrieved", "data": users})
}
