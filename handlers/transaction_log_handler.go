package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

// TransactionLogHandler exposes the audit trail to staff. The trail is
// append-only; the only mutation offered is an occasional prune delete.
type TransactionLogHandler struct {
	db *gorm.DB
}

func NewTransactionLogHandler(db *gorm.DB) *TransactionLogHandler {
	return &TransactionLogHandler{db: db}
}

func (h *TransactionLogHandler) ListLogs(c *fiber.Ctx) error {
	var logs []models.TransactionLog
	if err := h.db.Order("logged_at desc").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch transaction logs", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transaction logs retrieved", "data": logs})
}

func (h *TransactionLogHandler) ListOrderLogs(c *fiber.Ctx) error {
	var logs []models.TransactionLog
	if err := h.db.Where("order_id = ?", c.Params("orderId")).Order("logged_at desc").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch transaction logs", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transaction logs retrieved", "data": logs})
}

func (h *TransactionLogHandler) GetLog(c *fiber.Ctx) error {
	var entry models.TransactionLog
	if err := h.db.First(&entry, "id = ?", c.Params("logId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Transaction log not found"})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transaction log detail retrieved", "data": entry})
}

func (h *TransactionLogHandler) DeleteLog(c *fiber.Ctx) error {
	var entry models.TransactionLog
	if err := h.db.First(&entry, "id = ?", c.Params("logId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Transaction log not found"})
	}
	if err := h.db.Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to delete transaction log", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transaction log deleted successfully"})
}
