package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/prasetyodwi/forklift_rental/configs"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/middleware"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/notifications"
	"github.com/prasetyodwi/forklift_rental/services"
	"github.com/prasetyodwi/forklift_rental/websocket"
	"gorm.io/gorm"
)

type OrderHandler struct {
	db  *gorm.DB
	hub *websocket.Hub

	// exclusiveOperator enforces one active order per operator. The original
	// system never did; keep it opt-in.
	exclusiveOperator bool
}

func NewOrderHandler(db *gorm.DB, hub *websocket.Hub) *OrderHandler {
	return &OrderHandler{
		db:                db,
		hub:               hub,
		exclusiveOperator: config.ConfigBool("OPERATOR_EXCLUSIVE_ASSIGNMENT"),
	}
}

type CreateOrderRequest struct {
	UnitID           string  `json:"unit_id" validate:"required,uuid"`
	OperatorID       *string `json:"operator_id,omitempty" validate:"omitempty,uuid"`
	StartDate        string  `json:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate          string  `json:"end_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DeliveryLocation string  `json:"delivery_location" validate:"required,min=5"`
	CompanyName      string  `json:"company_name"`
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	customerID := middleware.CallerID(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	unitID, _ := uuid.Parse(req.UnitID)
	startDate, _ := time.Parse(time.RFC3339, req.StartDate)
	endDate, _ := time.Parse(time.RFC3339, req.EndDate)
	if !endDate.After(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "End date must be after start date"})
	}

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		if err := database.WithRowLock(tx).First(&unit, "id = ?", unitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("unit not found")
			}
			return err
		}
		if unit.Status != models.UnitAvailable {
			return errors.New("unit is not available for rent")
		}

		// The unit is reserved the moment the order exists, not when it is
		// paid: two customers must not hold the same forklift.
		unit.Status = models.UnitRented
		if err := tx.Save(&unit).Error; err != nil {
			return err
		}

		var operatorID *uuid.UUID
		if req.OperatorID != nil {
			id, _ := uuid.Parse(*req.OperatorID)
			var operator models.Operator
			if err := database.WithRowLock(tx).First(&operator, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("operator not found")
				}
				return err
			}
			if h.exclusiveOperator {
				if operator.Status != models.OperatorAvailable {
					return errors.New("operator is not available")
				}
				operator.Status = models.OperatorAssigned
				if err := tx.Save(&operator).Error; err != nil {
					return err
				}
			}
			operatorID = &id
		}

		order = models.Order{
			CustomerID:       customerID,
			UnitID:           unitID,
			OperatorID:       operatorID,
			StartDate:        startDate,
			EndDate:          endDate,
			DeliveryLocation: req.DeliveryLocation,
			CompanyName:      req.CompanyName,
			Status:           models.OrderAwaitingPayment,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	services.RecordTransactionLog(h.db, order.ID, "pemesanan_dibuat", "Pemesanan baru dibuat, menunggu pembayaran")
	h.hub.Notify("order_created", order.ID.String(), "Pemesanan baru masuk")

	go func() {
		var customer models.User
		if err := h.db.First(&customer, "id = ?", customerID).Error; err == nil {
			notifications.SendOrderReceivedEmail(customer)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Order created successfully",
		"data":    fiber.Map{"id": order.ID, "status": order.Status},
	})
}

func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.
		Preload("Unit").
		Preload("Operator").
		Where("customer_id = ?", middleware.CallerID(c)).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch orders", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Orders retrieved", "data": orders})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := h.db.
		Preload("Customer").
		Preload("Unit").
		Preload("Operator").
		First(&order, "id = ?", c.Params("orderId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
	}

	if !middleware.IsAdmin(c) && order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
	}

	return c.JSON(fiber.Map{"status": true, "message": "Order detail retrieved", "data": order})
}

func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.
		Preload("Customer").
		Preload("Unit").
		Preload("Operator").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch orders", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Orders retrieved", "data": orders})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus is the staff-driven lifecycle transition. Completion
// releases the rented unit and kicks off invoice generation.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Invalid order ID"})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	next, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Status tidak valid"})
	}

	order, changed, err := services.TransitionOrder(h.db, orderID, next, services.TransitionOptions{
		FreeOperator: h.exclusiveOperator,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to update order status", "error": err.Error()})
		}
	}

	// Re-delivered transitions to the current status change nothing; do not
	// re-broadcast or re-issue the invoice.
	if changed {
		if next == models.OrderCompleted {
			go services.GenerateRentalInvoice(h.db, order.ID)
		}
		h.hub.Notify("order_status", order.ID.String(), fmt.Sprintf("Status pemesanan menjadi %s", next))
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Order status updated successfully",
		"data":    fiber.Map{"id": order.ID, "status": order.Status},
	})
}

// CancelOrder hard-deletes an order that has not been paid yet and returns
// its unit (and operator, when exclusivity is on) to the available pool.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	var order models.Order

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := database.WithRowLock(tx).First(&order, "id = ?", c.Params("orderId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrOrderNotFound
			}
			return err
		}

		if !middleware.IsAdmin(c) && order.CustomerID != middleware.CallerID(c) {
			return errAccessDenied
		}
		if order.Status != models.OrderAwaitingPayment {
			return errors.New("only orders awaiting payment can be cancelled")
		}

		if err := tx.Model(&models.Unit{}).
			Where("id = ?", order.UnitID).
			Update("status", models.UnitAvailable).Error; err != nil {
			return err
		}
		if h.exclusiveOperator && order.OperatorID != nil {
			if err := tx.Model(&models.Operator{}).
				Where("id = ?", order.OperatorID).
				Update("status", models.OperatorAvailable).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&order).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
		case errors.Is(err, errAccessDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
		}
	}

	// The log table has no FK to orders, so the trail outlives the delete.
	services.RecordTransactionLog(h.db, order.ID, "pemesanan_dibatalkan", "Pemesanan dibatalkan sebelum pembayaran")
	h.hub.Notify("order_cancelled", order.ID.String(), "Pemesanan dibatalkan")

	return c.JSON(fiber.Map{"status": true, "message": "Order cancelled successfully"})
}

var errAccessDenied = errors.New("access denied")
