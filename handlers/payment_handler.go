package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/middleware"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/payments"
	"github.com/prasetyodwi/forklift_rental/services"
	"github.com/prasetyodwi/forklift_rental/utils"
	"github.com/prasetyodwi/forklift_rental/websocket"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db       *gorm.DB
	hub      *websocket.Hub
	midtrans *payments.MidtransService
}

func NewPaymentHandler(db *gorm.DB, hub *websocket.Hub, midtrans *payments.MidtransService) *PaymentHandler {
	return &PaymentHandler{db: db, hub: hub, midtrans: midtrans}
}

type CreatePaymentRequest struct {
	OrderID     string  `json:"order_id" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreatePayment records a manual (bank transfer) payment attempt. The proof
// upload that follows is what advances the order.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	orderID, _ := uuid.Parse(req.OrderID)
	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
	}
	if !middleware.IsAdmin(c) && order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
	}

	paymentDate, _ := time.Parse(time.RFC3339, req.PaymentDate)
	payment := models.Payment{
		OrderID:     orderID,
		Amount:      req.Amount,
		Method:      req.Method,
		PaymentDate: paymentDate,
		Status:      models.PaymentPending,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to create payment", "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Payment created successfully",
		"data":    fiber.Map{"id": payment.ID, "status": payment.Status},
	})
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	var payment models.Payment
	if err := h.db.Preload("Order").First(&payment, "id = ?", c.Params("paymentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Payment not found"})
	}
	if !middleware.IsAdmin(c) && payment.Order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own payments."})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Payment detail retrieved", "data": payment})
}

func (h *PaymentHandler) ListOrderPayments(c *fiber.Ctx) error {
	var order models.Order
	if err := h.db.First(&order, "id = ?", c.Params("orderId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
	}
	if !middleware.IsAdmin(c) && order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
	}

	var list []models.Payment
	if err := h.db.Where("order_id = ?", order.ID).Order("created_at desc").Find(&list).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch payments", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Payments retrieved", "data": list})
}

func (h *PaymentHandler) AdminListPayments(c *fiber.Ctx) error {
	var list []models.Payment
	if err := h.db.Preload("Order").Order("created_at desc").Find(&list).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch payments", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Payments retrieved", "data": list})
}

type CreateGatewayTransactionRequest struct {
	OrderID string  `json:"order_id" validate:"required,uuid"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
}

// CreateGatewayTransaction opens a Midtrans Snap session and stores the
// pending payment keyed by the generated ORDER-XXXXXXXX reference.
func (h *PaymentHandler) CreateGatewayTransaction(c *fiber.Ctx) error {
	var req CreateGatewayTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	orderID, _ := uuid.Parse(req.OrderID)
	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Order not found"})
	}
	if !middleware.IsAdmin(c) && order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own orders."})
	}

	var customer models.User
	if err := h.db.First(&customer, "id = ?", order.CustomerID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to load customer", "error": err.Error()})
	}

	orderRef := utils.GenerateGatewayOrderRef()
	snapResp, err := h.midtrans.CreateSnapTransaction(orderRef, int64(req.Amount), customer)
	if err != nil {
		log.Printf("🔥 Midtrans CreateTransaction failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to create gateway transaction", "error": err.Error()})
	}

	payment := models.Payment{
		OrderID:        orderID,
		Amount:         req.Amount,
		Method:         "midtrans",
		PaymentDate:    time.Now(),
		GatewayOrderID: &orderRef,
		Status:         models.PaymentPending,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to store payment record", "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Gateway transaction created",
		"data": fiber.Map{
			"payment_id":   payment.ID,
			"order_ref":    orderRef,
			"token":        snapResp.Token,
			"redirect_url": snapResp.RedirectURL,
		},
	})
}

type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

var errAlreadyProcessed = errors.New("notification already processed")

// HandleGatewayNotification is the Midtrans webhook. It always answers 200:
// the gateway retries anything else, and the processing outcome lives in the
// envelope. Re-delivery of a terminal notification is a no-op.
func (h *PaymentHandler) HandleGatewayNotification(c *fiber.Ctx) error {
	var notif GatewayNotification
	if err := c.BodyParser(&notif); err != nil {
		return c.JSON(fiber.Map{"status": false, "message": "Cannot parse notification payload"})
	}
	if notif.OrderID == "" || notif.TransactionStatus == "" {
		return c.JSON(fiber.Map{"status": false, "message": "Incomplete notification payload"})
	}
	if !h.midtrans.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		log.Printf("⚠️ Rejected gateway notification with bad signature for %s", notif.OrderID)
		return c.JSON(fiber.Map{"status": false, "message": "Invalid signature"})
	}

	mapped := payments.MapNotificationStatus(notif.TransactionStatus, notif.FraudStatus)

	var payment models.Payment
	var orderAdvanced bool
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := database.WithRowLock(tx).First(&payment, "gateway_order_id = ?", notif.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("payment record not found")
			}
			return err
		}

		if payment.Status.IsTerminal() {
			return errAlreadyProcessed
		}

		payment.Status = mapped
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if mapped != models.PaymentSuccess {
			return nil
		}

		var order models.Order
		if err := database.WithRowLock(tx).First(&order, "id = ?", payment.OrderID).Error; err != nil {
			return err
		}
		if order.Status == models.OrderAwaitingPayment {
			order.Status = models.OrderAwaitingConfirmation
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			orderAdvanced = true
		}
		return nil
	})

	if errors.Is(err, errAlreadyProcessed) {
		return c.JSON(fiber.Map{"status": true, "message": "Notification already processed"})
	}
	if err != nil {
		log.Printf("🔥 Failed to process gateway notification for %s: %v", notif.OrderID, err)
		return c.JSON(fiber.Map{"status": false, "message": "Failed to process notification", "error": err.Error()})
	}

	if orderAdvanced {
		services.RecordTransactionLog(h.db, payment.OrderID, "pembayaran_sukses",
			"Pembayaran gateway berhasil, pesanan menunggu konfirmasi")
		h.hub.Notify("payment_success", payment.OrderID.String(), "Pembayaran gateway berhasil")
	}

	return c.JSON(fiber.Map{"status": true, "message": "Notification processed successfully"})
}
