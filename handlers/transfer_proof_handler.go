package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/prasetyodwi/forklift_rental/configs"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/middleware"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/services"
	"github.com/prasetyodwi/forklift_rental/websocket"
	"gorm.io/gorm"
)

const maxProofFileSize = 5 * 1024 * 1024

type TransferProofHandler struct {
	db        *gorm.DB
	hub       *websocket.Hub
	uploadDir string
}

func NewTransferProofHandler(db *gorm.DB, hub *websocket.Hub) *TransferProofHandler {
	dir := config.Config("PROOF_UPLOAD_DIR")
	if dir == "" {
		dir = "public/bukti_transfer"
	}
	return &TransferProofHandler{db: db, hub: hub, uploadDir: dir}
}

var allowedProofTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

func (h *TransferProofHandler) saveProofFile(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > maxProofFileSize {
		return "", errors.New("file exceeds the 5MB limit")
	}
	if !allowedProofTypes[file.Header.Get("Content-Type")] {
		return "", errors.New("only JPEG, JPG, PNG and PDF files are allowed")
	}
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

func (h *TransferProofHandler) removeProofFiles(names ...*string) {
	for _, name := range names {
		if name == nil {
			continue
		}
		if err := os.Remove(filepath.Join(h.uploadDir, *name)); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to remove proof file %s: %v", *name, err)
		}
	}
}

// UploadProof stores the transfer evidence and immediately advances the
// owning order to "menunggu konfirmasi" in the same transaction. Manual
// transfers are trusted on upload; staff verification comes after.
func (h *TransferProofHandler) UploadProof(c *fiber.Ctx) error {
	paymentID := c.FormValue("payment_id")
	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "payment_id and at least one proof file are required"})
	}

	proofFile, _ := c.FormFile("file_bukti")
	proofImage, _ := c.FormFile("gambar_bukti")
	if proofFile == nil && proofImage == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "payment_id and at least one proof file are required"})
	}

	var payment models.Payment
	if err := h.db.Preload("Order").First(&payment, "id = ?", paymentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Payment not found"})
	}
	if payment.Order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own payments."})
	}

	var fileName, imageName *string
	if proofFile != nil {
		name, err := h.saveProofFile(c, proofFile)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
		}
		fileName = &name
	}
	if proofImage != nil {
		name, err := h.saveProofFile(c, proofImage)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
		}
		imageName = &name
	}

	var proof models.TransferProof
	err := h.db.Transaction(func(tx *gorm.DB) error {
		proof = models.TransferProof{
			PaymentID:  payment.ID,
			ProofFile:  fileName,
			ProofImage: imageName,
			Status:     models.VerificationPending,
		}
		if err := tx.Create(&proof).Error; err != nil {
			return err
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
		}
		return nil
	})
	if err != nil {
		// The files were written before the transaction; do not leave them
		// orphaned on disk when the proof row never landed.
		h.removeProofFiles(fileName, imageName)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to store transfer proof", "error": err.Error()})
	}

	services.RecordTransactionLog(h.db, payment.OrderID, "bukti_transfer_diunggah",
		"Bukti transfer diunggah, pesanan menunggu konfirmasi")
	h.hub.Notify("proof_uploaded", payment.OrderID.String(), "Bukti transfer baru menunggu verifikasi")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Transfer proof uploaded successfully",
		"data":    fiber.Map{"id": proof.ID, "status": proof.Status},
	})
}

func (h *TransferProofHandler) GetProof(c *fiber.Ctx) error {
	var proof models.TransferProof
	if err := h.db.Preload("Payment.Order").First(&proof, "id = ?", c.Params("proofId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Transfer proof not found"})
	}
	if !middleware.IsAdmin(c) && proof.Payment.Order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own transfer proofs."})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transfer proof detail retrieved", "data": proof})
}

func (h *TransferProofHandler) ListPaymentProofs(c *fiber.Ctx) error {
	var payment models.Payment
	if err := h.db.Preload("Order").First(&payment, "id = ?", c.Params("paymentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Payment not found"})
	}
	if !middleware.IsAdmin(c) && payment.Order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own payments."})
	}

	var proofs []models.TransferProof
	if err := h.db.Where("payment_id = ?", payment.ID).Order("created_at desc").Find(&proofs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to fetch transfer proofs", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": true, "message": "Transfer proofs retrieved", "data": proofs})
}

type VerifyProofRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note,omitempty"`
}

// VerifyProof is the staff decision. Acceptance advances the order to
// "menunggu konfirmasi"; rejection sends it back to "menunggu pembayaran"
// so the customer can resubmit.
func (h *TransferProofHandler) VerifyProof(c *fiber.Ctx) error {
	var req VerifyProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": err.Error()})
	}

	decision, err := models.ParseVerificationDecision(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Status verifikasi tidak valid"})
	}

	var proof models.TransferProof
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := database.WithRowLock(tx).Preload("Payment").First(&proof, "id = ?", c.Params("proofId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errProofNotFound
			}
			return err
		}

		proof.Status = decision
		proof.Note = req.Note
		if err := tx.Save(&proof).Error; err != nil {
			return err
		}

		var order models.Order
		if err := database.WithRowLock(tx).First(&order, "id = ?", proof.Payment.OrderID).Error; err != nil {
			return err
		}

		switch decision {
		case models.VerificationAccepted:
			if order.Status == models.OrderAwaitingPayment {
				order.Status = models.OrderAwaitingConfirmation
				return tx.Save(&order).Error
			}
		case models.VerificationRejected:
			if order.Status == models.OrderAwaitingConfirmation {
				order.Status = models.OrderAwaitingPayment
				return tx.Save(&order).Error
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errProofNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Transfer proof not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to update verification status", "error": err.Error()})
	}

	note := ""
	if req.Note != nil {
		note = *req.Note
	}
	services.RecordTransactionLog(h.db, proof.Payment.OrderID,
		fmt.Sprintf("verifikasi_%s", decision),
		fmt.Sprintf("Bukti transfer %s. %s", decision, note))
	h.hub.Notify("proof_verified", proof.Payment.OrderID.String(), fmt.Sprintf("Bukti transfer %s", decision))

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Verification status updated successfully",
		"data":    fiber.Map{"id": proof.ID, "status": proof.Status},
	})
}

// DeleteProof removes a proof that has not been verified yet, along with
// its stored files.
func (h *TransferProofHandler) DeleteProof(c *fiber.Ctx) error {
	var proof models.TransferProof
	if err := h.db.Preload("Payment.Order").First(&proof, "id = ?", c.Params("proofId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": false, "message": "Transfer proof not found"})
	}
	if !middleware.IsAdmin(c) && proof.Payment.Order.CustomerID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": false, "message": "Access denied. You can only access your own transfer proofs."})
	}
	if proof.Status != models.VerificationPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "message": "Only pending transfer proofs can be deleted"})
	}

	if err := h.db.Delete(&proof).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "message": "Failed to delete transfer proof", "error": err.Error()})
	}

	h.removeProofFiles(proof.ProofFile, proof.ProofImage)

	return c.JSON(fiber.Map{"status": true, "message": "Transfer proof deleted successfully"})
}

var errProofNotFound = errors.New("transfer proof not found")
