package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

// RecordTransactionLog appends one audit row. Best effort: a failed write is
// logged server-side and never fails the operation that triggered it.
func RecordTransactionLog(db *gorm.DB, orderID uuid.UUID, event, note string) {
	entry := models.TransactionLog{
		OrderID:  orderID,
		Event:    event,
		Note:     note,
		LoggedAt: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("🔥 Failed to write transaction log for order %s: %v", orderID, err)
	}
}
