package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/services"
	"gorm.io/gorm"
)

// ExpireStalePayments fails gateway payments that sat in "pending" for more
// than a day. Midtrans expires the Snap session on its side; this keeps our
// rows from looking payable forever when the expiry webhook never arrived.
func ExpireStalePayments(db *gorm.DB) {
	log.Println("Running job: ExpireStalePayments...")

	cutoff := time.Now().Add(-24 * time.Hour)

	var stale []models.Payment
	err := db.
		Where("status = ? AND gateway_order_id IS NOT NULL AND created_at < ?", models.PaymentPending, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale payments: %v", err)
		return
	}

	if len(stale) == 0 {
		log.Println("No stale payments found.")
		return
	}

	for _, payment := range stale {
		payment.Status = models.PaymentFailed
		if err := db.Save(&payment).Error; err != nil {
			log.Printf("Error expiring payment %s: %v", payment.ID, err)
			continue
		}
		services.RecordTransactionLog(db, payment.OrderID, "pembayaran_kedaluwarsa",
			fmt.Sprintf("Pembayaran %s melewati batas waktu 24 jam", payment.ID))
	}

	log.Printf("Marked %d stale payment(s) as failed.", len(stale))
}
