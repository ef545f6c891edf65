package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/notifications"
	"github.com/prasetyodwi/forklift_rental/services"
	"gorm.io/gorm"
)

// NotifyOverdueRentals reminds customers whose rental period ended while the
// order is still "dikirim". The order itself is left alone; only an admin
// closes a rental.
func NotifyOverdueRentals(db *gorm.DB) {
	log.Println("Running job: NotifyOverdueRentals...")

	var overdue []models.Order
	err := db.
		Preload("Customer").
		Preload("Unit").
		Where("status = ? AND end_date < ?", models.OrderDispatched, time.Now()).
		Find(&overdue).Error
	if err != nil {
		log.Printf("Error checking for overdue rentals: %v", err)
		return
	}

	if len(overdue) == 0 {
		log.Println("No overdue rentals found.")
		return
	}

	for _, order := range overdue {
		go notifications.SendRentalOverdueEmail(order.Customer, order.Unit.Name, order.EndDate)

		services.RecordTransactionLog(db, order.ID, "sewa_terlambat",
			fmt.Sprintf("Masa sewa berakhir %s, unit belum dikembalikan", order.EndDate.Format("2006-01-02")))
	}

	log.Printf("Notified %d overdue rental(s).", len(overdue))
}
