package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionLog is the append-only audit trail of order status changes.
// OrderID carries no foreign key on purpose: the trail must survive hard
// deletion of a cancelled order.
type TransactionLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Event    string    `gorm:"size:100;not null" json:"event"`
	Note     string    `gorm:"type:text" json:"note"`
	LoggedAt time.Time `gorm:"not null" json:"logged_at"`
}

func (l *TransactionLog) TableName() string { return "log_transaksi" }

func (l *TransactionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LoggedAt.IsZero() {
		l.LoggedAt = time.Now()
	}
	return nil
}
