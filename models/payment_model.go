package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one monetary attempt against an order. An order may accumulate
// several attempts; only one is expected to reach "success".
type Payment struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount         float64       `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method         string        `gorm:"size:50;not null" json:"method"`
	PaymentDate    time.Time     `gorm:"not null" json:"payment_date"`
	GatewayOrderID *string       `gorm:"size:100;unique" json:"gateway_order_id"`
	Status         PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Order Order `gorm:"foreignkey:OrderID" json:"order,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) TableName() string { return "pembayaran" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
