package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a customer's request to rent a unit for a date range.
type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	UnitID           uuid.UUID   `gorm:"type:uuid;not null" json:"unit_id"`
	OperatorID       *uuid.UUID  `gorm:"type:uuid" json:"operator_id"`
	StartDate        time.Time   `gorm:"not null" json:"start_date"`
	EndDate          time.Time   `gorm:"not null" json:"end_date"`
	DeliveryLocation string      `gorm:"size:255;not null" json:"delivery_location"`
	CompanyName      string      `gorm:"size:255" json:"company_name"`
	Status           OrderStatus `gorm:"size:30;not null;default:'menunggu pembayaran'" json:"status"`

	Customer User      `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Unit     Unit      `gorm:"foreignkey:UnitID" json:"unit,omitempty"`
	Operator *Operator `gorm:"foreignkey:OperatorID" json:"operator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) TableName() string { return "pemesanan" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
