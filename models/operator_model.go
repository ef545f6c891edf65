package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Operator struct {
	ID     uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name   string         `gorm:"size:100;not null" json:"name"`
	Phone  string         `gorm:"size:20;not null" json:"phone"`
	Photo  *string        `gorm:"size:255" json:"photo"`
	Status OperatorStatus `gorm:"size:20;not null;default:'tersedia'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
