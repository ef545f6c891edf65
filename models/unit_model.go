package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is a rentable forklift asset. Status is a cached availability flag:
// exactly one non-terminal order may hold a unit in "disewa" at a time.
type Unit struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Capacity    string     `gorm:"size:10;not null" json:"capacity"`
	HourlyRate  float64    `gorm:"type:numeric(12,2);not null" json:"hourly_rate"`
	Image       *string    `gorm:"size:255" json:"image"`
	Status      UnitStatus `gorm:"size:20;not null;default:'tersedia'" json:"status"`
	Description *string    `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *Unit) TableName() string { return "unit_forklift" }

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
