package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferProof is the uploaded evidence of a manual bank transfer, pending
// staff verification. Mutated only by admins after upload.
type TransferProof struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"payment_id"`
	ProofFile  *string            `gorm:"size:255" json:"proof_file"`
	ProofImage *string            `gorm:"size:255" json:"proof_image"`
	Status     VerificationStatus `gorm:"size:20;not null;default:'menunggu'" json:"status"`
	Note       *string            `gorm:"type:text" json:"note"`

	Payment Payment `gorm:"foreignkey:PaymentID" json:"payment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TransferProof) TableName() string { return "bukti_transfer" }

func (t *TransferProof) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
