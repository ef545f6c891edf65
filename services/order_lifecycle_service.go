package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionOptions tunes the side effects of a status change.
type TransitionOptions struct {
	// FreeOperator releases an exclusively assigned operator when the order
	// reaches "selesai". Off unless OPERATOR_EXCLUSIVE_ASSIGNMENT is set.
	FreeOperator bool
	// LogNote overrides the default audit note.
	LogNote string
}

// TransitionOrder moves an order to the next lifecycle state inside a single
// locked transaction, applying the completion side effects. The order row is
// locked FOR UPDATE so concurrent transitions on the same order serialize
// instead of losing updates. A same-status transition is a pure no-op: it
// returns changed=false and leaves the audit trail untouched, so callers can
// skip their own side effects too.
func TransitionOrder(db *gorm.DB, orderID uuid.UUID, next models.OrderStatus, opts TransitionOptions) (*models.Order, bool, error) {
	var order models.Order
	var changed bool

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := database.WithRowLock(tx).First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}
		if order.Status == next {
			return nil
		}
		changed = true

		prev := order.Status
		order.Status = next
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if next == models.OrderCompleted {
			if err := releaseUnit(tx, &order); err != nil {
				return err
			}
			if opts.FreeOperator && order.OperatorID != nil {
				if err := tx.Model(&models.Operator{}).
					Where("id = ?", order.OperatorID).
					Update("status", models.OperatorAvailable).Error; err != nil {
					return err
				}
			}
		}

		log.Printf("Order %s: %s -> %s", order.ID, prev, next)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return &order, false, nil
	}

	note := opts.LogNote
	if note == "" {
		note = fmt.Sprintf("Status pemesanan berubah menjadi %s", next)
	}
	RecordTransactionLog(db, order.ID, fmt.Sprintf("status_%s", next), note)

	return &order, true, nil
}

// releaseUnit flips the rented unit back to "tersedia". A missing unit row
// does not fail the completion; the gap is logged instead.
func releaseUnit(tx *gorm.DB, order *models.Order) error {
	var unit models.Unit
	if err := database.WithRowLock(tx).First(&unit, "id = ?", order.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Order %s completed but unit %s not found; skipping release", order.ID, order.UnitID)
			return nil
		}
		return err
	}
	unit.Status = models.UnitAvailable
	return tx.Save(&unit).Error
}
