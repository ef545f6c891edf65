package models

import "fmt"

// OrderStatus is the rental lifecycle. Values are stored verbatim, in
// Indonesian, because the frontend and the database predate this service.
type OrderStatus string

const (
	OrderAwaitingPayment      OrderStatus = "menunggu pembayaran"
	OrderAwaitingConfirmation OrderStatus = "menunggu konfirmasi"
	OrderDispatched           OrderStatus = "dikirim"
	OrderCompleted            OrderStatus = "selesai"
)

// ParseOrderStatus rejects anything outside the four lifecycle values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderAwaitingPayment, OrderAwaitingConfirmation, OrderDispatched, OrderCompleted:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// orderTransitions is the full forward graph. "menunggu konfirmasi" may fall
// back to "menunggu pembayaran" when a transfer proof is rejected.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderAwaitingPayment:      {OrderAwaitingConfirmation},
	OrderAwaitingConfirmation: {OrderAwaitingPayment, OrderDispatched},
	OrderDispatched:           {OrderCompleted},
	OrderCompleted:            {},
}

// CanTransitionTo reports whether next is reachable in one step. Staying on
// the current status is always allowed and treated as a no-op by callers.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// PaymentStatus mirrors the Midtrans vocabulary plus our manual flow.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentChallenge PaymentStatus = "challenge"
)

// IsTerminal reports whether the payment can still change. "challenge" is
// not terminal: Midtrans re-notifies once fraud review resolves it.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// VerificationStatus is the staff decision on a manual transfer proof.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "menunggu"
	VerificationAccepted VerificationStatus = "diterima"
	VerificationRejected VerificationStatus = "ditolak"
)

// ParseVerificationDecision accepts only the two decided states; a proof
// cannot be moved back to "menunggu".
func ParseVerificationDecision(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case VerificationAccepted, VerificationRejected:
		return VerificationStatus(s), nil
	}
	return "", fmt.Errorf("unknown verification decision %q", s)
}

type UnitStatus string

const (
	UnitAvailable UnitStatus = "tersedia"
	UnitRented    UnitStatus = "disewa"
)

type OperatorStatus string

const (
	OperatorAvailable OperatorStatus = "tersedia"
	OperatorAssigned  OperatorStatus = "bertugas"
)

// ValidCapacities are the forklift classes the fleet carries, in tons.
var ValidCapacities = []string{"2.5", "3", "5", "7", "10"}

func IsValidCapacity(capacity string) bool {
	for _, c := range ValidCapacities {
		if c == capacity {
			return true
		}
	}
	return false
}
