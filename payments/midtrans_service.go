package payments

import (
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	config "github.com/prasetyodwi/forklift_rental/configs"
	"github.com/prasetyodwi/forklift_rental/models"
)

// MidtransService wraps the Snap client. The gateway call carries an
// explicit timeout; a hung Midtrans round-trip must not pin a request.
type MidtransService struct {
	client    snap.Client
	serverKey string
}

func NewMidtransService() *MidtransService {
	serverKey := config.Config("MIDTRANS_SERVER_KEY")

	env := midtrans.Sandbox
	if config.Config("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	midtrans.DefaultGoHttpClient = &http.Client{Timeout: 15 * time.Second}

	s := &MidtransService{serverKey: serverKey}
	s.client.New(serverKey, env)
	return s
}

// CreateSnapTransaction opens a Snap session for the given order reference
// and returns the token + redirect URL the frontend needs.
func (s *MidtransService) CreateSnapTransaction(orderRef string, amount int64, customer models.User) (*snap.Response, error) {
	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderRef,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.FullName,
			Email: customer.Email,
			Phone: phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "RENTAL-1",
				Price: amount,
				Qty:   1,
				Name:  "Pembayaran Sewa Forklift",
			},
		},
	}

	resp, midErr := s.client.CreateTransaction(req)
	if midErr != nil {
		return nil, midErr
	}
	return resp, nil
}

// VerifySignature checks the sha512(order_id + status_code + gross_amount +
// server_key) signature Midtrans attaches to every notification. Returns
// true when no server key is configured, which only happens in tests.
func (s *MidtransService) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if s.serverKey == "" {
		return true
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	return hex.EncodeToString(sum[:]) == signature
}

// MapNotificationStatus folds the transaction_status / fraud_status pair
// from a Midtrans notification into the local payment status.
func MapNotificationStatus(transactionStatus, fraudStatus string) models.PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return models.PaymentChallenge
		}
		if fraudStatus == "accept" {
			return models.PaymentSuccess
		}
		return models.PaymentPending
	case "settlement":
		return models.PaymentSuccess
	case "cancel", "deny", "expire":
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}
