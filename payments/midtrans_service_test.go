package payments

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/stretchr/testify/assert"
)

func TestMapNotificationStatus(t *testing.T) {
	cases := []struct {
		transaction string
		fraud       string
		want        models.PaymentStatus
	}{
		{"capture", "accept", models.PaymentSuccess},
		{"capture", "challenge", models.PaymentChallenge},
		{"capture", "", models.PaymentPending},
		{"settlement", "", models.PaymentSuccess},
		{"settlement", "accept", models.PaymentSuccess},
		{"cancel", "", models.PaymentFailed},
		{"deny", "", models.PaymentFailed},
		{"expire", "", models.PaymentFailed},
		{"pending", "", models.PaymentPending},
		{"refund", "", models.PaymentPending},
	}
	for _, tc := range cases {
		got := MapNotificationStatus(tc.transaction, tc.fraud)
		assert.Equalf(t, tc.want, got, "%s/%s", tc.transaction, tc.fraud)
	}
}

func TestVerifySignature(t *testing.T) {
	s := &MidtransService{serverKey: "secret-key"}

	sum := sha512.Sum512([]byte("ORDER-ABC12345" + "200" + "150000.00" + "secret-key"))
	valid := hex.EncodeToString(sum[:])

	assert.True(t, s.VerifySignature("ORDER-ABC12345", "200", "150000.00", valid))
	assert.False(t, s.VerifySignature("ORDER-ABC12345", "200", "150000.00", "deadbeef"))
	assert.False(t, s.VerifySignature("ORDER-XYZ99999", "200", "150000.00", valid))
}

func TestVerifySignatureSkippedWithoutServerKey(t *testing.T) {
	s := &MidtransService{}
	assert.True(t, s.VerifySignature("ORDER-ABC12345", "200", "150000.00", "anything"))
}
