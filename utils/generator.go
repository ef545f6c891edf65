package utils

import (
	"math/rand"
	"time"
)

const refLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateGatewayOrderRef builds the ORDER-XXXXXXXX reference used to
// correlate a payment with its Midtrans transaction.
func GenerateGatewayOrderRef() string {
	b := make([]byte, refLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return "ORDER-" + string(b)
}
