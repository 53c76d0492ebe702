package domain

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is the closed set of accepted payment instruments.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
	PaymentPaypal     PaymentMethod = "PAYPAL"
	PaymentBoleto     PaymentMethod = "BOLETO"
	PaymentOther      PaymentMethod = "OTHER"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentCreditCard: {}, PaymentDebitCard: {}, PaymentPix: {},
	PaymentPaypal: {}, PaymentBoleto: {}, PaymentOther: {},
}

// ParsePaymentMethod normalizes and validates a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := paymentMethods[m]; !ok {
		return "", fmt.Errorf("invalid payment method %q", s)
	}
	return m, nil
}

// Purchase records a user buying a game. Price is the catalog price at
// the time of purchase, not whatever the client claims.
type Purchase struct {
	ID            int64
	UserID        int64
	GameID        int64
	Price         float64
	PaymentMethod PaymentMethod
	PurchaseDate  time.Time
	CreatedAt     time.Time
}
