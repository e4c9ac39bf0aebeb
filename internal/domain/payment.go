package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntent is the id/secret pair created by the payment provider.
// ClientSecret is handed to the confirming side and never persisted.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"-"`
}

const (
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// PaymentRecord is one entry in a user's payment history.
type PaymentRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	IntentID  string    `json:"paymentIntentId"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
