package models

import "time"

// PaymentAttempt records one online-payment initiation. The gateway echoes
// the merchant transaction id back in its callback, which is how the
// asynchronous notification finds the user, cart and shipping details it
// must turn into an Order.
type PaymentAttempt struct {
	ID                    uint   `gorm:"primaryKey"`
	MerchantTransactionID string `gorm:"uniqueIndex;not null"`
	UserID                string `gorm:"index;not null"`

	CustomerName string
	Apartment    string
	Block        string
	Locality     string
	City         string
	State        string
	Pincode      string
	Email        string
	Mobile       string

	// Amount in minor currency units (paise), as sent to the gateway.
	Amount int64

	Status    PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
