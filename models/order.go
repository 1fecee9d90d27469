package models

import "time"

type PaymentMethod string
type PaymentStatus string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is the immutable record of a completed checkout. Line items are a
// frozen copy of the cart at creation time; only the payment correlation
// fields may be touched after creation, when a gateway callback arrives.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex" json:"orderNumber"`
	UserID      string      `gorm:"index;not null" json:"user_id"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`

	// Shipping and contact details as submitted on the checkout form.
	CustomerName string `json:"customerName"`
	Apartment    string `json:"apartment"`
	Block        string `json:"block"`
	Locality     string `json:"locality"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`

	OrderTotal float64 `json:"orderTotal"`
	Quantity   int     `json:"quantity"`

	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`

	// Gateway correlation, populated for online payments only. The partial
	// unique index makes a redelivered callback an upsert no-op.
	MerchantID          string `json:"merchantId,omitempty"`
	TransactionID       string `gorm:"index:idx_orders_transaction_id,unique,where:transaction_id <> ''" json:"transactionId,omitempty"`
	ProviderReferenceID string `json:"providerReferenceId,omitempty"`
	ProviderID          string `json:"providerId,omitempty"`
	ResponseCode        string `json:"responseCode,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// OrderItem mirrors the cart line it was copied from. No foreign key back
// to the catalog: deleting a product must not corrupt historical orders.
type OrderItem struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	OrderID     uint     `gorm:"index" json:"-"`
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Price       float64  `json:"price"`
	Images      []string `gorm:"serializer:json" json:"images"`
	Size        string   `json:"size,omitempty"`
	Color       string   `json:"color,omitempty"`
	Quantity    int      `json:"quantity"`
}
