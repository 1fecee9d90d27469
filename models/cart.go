package models

import "time"

// Cart is the per-user staging area of selected products. A user has at
// most one open cart; checkout empties it rather than deleting the row.
type Cart struct {
	CartID         uint       `gorm:"primaryKey" json:"id"`
	UserID         string     `gorm:"uniqueIndex" json:"user_id"`
	Items          []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"products"`
	TotalCartValue float64    `json:"totalCartValue"`
	IsPaid         bool       `json:"isPaid"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// CartItem snapshots product name, price and images as they were when the
// item was added, so later catalog edits never change what the customer saw.
type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CartID      uint      `gorm:"index" json:"-"`
	ProductID   string    `gorm:"index" json:"productId"`
	ProductName string    `json:"productName"`
	Price       float64   `json:"price"`
	Images      []string  `gorm:"serializer:json" json:"images"`
	Size        string    `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"-"`
}

// Subtotal returns price times quantity for one line.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Recompute derives TotalCartValue from the current line items. The stored
// total is never trusted as input; every mutation calls this before saving.
func (c *Cart) Recompute() {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	c.TotalCartValue = total
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
