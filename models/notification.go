package models

import "time"

// NotificationLog marks an order confirmation as sent. The queue delivers
// at least once; the unique order number is what keeps a redelivered
// message from mailing the customer twice.
type NotificationLog struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"uniqueIndex;not null"`
	SentAt      time.Time
}
