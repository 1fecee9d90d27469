package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product lives in the catalog document store. The cart and order tables
// never reference it directly; they carry their own snapshots.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName  string             `bson:"productName" json:"productName"`
	Price        float64            `bson:"price" json:"price"`
	MarketPrice  float64            `bson:"marketPrice,omitempty" json:"marketPrice,omitempty"`
	Brand        string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Seller       string             `bson:"seller,omitempty" json:"seller,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	Images       []string           `bson:"images,omitempty" json:"images,omitempty"`
	Stock        int                `bson:"stock" json:"stock"`
	DeliveryInfo string             `bson:"deliveryInfo,omitempty" json:"deliveryInfo,omitempty"`
}
