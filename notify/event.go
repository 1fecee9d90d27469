package notify

import (
	"context"

	"github.com/palrajin0126/ecom/models"
)

// OrderConfirmation is the message emitted after a checkout commits. The
// broker delivers it at least once; consumers must treat the order number
// as the idempotency key.
type OrderConfirmation struct {
	OrderNumber  string     `json:"orderNumber"`
	CustomerName string     `json:"customerName"`
	Email        string     `json:"email"`
	Total        float64    `json:"total"`
	Items        []LineItem `json:"items"`
}

type LineItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderPublisher is what the checkout handlers depend on; the RabbitMQ
// publisher implements it in production.
type OrderPublisher interface {
	PublishOrderConfirmation(ctx context.Context, ev OrderConfirmation) error
}

// ConfirmationFromOrder builds the event for a freshly created order.
func ConfirmationFromOrder(order *models.Order) OrderConfirmation {
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return OrderConfirmation{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Total:        order.OrderTotal,
		Items:        items,
	}
}
