package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/apperrors"
	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/middleware"
	"github.com/palrajin0126/ecom/models"
	"github.com/palrajin0126/ecom/notify"
)

// ShippingForm carries the checkout form fields. Validation happens at the
// boundary, before any persistent state is touched.
type ShippingForm struct {
	CustomerName string `json:"customerName" binding:"required"`
	Apartment    string `json:"apartment"`
	Block        string `json:"block"`
	Locality     string `json:"locality" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Mobile       string `json:"mobile" binding:"required"`
}

// Correlation carries the gateway fields recorded on online-payment orders.
type Correlation struct {
	MerchantID          string
	TransactionID       string
	ProviderReferenceID string
	ProviderID          string
	ResponseCode        string
}

// NewOrderNumber generates a unique, time-derived order reference.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// CreateFromCart converts the user's cart into an immutable order and
// empties the cart. Call it inside a transaction: the item delete's
// rows-affected count is the guard that serializes concurrent checkouts,
// so the loser of a race observes an empty cart instead of double-spending
// the same snapshot.
func CreateFromCart(tx *gorm.DB, userID string, form ShippingForm, method models.PaymentMethod, payStatus models.PaymentStatus, corr Correlation) (*models.Order, error) {
	var cart models.Cart
	err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrEmptyCart
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	res := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, apperrors.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent checkout already consumed this cart.
		return nil, apperrors.ErrEmptyCart
	}

	cart.Recompute()
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Images:      item.Images,
			Size:        item.Size,
			Color:       item.Color,
			Quantity:    item.Quantity,
		})
	}

	order := models.Order{
		OrderNumber:         NewOrderNumber(),
		UserID:              userID,
		Items:               items,
		CustomerName:        form.CustomerName,
		Apartment:           form.Apartment,
		Block:               form.Block,
		Locality:            form.Locality,
		City:                form.City,
		State:               form.State,
		Pincode:             form.Pincode,
		Email:               form.Email,
		Mobile:              form.Mobile,
		OrderTotal:          cart.TotalCartValue,
		Quantity:            cart.ItemCount(),
		PaymentMethod:       method,
		PaymentStatus:       payStatus,
		MerchantID:          corr.MerchantID,
		TransactionID:       corr.TransactionID,
		ProviderReferenceID: corr.ProviderReferenceID,
		ProviderID:          corr.ProviderID,
		ResponseCode:        corr.ResponseCode,
		CreatedAt:           time.Now(),
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	// The cart row is reused, not deleted.
	if err := tx.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
		Updates(map[string]interface{}{"total_cart_value": 0, "is_paid": false}).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	return &order, nil
}

// Confirm publishes the confirmation event and feeds the admin order
// stream. Both are best effort; the order is already committed.
func Confirm(c *gin.Context, publisher notify.OrderPublisher, order *models.Order) {
	if publisher != nil {
		if err := publisher.PublishOrderConfirmation(c.Request.Context(), notify.ConfirmationFromOrder(order)); err != nil {
			logger.Log.Error("failed to publish order confirmation",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}
	broadcastNewOrder(*order)
}

// POST /order/create
//
// Cash-on-delivery checkout: the order is created immediately and the
// payment collected at the door.
func CreateOrder(db *gorm.DB, publisher notify.OrderPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var form ShippingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order *models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			order, err = CreateFromCart(tx, userID, form, models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
			return err
		})
		if err != nil {
			middleware.RecordCheckoutOperation("order_create", false)
			apperrors.Respond(c, err)
			return
		}

		middleware.RecordCheckoutOperation("order_create", true)
		Confirm(c, publisher, order)
		c.JSON(http.StatusOK, gin.H{"orderId": order.ID, "orderNumber": order.OrderNumber})
	}
}

// GET /order
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage(err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
