package orderControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/apperrors"
	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/middleware"
	"github.com/palrajin0126/ecom/models"
	"github.com/palrajin0126/ecom/notify"
)

func TestMain(m *testing.M) {
	logger.Initialize("test")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedCart(t *testing.T, db *gorm.DB, userID string, items ...models.CartItem) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range items {
		items[i].CartID = cart.CartID
		items[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&items[i]).Error)
	}
	cart.Items = items
	cart.Recompute()
	require.NoError(t, db.Model(&cart).Update("total_cart_value", cart.TotalCartValue).Error)
	return cart
}

func testForm() ShippingForm {
	return ShippingForm{
		CustomerName: "Asha Kumar",
		Locality:     "MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Email:        "asha@example.com",
		Mobile:       "9876543210",
	}
}

// recordingPublisher captures published confirmations in memory.
type recordingPublisher struct {
	events []notify.OrderConfirmation
	err    error
}

func (p *recordingPublisher) PublishOrderConfirmation(_ context.Context, ev notify.OrderConfirmation) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func TestCreateFromCart(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{
		ProductID:   "P1",
		ProductName: "Trail Shoes",
		Price:       500,
		Quantity:    2,
	})

	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = CreateFromCart(tx, "user-1", testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, order.OrderTotal)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Contains(t, order.OrderNumber, "ORD-")
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Trail Shoes", order.Items[0].ProductName)
	assert.Equal(t, 500.0, order.Items[0].Price)

	// The cart survives as an empty row; its items are gone.
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", "user-1").First(&cart).Error)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalCartValue)
}

func TestCreateFromCart_EmptyCart(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := CreateFromCart(tx, "no-cart-user", testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
		return err
	})
	require.ErrorIs(t, err, apperrors.ErrEmptyCart)

	seedCart(t, db, "user-1")
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := CreateFromCart(tx, "user-1", testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
		return err
	})
	require.ErrorIs(t, err, apperrors.ErrEmptyCart)
}

func TestCreateFromCart_SecondCheckoutFindsNothing(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", Price: 250, Quantity: 1})

	checkout := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			_, err := CreateFromCart(tx, "user-1", testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
			return err
		})
	}
	require.NoError(t, checkout())
	require.ErrorIs(t, checkout(), apperrors.ErrEmptyCart)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 1, count, "the cart snapshot must be spent exactly once")
}

func TestCreateFromCart_ConcurrentCheckoutsSpendTheCartOnce(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", Price: 250, Quantity: 1})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.Transaction(func(tx *gorm.DB) error {
				_, err := CreateFromCart(tx, "user-1", testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
				return err
			})
		}()
	}
	wg.Wait()
	close(results)

	var placed, empty int
	for err := range results {
		switch {
		case err == nil:
			placed++
		case errors.Is(err, apperrors.ErrEmptyCart):
			empty++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	assert.Equal(t, 1, placed, "exactly one checkout wins the cart")
	assert.Equal(t, 1, empty, "the loser observes an empty cart")

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders)
}

func TestCreateFromCart_RecordsCorrelation(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", Price: 250, Quantity: 1})

	corr := Correlation{
		MerchantID:          "MERCHANT1",
		TransactionID:       "MT-abc",
		ProviderReferenceID: "PR-1",
		ProviderID:          "PROV-1",
		ResponseCode:        "SUCCESS",
	}
	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = CreateFromCart(tx, "user-1", testForm(), models.PaymentMethodOnline, models.PaymentStatusPaid, corr)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "MT-abc", order.TransactionID)
	assert.Equal(t, "PR-1", order.ProviderReferenceID)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestNewOrderNumber_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewOrderNumber()
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func orderRouter(db *gorm.DB, publisher notify.OrderPublisher) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) { c.Set(middleware.UserIDKey, "user-1") }
	r.POST("/order/create", auth, CreateOrder(db, publisher))
	r.GET("/order", auth, GetUserOrders(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder_CashOnDelivery(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", ProductName: "Trail Shoes", Price: 500, Quantity: 2})

	pub := &recordingPublisher{}
	w := postJSON(t, orderRouter(db, pub), "/order/create", testForm())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		OrderID     uint   `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.OrderID)
	assert.Contains(t, resp.OrderNumber, "ORD-")

	require.Len(t, pub.events, 1)
	assert.Equal(t, resp.OrderNumber, pub.events[0].OrderNumber)
	assert.Equal(t, 1000.0, pub.events[0].Total)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	pub := &recordingPublisher{}

	w := postJSON(t, orderRouter(db, pub), "/order/create", testForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pub.events)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrder_InvalidForm(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", Price: 500, Quantity: 1})

	form := testForm()
	form.Email = "not-an-email"
	w := postJSON(t, orderRouter(db, &recordingPublisher{}), "/order/create", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected input must not consume the cart.
	var items int64
	db.Model(&models.CartItem{}).Count(&items)
	assert.EqualValues(t, 1, items)
}

func TestGetUserOrders_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db, "user-1", models.CartItem{ProductID: "P1", Price: 500, Quantity: 1})
	seedCart(t, db, "user-2", models.CartItem{ProductID: "P2", Price: 300, Quantity: 1})
	for _, userID := range []string{"user-1", "user-2"} {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			_, err := CreateFromCart(tx, userID, testForm(), models.PaymentMethodCOD, models.PaymentStatusPending, Correlation{})
			return err
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/order", nil)
	w := httptest.NewRecorder()
	orderRouter(db, nil).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "user-1", orders[0].UserID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "P1", orders[0].Items[0].ProductID)
}
