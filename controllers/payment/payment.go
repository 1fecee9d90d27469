package paymentControllers

import (
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/apperrors"
	orderControllers "github.com/palrajin0126/ecom/controllers/order"
	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/middleware"
	"github.com/palrajin0126/ecom/models"
	"github.com/palrajin0126/ecom/notify"
	"github.com/palrajin0126/ecom/payment"
)

// POST /payment/initiate
//
// Registers a pay-page session with the gateway and hands the redirect URL
// back to the client. The cart and orders are untouched, so a failed
// initiation is fully retryable. The attempt row is what lets the
// asynchronous callback find the shipping details later.
func InitiatePayment(db *gorm.DB, gw *payment.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var form orderControllers.ShippingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var cart models.Cart
		err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
			apperrors.Respond(c, apperrors.ErrEmptyCart)
			return
		}
		if err != nil {
			apperrors.Respond(c, apperrors.Storage(err))
			return
		}

		cart.Recompute()
		amount := int64(math.Round(cart.TotalCartValue * 100)) // paise

		attempt := models.PaymentAttempt{
			MerchantTransactionID: payment.NewMerchantTransactionID(),
			UserID:                userID,
			CustomerName:          form.CustomerName,
			Apartment:             form.Apartment,
			Block:                 form.Block,
			Locality:              form.Locality,
			City:                  form.City,
			State:                 form.State,
			Pincode:               form.Pincode,
			Email:                 form.Email,
			Mobile:                form.Mobile,
			Amount:                amount,
			Status:                models.PaymentStatusPending,
		}
		if err := db.Create(&attempt).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage(err))
			return
		}

		redirectURL, err := gw.CreatePayment(c.Request.Context(), attempt.MerchantTransactionID, userID, form.Mobile, amount)
		if err != nil {
			markAttemptFailed(db, &attempt)
			middleware.RecordCheckoutOperation("payment_initiate", false)
			logger.Log.Error("payment initiation failed",
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID), zap.Error(err))
			apperrors.Respond(c, err)
			return
		}

		middleware.RecordCheckoutOperation("payment_initiate", true)
		c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL})
	}
}

// POST /payment/callback
//
// The gateway's asynchronous notification. The X-Verify header is checked
// against the raw body before anything else; a mismatch is rejected with
// 400 and no state change. A verified success must also carry the amount
// the initiation registered, and the cart must still total that amount
// when the order is created; either mismatch rejects the callback without
// marking anything paid. Application is idempotent: the transaction id is
// unique on orders, so a redelivered notification finds the existing order
// and acknowledges without re-applying.
func PaymentCallback(db *gorm.DB, gw *payment.Client, publisher notify.OrderPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		if !gw.VerifyCallback(body, c.GetHeader("X-Verify")) {
			logger.Log.Warn("payment callback rejected: checksum mismatch",
				zap.String("client_ip", c.ClientIP()))
			middleware.RecordCheckoutOperation("payment_callback", false)
			apperrors.Respond(c, apperrors.ErrInvalidSignature)
			return
		}

		payload, err := payment.ParseCallback(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed callback payload"})
			return
		}

		var attempt models.PaymentAttempt
		err = db.Where("merchant_transaction_id = ?", payload.Data.MerchantTransactionID).First(&attempt).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown transaction"})
			return
		}
		if err != nil {
			apperrors.Respond(c, apperrors.Storage(err))
			return
		}

		if !payload.Paid() {
			markAttemptFailed(db, &attempt)
			logger.Log.Info("payment failed at gateway",
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID),
				zap.String("code", payload.Code))
			c.JSON(http.StatusOK, gin.H{"message": "payment not successful"})
			return
		}

		if payload.Data.Amount != attempt.Amount {
			markAttemptFailed(db, &attempt)
			middleware.RecordCheckoutOperation("payment_callback", false)
			logger.Log.Warn("payment callback rejected: amount mismatch",
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID),
				zap.Int64("initiated_amount", attempt.Amount),
				zap.Int64("callback_amount", payload.Data.Amount))
			apperrors.Respond(c, apperrors.ErrAmountMismatch)
			return
		}

		var order *models.Order
		created := true
		err = db.Transaction(func(tx *gorm.DB) error {
			var existing models.Order
			err := tx.Where("transaction_id = ?", attempt.MerchantTransactionID).First(&existing).Error
			if err == nil {
				order, created = &existing, false
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Storage(err)
			}

			order, err = orderControllers.CreateFromCart(tx, attempt.UserID, shippingFromAttempt(attempt),
				models.PaymentMethodOnline, models.PaymentStatusPaid, orderControllers.Correlation{
					MerchantID:          payload.Data.MerchantID,
					TransactionID:       attempt.MerchantTransactionID,
					ProviderReferenceID: payload.Data.TransactionID,
					ProviderID:          payload.Data.PaymentInstrument.PgTransactionID,
					ResponseCode:        payload.Data.ResponseCode,
				})
			if err != nil {
				return err
			}

			// The user can keep mutating the cart while on the pay page; only
			// a cart still totalling the collected amount becomes a paid order.
			if int64(math.Round(order.OrderTotal*100)) != attempt.Amount {
				return apperrors.ErrAmountMismatch
			}

			return tx.Model(&models.PaymentAttempt{}).
				Where("merchant_transaction_id = ?", attempt.MerchantTransactionID).
				Update("status", models.PaymentStatusPaid).Error
		})
		if errors.Is(err, apperrors.ErrEmptyCart) {
			// The cart was consumed between deliveries; nothing left to apply.
			logger.Log.Warn("payment callback for already-consumed cart",
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID))
			c.JSON(http.StatusOK, gin.H{"message": "callback received"})
			return
		}
		if errors.Is(err, apperrors.ErrAmountMismatch) {
			markAttemptFailed(db, &attempt)
			middleware.RecordCheckoutOperation("payment_callback", false)
			logger.Log.Warn("payment callback rejected: cart total changed after initiation",
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID),
				zap.Int64("initiated_amount", attempt.Amount))
			apperrors.Respond(c, err)
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		middleware.RecordCheckoutOperation("payment_callback", true)
		if created {
			orderControllers.Confirm(c, publisher, order)
			logger.Log.Info("order created from payment callback",
				zap.String("order_number", order.OrderNumber),
				zap.String("merchant_transaction_id", attempt.MerchantTransactionID))
		}
		c.JSON(http.StatusOK, gin.H{"message": "callback received and verified", "orderNumber": order.OrderNumber})
	}
}

func markAttemptFailed(db *gorm.DB, attempt *models.PaymentAttempt) {
	if err := db.Model(attempt).Update("status", models.PaymentStatusFailed).Error; err != nil {
		logger.Log.Error("failed to record payment attempt status",
			zap.String("merchant_transaction_id", attempt.MerchantTransactionID), zap.Error(err))
	}
}

func shippingFromAttempt(a models.PaymentAttempt) orderControllers.ShippingForm {
	return orderControllers.ShippingForm{
		CustomerName: a.CustomerName,
		Apartment:    a.Apartment,
		Block:        a.Block,
		Locality:     a.Locality,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Email:        a.Email,
		Mobile:       a.Mobile,
	}
}
