package cartControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/apperrors"
	"github.com/palrajin0126/ecom/middleware"
	"github.com/palrajin0126/ecom/models"
)

// ProductCatalog is the slice of the catalog the cart needs: current
// product data captured as the line-item snapshot at add time.
type ProductCatalog interface {
	FetchProduct(ctx context.Context, id string) (*models.Product, error)
}

type AddItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type UpdateItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type RemoveItemInput struct {
	ProductID string `json:"productId" binding:"required"`
}

// GET /cart
//
// Never fails for a user without a cart; they get an empty one.
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var cart models.Cart
		err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, models.Cart{UserID: userID, Items: []models.CartItem{}})
			return
		}
		if err != nil {
			apperrors.Respond(c, apperrors.Storage(err))
			return
		}
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart
//
// Adds a product to the cart, snapshotting its current name, price and
// images. Adding a product that is already present increments the line's
// quantity; PUT /cart is the overwrite path.
func AddItem(db *gorm.DB, catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity < 1 {
			input.Quantity = 1
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := catalog.FetchProduct(ctx, input.ProductID)
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		cart, err := mutate(db, userID, true, func(tx *gorm.DB, cart *models.Cart) error {
			var item models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&models.CartItem{
					CartID:      cart.CartID,
					ProductID:   input.ProductID,
					ProductName: product.ProductName,
					Price:       product.Price,
					Images:      product.Images,
					Size:        input.Size,
					Color:       input.Color,
					Quantity:    input.Quantity,
					AddedAt:     time.Now(),
				}).Error
			}
			if err != nil {
				return err
			}

			item.Quantity += input.Quantity
			item.AddedAt = time.Now()
			return tx.Save(&item).Error
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, cart)
	}
}

// PUT /cart
//
// Replaces the quantity on a line. A quantity below one is a no-op; the
// current cart comes back unchanged.
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := mutate(db, userID, false, func(tx *gorm.DB, cart *models.Cart) error {
			if input.Quantity < 1 {
				return nil
			}
			var item models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			item.Quantity = input.Quantity
			return tx.Save(&item).Error
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart
//
// Removes a line. Removing a product that is not in the cart is a no-op,
// not an error.
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input RemoveItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := mutate(db, userID, false, func(tx *gorm.DB, cart *models.Cart) error {
			return tx.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).
				Delete(&models.CartItem{}).Error
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// mutate runs fn against the user's cart inside one transaction and
// recomputes the total from the rows that survive the mutation. The stored
// total is never taken from the client. Only adding creates the cart row;
// an update or remove for a user without one is a no-op against an empty
// cart, no row gets written.
func mutate(db *gorm.DB, userID string, create bool, fn func(tx *gorm.DB, cart *models.Cart) error) (*models.Cart, error) {
	var cart models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		if create {
			if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
				return err
			}
		} else {
			err := tx.Where("user_id = ?", userID).First(&cart).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cart = models.Cart{UserID: userID}
				return nil
			}
			if err != nil {
				return err
			}
		}
		if err := fn(tx, &cart); err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Order("id").Find(&cart.Items).Error; err != nil {
			return err
		}
		cart.Recompute()
		return tx.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Update("total_cart_value", cart.TotalCartValue).Error
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}
