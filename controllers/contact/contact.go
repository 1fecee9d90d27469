package contactControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/notify"
)

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Option  string `json:"option"`
	Message string `json:"message" binding:"required"`
}

// POST /contact
func SendContactMessage(mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}

		if err := mailer.SendContactMessage(input.Name, input.Email, input.Phone, input.Option, input.Message); err != nil {
			logger.Log.Error("failed to send contact mail", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully!"})
	}
}
