package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/notify"
)

type orderNotificationRequest struct {
	Customer      string            `json:"customer" binding:"required"`
	PhoneNumber   string            `json:"phoneNumber" binding:"required"`
	District      string            `json:"district" binding:"required"`
	CityOrTown    string            `json:"cityOrTown"`
	PreferredTime string            `json:"preferredTime" binding:"required"`
	Email         string            `json:"email"`
	Items         []domain.CartItem `json:"items" binding:"required"`
}

// orderNotificationHandler dispatches the operator email for a
// pay-on-delivery order. The checkout path treats this as best-effort;
// the error envelope here exists for observability, not for retries.
func orderNotificationHandler(svc orderNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification payload"})
			return
		}

		cart := domain.Cart{Items: req.Items}
		err := svc.SendOrderNotification(c.Request.Context(), notify.OrderNotification{
			Customer: domain.PersonalDeliveryInfo{
				FullName:      req.Customer,
				PhoneNumber:   req.PhoneNumber,
				District:      req.District,
				CityOrTown:    req.CityOrTown,
				PreferredTime: req.PreferredTime,
				Email:         req.Email,
			},
			Items:      req.Items,
			TotalCents: cart.TotalCents(),
			Currency:   cart.Currency(),
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"sent": false, "error": "notification dispatch failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true})
	}
}
