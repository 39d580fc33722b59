package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/payment"
)

// maxWebhookBody bounds provider event payloads.
const maxWebhookBody = 1 << 20

type createSessionRequest struct {
	Items                []domain.CartItem            `json:"items" binding:"required"`
	DeliveryMethod       domain.DeliveryMethod        `json:"deliveryMethod" binding:"required"`
	Address              *domain.ShippingAddress      `json:"address"`
	PersonalDeliveryInfo *domain.PersonalDeliveryInfo `json:"personalDeliveryInfo"`
	CustomerID           string                       `json:"customerId"`
	CustomerEmail        string                       `json:"customerEmail"`
}

// createSessionHandler exposes the provider bridge directly: it accepts
// the cart snapshot plus delivery details and answers with the hosted
// session id and redirect URL. Totals are recomputed server-side from
// the items.
func createSessionHandler(bridge paymentBridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items and deliveryMethod are required"})
			return
		}
		sess, err := bridge.CreateSession(c.Request.Context(), payment.CreateSessionInput{
			Items:                req.Items,
			DeliveryMethod:       req.DeliveryMethod,
			Address:              req.Address,
			PersonalDeliveryInfo: req.PersonalDeliveryInfo,
			CustomerID:           req.CustomerID,
			CustomerEmail:        req.CustomerEmail,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create checkout session"})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// webhookHandler receives provider-signed events. Signature and parse
// failures answer 400 so the provider stops redelivering; any other
// failure answers 500 and relies on provider redelivery as the retry.
func webhookHandler(hook webhookProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}

		err = hook.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"received": true})
		case errors.Is(err, payment.ErrMissingSignature),
			errors.Is(err, payment.ErrInvalidSignature),
			errors.Is(err, payment.ErrMalformedEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		}
	}
}
