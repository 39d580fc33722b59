package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
)

// orderBySessionHandler backs the success page: the browser returns
// from the provider with a session_id query parameter and polls here
// until the webhook has recorded the order. Not-found is an expected
// interim answer, not a failure.
func orderBySessionHandler(orders orderGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}
		order, err := orders.GetBySessionID(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found yet"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
