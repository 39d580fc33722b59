package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
)

type cartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalCents int64             `json:"totalCents"`
	Currency   string            `json:"currency,omitempty"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalCents: cart.TotalCents(),
		Currency:   cart.Currency(),
	}
}

func getCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		c.JSON(http.StatusOK, toCartResponse(&sess.Cart))
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func addCartItemHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
			return
		}
		product, err := products.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
			return
		}
		sess := currentSession(c)
		sess.Cart.AddItem(*product)
		c.JSON(http.StatusOK, toCartResponse(&sess.Cart))
	}
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func updateCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		sess := currentSession(c)
		sess.Cart.UpdateQuantity(c.Param("productID"), *req.Quantity)
		c.JSON(http.StatusOK, toCartResponse(&sess.Cart))
	}
}

func removeCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		sess.Cart.RemoveItem(c.Param("productID"))
		c.JSON(http.StatusOK, toCartResponse(&sess.Cart))
	}
}

func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		sess.Cart.Clear()
		c.JSON(http.StatusOK, toCartResponse(&sess.Cart))
	}
}
