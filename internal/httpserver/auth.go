package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	customersvc "storefront-backend/internal/service/customer"
)

func signupHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cust, err := svc.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": cust})
	}
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signinHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		cust, token, err := svc.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": cust, "accessToken": token})
	}
}

func signoutHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(authHeader)
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing access token"})
			return
		}
		if err := svc.SignOut(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-out failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"signedOut": true})
	}
}
