package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"
)

type checkoutStateResponse struct {
	Stage          checkout.Stage               `json:"stage"`
	DeliveryMethod domain.DeliveryMethod        `json:"deliveryMethod"`
	PaymentMethod  domain.PaymentMethod         `json:"paymentMethod"`
	Address        *domain.ShippingAddress      `json:"address,omitempty"`
	PersonalInfo   *domain.PersonalDeliveryInfo `json:"personalDeliveryInfo,omitempty"`
	Processing     bool                         `json:"processing"`
}

func toCheckoutResponse(state *checkout.State) checkoutStateResponse {
	return checkoutStateResponse{
		Stage:          state.Stage(),
		DeliveryMethod: state.DeliveryMethod,
		PaymentMethod:  state.PaymentMethod,
		Address:        state.Address,
		PersonalInfo:   state.PersonalInfo,
		Processing:     state.Processing(),
	}
}

// checkoutError maps the state machine's error taxonomy onto status
// codes: rejected fields are 400, transition and duplicate-submission
// violations are 409, everything else is 500.
func checkoutError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid checkout transition"})
	case errors.Is(err, checkout.ErrAlreadyProcessing):
		c.JSON(http.StatusConflict, gin.H{"error": "checkout is already processing"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
	}
}

func beginCheckoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if err := sess.Checkout.Begin(&sess.Cart); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

func getCheckoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

type deliveryRequest struct {
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod" binding:"required"`
}

func selectDeliveryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deliveryMethod is required"})
			return
		}
		sess := currentSession(c)
		if err := sess.Checkout.SelectDelivery(req.DeliveryMethod); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

type paymentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required"`
}

func selectPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod is required"})
			return
		}
		sess := currentSession(c)
		if err := sess.Checkout.SelectPayment(req.PaymentMethod); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

func submitAddressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.ShippingAddress
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		sess := currentSession(c)
		if err := sess.Checkout.SubmitAddress(req); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

func submitPersonalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.PersonalDeliveryInfo
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		sess := currentSession(c)
		if err := sess.Checkout.SubmitPersonalInfo(req); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

func checkoutBackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if err := sess.Checkout.Back(); err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(&sess.Checkout))
	}
}

// processCheckoutHandler submits the checkout. The hosted path answers
// with the provider redirect and leaves cart and state untouched; the
// cash-on-delivery path completes synchronously.
func processCheckoutHandler(machine checkoutProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		result, err := machine.Process(c.Request.Context(), &sess.Checkout, &sess.Cart, currentCustomer(c))
		if err != nil {
			checkoutError(c, err)
			return
		}
		if result.Redirect != nil {
			c.JSON(http.StatusOK, gin.H{
				"sessionId": result.Redirect.ID,
				"url":       result.Redirect.URL,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": true})
	}
}
