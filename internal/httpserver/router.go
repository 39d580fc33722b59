package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/payment"
	"storefront-backend/internal/service/customer"
	"storefront-backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type customerService interface {
	Signup(ctx context.Context, in customer.SignupInput) (*domain.Customer, error)
	SignIn(ctx context.Context, email, password string) (*domain.Customer, string, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Customer, error)
}

type checkoutProcessor interface {
	Process(ctx context.Context, state *checkout.State, cart *domain.Cart, cust *domain.Customer) (*checkout.Result, error)
}

type paymentBridge interface {
	CreateSession(ctx context.Context, in payment.CreateSessionInput) (*payment.Session, error)
}

type webhookProcessor interface {
	Process(ctx context.Context, payload []byte, signatureHeader string) error
}

type orderGetter interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}

type orderNotifier interface {
	SendOrderNotification(ctx context.Context, n notify.OrderNotification) error
}

// Deps carries everything the router needs. Services are injected as
// narrow interfaces so handler tests can stub them.
type Deps struct {
	ProductSvc  productService
	CustomerSvc customerService
	Sessions    *session.Store
	Checkout    checkoutProcessor
	PaymentSvc  paymentBridge
	Webhook     webhookProcessor
	OrderRepo   orderGetter
	NotifySvc   orderNotifier

	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("httpserver: session store is required")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", sessionHeader, authHeader},
			ExposeHeaders:    []string{sessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:productID", getProductHandler(deps.ProductSvc))

	auth := router.Group("/auth")
	{
		auth.POST("/signup", signupHandler(deps.CustomerSvc))
		auth.POST("/signin", signinHandler(deps.CustomerSvc))
		auth.POST("/signout", signoutHandler(deps.CustomerSvc))
	}

	// Everything below operates on a browsing session identified by
	// the X-Session-Token header. Auth is optional: a valid access
	// token attaches the customer so hosted checkout sessions carry
	// their id and email.
	withSession := router.Group("/", sessionMiddleware(deps.Sessions), optionalAuthMiddleware(deps.CustomerSvc))
	{
		withSession.GET("/cart", getCartHandler())
		withSession.POST("/cart/items", addCartItemHandler(deps.ProductSvc))
		withSession.PATCH("/cart/items/:productID", updateCartItemHandler())
		withSession.DELETE("/cart/items/:productID", removeCartItemHandler())
		withSession.DELETE("/cart", clearCartHandler())

		withSession.POST("/checkout", beginCheckoutHandler())
		withSession.GET("/checkout", getCheckoutHandler())
		withSession.POST("/checkout/delivery", selectDeliveryHandler())
		withSession.POST("/checkout/payment", selectPaymentHandler())
		withSession.POST("/checkout/address", submitAddressHandler())
		withSession.POST("/checkout/personal", submitPersonalHandler())
		withSession.POST("/checkout/back", checkoutBackHandler())
		withSession.POST("/checkout/process", processCheckoutHandler(deps.Checkout))
	}

	router.POST("/payment/create-session", createSessionHandler(deps.PaymentSvc))
	router.POST("/webhooks/payment", webhookHandler(deps.Webhook))
	router.POST("/notifications/order", orderNotificationHandler(deps.NotifySvc))
	router.GET("/orders/by-session", orderBySessionHandler(deps.OrderRepo))

	return router, nil
}
