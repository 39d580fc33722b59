package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"storefront-backend/internal/domain"
)

// ErrMalformedEvent marks a payload that verified but cannot be
// parsed. Like signature failures it is terminal: redelivering the
// same bytes cannot succeed.
var ErrMalformedEvent = errors.New("malformed webhook event")

type sessionFetcher interface {
	fetchSession(ctx context.Context, id string) (*sessionObject, error)
}

type orderCreator interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

// Webhook turns provider checkout events into durable orders. It runs
// out-of-band from the browser flow; the session id and metadata are
// the only coordination between the two.
type Webhook struct {
	fetcher sessionFetcher
	orders  orderCreator
	secret  string
	logger  *log.Logger
	now     func() time.Time
}

func NewWebhook(client *Client, orders orderCreator, secret string, logger *log.Logger) *Webhook {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Webhook{
		fetcher: client,
		orders:  orders,
		secret:  secret,
		logger:  logger,
		now:     time.Now,
	}
}

// Process verifies and handles one webhook delivery. Signature and
// parse failures return terminal errors (the caller answers 4xx, the
// provider stops); any other failure is retryable (5xx, the provider
// redelivers). Duplicate deliveries of a completed session are
// acknowledged without inserting a second order.
func (w *Webhook) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := verifySignature(payload, signatureHeader, w.secret, w.now()); err != nil {
		return err
	}

	var ev event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch ev.Type {
	case "checkout.session.completed":
		return w.handleCompleted(ctx, ev)
	case "checkout.session.expired":
		w.logger.Printf("webhook: session expired event id=%s", ev.ID)
		return nil
	default:
		w.logger.Printf("webhook: ignoring event type=%s id=%s", ev.Type, ev.ID)
		return nil
	}
}

func (w *Webhook) handleCompleted(ctx context.Context, ev event) error {
	var embedded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(ev.Data.Object, &embedded); err != nil || embedded.ID == "" {
		return fmt.Errorf("%w: completed event without session id", ErrMalformedEvent)
	}

	// The embedded object omits line items; always re-fetch the full
	// session instead of trusting the event payload.
	sess, err := w.fetcher.fetchSession(ctx, embedded.ID)
	if err != nil {
		return fmt.Errorf("fetch session %s: %w", embedded.ID, err)
	}

	order, err := orderFromSession(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	created, err := w.orders.Create(ctx, *order)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			w.logger.Printf("webhook: duplicate delivery for session=%s, order already recorded", sess.ID)
			return nil
		}
		return fmt.Errorf("insert order for session %s: %w", sess.ID, err)
	}
	w.logger.Printf("webhook: recorded order id=%s session=%s amount_cents=%d", created.ID, sess.ID, created.AmountCents)
	return nil
}

func orderFromSession(sess *sessionObject) (*domain.Order, error) {
	method, addr, info, err := deliveryFromMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}
	if sess.LineItems == nil || len(sess.LineItems.Data) == 0 {
		return nil, fmt.Errorf("session %s has no line items", sess.ID)
	}

	items := make([]domain.OrderItem, 0, len(sess.LineItems.Data))
	for _, li := range sess.LineItems.Data {
		item := domain.OrderItem{
			Title:    li.Description,
			Quantity: li.Quantity,
		}
		if li.Price != nil {
			item.UnitPriceCents = li.Price.UnitAmount
			if li.Price.Product != nil {
				if li.Price.Product.Name != "" {
					item.Title = li.Price.Product.Name
				}
				item.Description = li.Price.Product.Description
				if len(li.Price.Product.Images) > 0 {
					item.Image = li.Price.Product.Images[0]
				}
			}
		}
		items = append(items, item)
	}

	email := sess.CustomerEmail
	name := ""
	if sess.CustomerDetails != nil {
		if sess.CustomerDetails.Email != "" {
			email = sess.CustomerDetails.Email
		}
		name = sess.CustomerDetails.Name
	}

	var userID *string
	if sess.ClientReferenceID != "" {
		id := sess.ClientReferenceID
		userID = &id
	}

	return &domain.Order{
		UserID:               userID,
		CustomerEmail:        email,
		CustomerName:         name,
		AmountCents:          sess.AmountTotal,
		Currency:             sess.Currency,
		PaymentStatus:        sess.PaymentStatus,
		DeliveryMethod:       method,
		ShippingAddress:      addr,
		PersonalDeliveryInfo: info,
		Items:                items,
		CheckoutSessionID:    sess.ID,
	}, nil
}
