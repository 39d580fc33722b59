package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(t *testing.T, payload []byte, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

type stubFetcher struct {
	session *sessionObject
	err     error
	calls   int
}

func (s *stubFetcher) fetchSession(_ context.Context, _ string) (*sessionObject, error) {
	s.calls++
	return s.session, s.err
}

type memOrders struct {
	bySession map[string]domain.Order
	err       error
	creates   int
}

func newMemOrders() *memOrders {
	return &memOrders{bySession: make(map[string]domain.Order)}
}

func (m *memOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	m.creates++
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.bySession[o.CheckoutSessionID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	o.ID = "order-" + strconv.Itoa(len(m.bySession)+1)
	m.bySession[o.CheckoutSessionID] = o
	return &o, nil
}

func completedSession() *sessionObject {
	return &sessionObject{
		ID:            "cs_done",
		AmountTotal:   19999,
		Currency:      "usd",
		PaymentStatus: "paid",
		CustomerDetails: &customerDetails{
			Email: "buyer@example.com",
			Name:  "Buyer",
		},
		Metadata: map[string]string{
			metaDeliveryMethod: "shipping",
			metaShippingAddr:   `{"street":"1 Main St","city":"X","state":"Y","zip":"00000","country":"US"}`,
		},
		LineItems: &lineItemList{Data: []lineItem{{
			Description: "Oak Table",
			Quantity:    1,
			AmountTotal: 19999,
			Price:       &itemPrice{UnitAmount: 19999, Currency: "usd"},
		}}},
	}
}

func newTestWebhook(fetcher *stubFetcher, orders *memOrders) *Webhook {
	w := NewWebhook(nil, orders, testSecret, nil)
	w.fetcher = fetcher
	return w
}

func completedPayload() []byte {
	return []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_done"}}}`)
}

func TestProcessRejectsMissingSignature(t *testing.T) {
	w := newTestWebhook(&stubFetcher{}, newMemOrders())
	err := w.Process(context.Background(), completedPayload(), "")
	require.ErrorIs(t, err, ErrMissingSignature)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	w := newTestWebhook(&stubFetcher{}, newMemOrders())
	err := w.Process(context.Background(), completedPayload(), "t=123,v1=deadbeef")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessRejectsStaleTimestamp(t *testing.T) {
	w := newTestWebhook(&stubFetcher{}, newMemOrders())
	payload := completedPayload()
	err := w.Process(context.Background(), payload, sign(t, payload, time.Now().Add(-time.Hour)))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessCompletedInsertsOrder(t *testing.T) {
	fetcher := &stubFetcher{session: completedSession()}
	orders := newMemOrders()
	w := newTestWebhook(fetcher, orders)

	payload := completedPayload()
	require.NoError(t, w.Process(context.Background(), payload, sign(t, payload, time.Now())))

	// Line items come from the re-fetched session, not the event body.
	assert.Equal(t, 1, fetcher.calls)

	order, ok := orders.bySession["cs_done"]
	require.True(t, ok)
	assert.Equal(t, int64(19999), order.AmountCents)
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, "paid", order.PaymentStatus)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Equal(t, "Buyer", order.CustomerName)
	assert.Equal(t, domain.DeliveryShipping, order.DeliveryMethod)
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "1 Main St", order.ShippingAddress.Street)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Oak Table", order.Items[0].Title)
	assert.Equal(t, int64(19999), order.Items[0].UnitPriceCents)
}

func TestProcessDuplicateDeliveryIsIdempotent(t *testing.T) {
	fetcher := &stubFetcher{session: completedSession()}
	orders := newMemOrders()
	w := newTestWebhook(fetcher, orders)

	payload := completedPayload()
	sig := sign(t, payload, time.Now())
	require.NoError(t, w.Process(context.Background(), payload, sig))
	require.NoError(t, w.Process(context.Background(), payload, sig))

	// Exactly one order row regardless of redelivery.
	assert.Len(t, orders.bySession, 1)
	assert.Equal(t, 2, orders.creates)
}

func TestProcessInsertFailureIsRetryable(t *testing.T) {
	fetcher := &stubFetcher{session: completedSession()}
	orders := newMemOrders()
	orders.err = errors.New("db down")
	w := newTestWebhook(fetcher, orders)

	payload := completedPayload()
	err := w.Process(context.Background(), payload, sign(t, payload, time.Now()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedEvent)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestProcessExpiredSessionIsLogOnly(t *testing.T) {
	fetcher := &stubFetcher{}
	orders := newMemOrders()
	w := newTestWebhook(fetcher, orders)

	payload := []byte(`{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"cs_gone"}}}`)
	require.NoError(t, w.Process(context.Background(), payload, sign(t, payload, time.Now())))
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, orders.creates)
}

func TestProcessMalformedEventIsTerminal(t *testing.T) {
	w := newTestWebhook(&stubFetcher{}, newMemOrders())
	payload := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{}}}`)
	err := w.Process(context.Background(), payload, sign(t, payload, time.Now()))
	require.ErrorIs(t, err, ErrMalformedEvent)
}

func TestProcessPersonalMetadataRoundTrip(t *testing.T) {
	sess := completedSession()
	sess.Metadata = map[string]string{
		metaDeliveryMethod: "personal",
		metaPersonalInfo:   `{"fullName":"A","phoneNumber":"+1555","district":"D","preferredTime":"any"}`,
	}
	fetcher := &stubFetcher{session: sess}
	orders := newMemOrders()
	w := newTestWebhook(fetcher, orders)

	payload := completedPayload()
	require.NoError(t, w.Process(context.Background(), payload, sign(t, payload, time.Now())))

	order := orders.bySession["cs_done"]
	assert.Equal(t, domain.DeliveryPersonal, order.DeliveryMethod)
	require.NotNil(t, order.PersonalDeliveryInfo)
	assert.Equal(t, "A", order.PersonalDeliveryInfo.FullName)
	assert.Nil(t, order.ShippingAddress)
}
