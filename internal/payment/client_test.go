package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []domain.CartItem {
	return []domain.CartItem{
		{
			Product: domain.Product{
				ID:          "p1",
				Name:        "Oak Table",
				Description: "Solid oak",
				Price:       199.99,
				Currency:    "USD",
				Images:      []string{"https://img.example/oak.jpg"},
			},
			Quantity: 1,
		},
	}
}

func TestCreateSessionBuildsProviderRequest(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"cs_test_1","url":"https://pay.example/cs_test_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "https://shop.example", nil)
	sess, err := client.CreateSession(context.Background(), CreateSessionInput{
		Items:          testItems(),
		DeliveryMethod: domain.DeliveryShipping,
		Address:        &domain.ShippingAddress{Street: "1 Main St", City: "X", State: "Y", Zip: "00000", Country: "US"},
		CustomerID:     "cust-1",
		CustomerEmail:  "user@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://pay.example/cs_test_1", sess.URL)

	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"][0])
	assert.Equal(t, "https://shop.example/checkout/success?session_id={CHECKOUT_SESSION_ID}", gotForm["success_url"][0])
	assert.Equal(t, "https://shop.example/checkout", gotForm["cancel_url"][0])
	assert.Equal(t, "user@example.com", gotForm["customer_email"][0])
	assert.Equal(t, "cust-1", gotForm["client_reference_id"][0])

	// Per-item minor-unit pricing: 199.99 becomes 19999, currency
	// lowercased.
	assert.Equal(t, "1", gotForm["line_items[0][quantity]"][0])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "19999", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "Oak Table", gotForm["line_items[0][price_data][product_data][name]"][0])
	assert.Equal(t, "https://img.example/oak.jpg", gotForm["line_items[0][price_data][product_data][images][0]"][0])

	assert.Equal(t, "shipping", gotForm["metadata[delivery_method]"][0])
	assert.JSONEq(t, `{"street":"1 Main St","city":"X","state":"Y","zip":"00000","country":"US"}`, gotForm["metadata[shipping_address]"][0])
	assert.Empty(t, gotForm["metadata[personal_delivery_info]"])
}

func TestCreateSessionPerItemRounding(t *testing.T) {
	var unitAmount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		unitAmount = r.PostForm.Get("line_items[0][price_data][unit_amount]")
		w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1"}`))
	}))
	defer srv.Close()

	items := []domain.CartItem{{
		Product:  domain.Product{ID: "p1", Name: "Widget", Price: 10.005, Currency: "USD"},
		Quantity: 2,
	}}
	client := NewClient(srv.URL, "sk_test", "https://shop.example", nil)
	_, err := client.CreateSession(context.Background(), CreateSessionInput{Items: items, DeliveryMethod: domain.DeliveryShipping})
	require.NoError(t, err)

	// Same rounding as the displayed total: round(10.005*100) = 1001.
	assert.Equal(t, "1001", unitAmount)
	assert.Equal(t, int64(2002), (&domain.Cart{Items: items}).TotalCents())
}

func TestCreateSessionRejectsEmptyItems(t *testing.T) {
	client := NewClient("http://unused.example", "sk_test", "https://shop.example", nil)
	_, err := client.CreateSession(context.Background(), CreateSessionInput{})
	require.Error(t, err)
}

func TestCreateSessionSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","message":"insufficient funds"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "https://shop.example", nil)
	_, err := client.CreateSession(context.Background(), CreateSessionInput{Items: testItems(), DeliveryMethod: domain.DeliveryShipping})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestCreateSessionRejectsIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "https://shop.example", nil)
	_, err := client.CreateSession(context.Background(), CreateSessionInput{Items: testItems(), DeliveryMethod: domain.DeliveryShipping})
	require.Error(t, err)
}

func TestFetchSessionExpandsLineItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_9", r.URL.Path)
		assert.ElementsMatch(t, []string{"line_items", "line_items.data.price.product"}, r.URL.Query()["expand[]"])
		w.Write([]byte(`{
			"id": "cs_9",
			"amount_total": 19999,
			"currency": "usd",
			"payment_status": "paid",
			"metadata": {"delivery_method": "shipping"},
			"line_items": {"data": [{"description": "Oak Table", "quantity": 1, "amount_total": 19999, "price": {"unit_amount": 19999, "currency": "usd"}}]}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "https://shop.example", nil)
	sess, err := client.fetchSession(context.Background(), "cs_9")
	require.NoError(t, err)
	assert.Equal(t, "cs_9", sess.ID)
	assert.Equal(t, int64(19999), sess.AmountTotal)
	require.NotNil(t, sess.LineItems)
	require.Len(t, sess.LineItems.Data, 1)
	assert.Equal(t, 1, sess.LineItems.Data[0].Quantity)
}
