package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-backend/internal/domain"
)

// Metadata keys carried on the provider session. They are the only
// channel connecting the webhook event back to delivery semantics.
const (
	metaDeliveryMethod = "delivery_method"
	metaShippingAddr   = "shipping_address"
	metaPersonalInfo   = "personal_delivery_info"
)

// Session identifies a hosted checkout session the browser is
// redirected to.
type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CreateSessionInput carries everything needed to build a hosted
// checkout session. Totals are recomputed server-side from the items;
// client-supplied totals are display-only.
type CreateSessionInput struct {
	Items                []domain.CartItem
	DeliveryMethod       domain.DeliveryMethod
	Address              *domain.ShippingAddress
	PersonalDeliveryInfo *domain.PersonalDeliveryInfo
	CustomerID           string
	CustomerEmail        string
}

// Client is a thin REST client for the provider's hosted checkout API.
type Client struct {
	baseURL    string
	secretKey  string
	origin     string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(baseURL, secretKey, origin string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		origin:     strings.TrimRight(origin, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// CreateSession builds one line item per cart item with integer
// minor-unit pricing (rounded per item, matching the displayed total)
// and success/cancel URLs bound to the storefront origin. Delivery
// details travel as JSON-serialized session metadata for the webhook
// to recover later.
func (c *Client) CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("create session: no items")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.origin+"/checkout/success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.origin+"/checkout")
	if in.CustomerEmail != "" {
		form.Set("customer_email", in.CustomerEmail)
	}
	if in.CustomerID != "" {
		form.Set("client_reference_id", in.CustomerID)
	}

	form.Set("metadata["+metaDeliveryMethod+"]", string(in.DeliveryMethod))
	if in.Address != nil {
		raw, err := json.Marshal(in.Address)
		if err != nil {
			return nil, fmt.Errorf("encode shipping address: %w", err)
		}
		form.Set("metadata["+metaShippingAddr+"]", string(raw))
	}
	if in.PersonalDeliveryInfo != nil {
		raw, err := json.Marshal(in.PersonalDeliveryInfo)
		if err != nil {
			return nil, fmt.Errorf("encode personal delivery info: %w", err)
		}
		form.Set("metadata["+metaPersonalInfo+"]", string(raw))
	}

	for i, item := range in.Items {
		prefix := "line_items[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(item.Product.Currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.Product.UnitAmountCents(), 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Product.Name)
		if item.Product.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Product.Description)
		}
		if len(item.Product.Images) > 0 {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Product.Images[0])
		}
	}

	var resp sessionObject
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", strings.NewReader(form.Encode()), &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, fmt.Errorf("create session: provider returned incomplete session")
	}
	c.logger.Printf("payment: created session id=%s", resp.ID)
	return &Session{ID: resp.ID, URL: resp.URL}, nil
}

// fetchSession re-fetches the full session with its purchased line
// items expanded. The webhook path always re-fetches instead of
// trusting the event payload's embedded items.
func (c *Client) fetchSession(ctx context.Context, id string) (*sessionObject, error) {
	if id == "" {
		return nil, fmt.Errorf("get session: empty id")
	}
	path := "/v1/checkout/sessions/" + url.PathEscape(id) + "?expand[]=line_items&expand[]=line_items.data.price.product"
	var resp sessionObject
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("get session: provider returned incomplete session")
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payment api: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("payment api: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("payment api: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payment api: decode response: %w", err)
	}
	return nil
}
