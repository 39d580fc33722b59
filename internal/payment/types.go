package payment

import (
	"encoding/json"
	"fmt"

	"storefront-backend/internal/domain"
)

// sessionObject is the subset of the provider's checkout session this
// service reads. Provider payloads are dynamic; everything consumed
// here goes through these typed structs rather than raw maps.
type sessionObject struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	AmountTotal       int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	PaymentStatus     string            `json:"payment_status"`
	CustomerEmail     string            `json:"customer_email"`
	ClientReferenceID string            `json:"client_reference_id"`
	CustomerDetails   *customerDetails  `json:"customer_details"`
	Metadata          map[string]string `json:"metadata"`
	LineItems         *lineItemList     `json:"line_items"`
}

type customerDetails struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type lineItemList struct {
	Data []lineItem `json:"data"`
}

type lineItem struct {
	Description string     `json:"description"`
	Quantity    int        `json:"quantity"`
	AmountTotal int64      `json:"amount_total"`
	Price       *itemPrice `json:"price"`
}

type itemPrice struct {
	UnitAmount int64          `json:"unit_amount"`
	Currency   string         `json:"currency"`
	Product    *productObject `json:"product"`
}

type productObject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// event is the envelope of a provider webhook delivery.
type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// deliveryFromMetadata recovers delivery semantics stored on the
// session at creation time.
func deliveryFromMetadata(meta map[string]string) (domain.DeliveryMethod, *domain.ShippingAddress, *domain.PersonalDeliveryInfo, error) {
	method := domain.DeliveryMethod(meta[metaDeliveryMethod])

	var addr *domain.ShippingAddress
	if raw := meta[metaShippingAddr]; raw != "" {
		addr = &domain.ShippingAddress{}
		if err := json.Unmarshal([]byte(raw), addr); err != nil {
			return "", nil, nil, fmt.Errorf("decode shipping address metadata: %w", err)
		}
	}

	var info *domain.PersonalDeliveryInfo
	if raw := meta[metaPersonalInfo]; raw != "" {
		info = &domain.PersonalDeliveryInfo{}
		if err := json.Unmarshal([]byte(raw), info); err != nil {
			return "", nil, nil, fmt.Errorf("decode personal delivery metadata: %w", err)
		}
	}

	return method, addr, info, nil
}
