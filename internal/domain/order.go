package domain

import "time"

// OrderItem is a denormalized snapshot of a purchased line. Snapshots
// keep historical pricing and descriptions independent of later catalog
// edits.
type OrderItem struct {
	Title          string `json:"title"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Description    string `json:"description,omitempty"`
	Image          string `json:"image,omitempty"`
}

// Order is the durable record created by the payment webhook. An order
// always carries the provider checkout session id and is immutable once
// inserted. Cash-on-delivery orders have no row: the operator
// notification email is the only record for that path.
type Order struct {
	ID                   string                `json:"id"`
	UserID               *string               `json:"userId,omitempty"`
	CustomerEmail        string                `json:"customerEmail,omitempty"`
	CustomerName         string                `json:"customerName,omitempty"`
	AmountCents          int64                 `json:"amountCents"`
	Currency             string                `json:"currency"`
	PaymentStatus        string                `json:"paymentStatus"`
	DeliveryMethod       DeliveryMethod        `json:"deliveryMethod"`
	ShippingAddress      *ShippingAddress      `json:"shippingAddress,omitempty"`
	PersonalDeliveryInfo *PersonalDeliveryInfo `json:"personalDeliveryInfo,omitempty"`
	Items                []OrderItem           `json:"items"`
	CheckoutSessionID    string                `json:"checkoutSessionId"`
	CreatedAt            time.Time             `json:"createdAt"`
}
