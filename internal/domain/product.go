package domain

import (
	"math"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnitAmountCents converts the display price into integer minor units.
// Rounding happens per item, never on the aggregate, so the total shown
// to the customer always equals the sum of line amounts sent to the
// payment provider.
func (p Product) UnitAmountCents() int64 {
	return MinorUnits(p.Price)
}

// MinorUnits rounds a decimal price to the nearest cent.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
