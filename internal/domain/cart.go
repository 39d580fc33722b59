package domain

// CartItem pairs a product snapshot with a quantity. Product ids are
// unique within a cart; quantity is always >= 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the in-memory aggregate backing a browsing session. It is not
// server-durable: it lives in the session store until checkout completes
// or the session expires. Single mutator, no internal locking.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem appends the product with quantity 1, or increments the
// existing line by 1. No stock check happens here: stock is advisory
// and enforced only by catalog display.
func (c *Cart) AddItem(p Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
}

// UpdateQuantity sets the line quantity directly. A quantity of zero or
// less removes the line.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the line for the given product, if present.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalCents sums per-item rounded minor-unit amounts. Mixed-currency
// carts are undefined; the total is stated in Currency().
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Product.UnitAmountCents() * int64(item.Quantity)
	}
	return total
}

// Currency returns the currency of the first line, or empty for an
// empty cart.
func (c *Cart) Currency() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].Product.Currency
}
