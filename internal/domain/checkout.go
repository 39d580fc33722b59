package domain

// DeliveryMethod selects how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryUnset    DeliveryMethod = ""
	DeliveryPersonal DeliveryMethod = "personal"
	DeliveryShipping DeliveryMethod = "shipping"
)

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentUnset          PaymentMethod = ""
	PaymentHosted         PaymentMethod = "hosted-payment"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

// ShippingAddress is captured when delivery is by shipping.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// PersonalDeliveryInfo is captured when delivery is personal/local.
// Email is optional; when present it must be well-formed.
type PersonalDeliveryInfo struct {
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	District      string `json:"district"`
	CityOrTown    string `json:"cityOrTown,omitempty"`
	PreferredTime string `json:"preferredTime"`
	Email         string `json:"email,omitempty"`
}
