package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/payment"
)

// Stage names a position in the checkout flow.
type Stage string

const (
	// StageIdle means checkout has not begun for this session.
	StageIdle Stage = ""
	// StageOptions is the delivery method selection step.
	StageOptions Stage = "options"
	// StageAddress captures a shipping address.
	StageAddress Stage = "address"
	// StagePersonal captures personal delivery contact details.
	StagePersonal Stage = "personal"
	// StageSummary is the read-only recap before submission.
	StageSummary Stage = "summary"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAlreadyProcessing = errors.New("checkout is already processing")
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

// ValidationError reports a rejected field; it never reaches the
// payment provider or the database.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// State is the mutable checkout record for one browsing session. It is
// created all-unset when checkout begins, mutated only through the
// methods below, and discarded on synchronous success or when the user
// backs out. It has no server-durable counterpart until an Order is
// created by the webhook.
type State struct {
	stage          Stage
	DeliveryMethod domain.DeliveryMethod
	PaymentMethod  domain.PaymentMethod
	Address        *domain.ShippingAddress
	PersonalInfo   *domain.PersonalDeliveryInfo
	processing     bool
}

// Stage returns the current position in the flow.
func (s *State) Stage() Stage { return s.stage }

// Processing reports whether a submission is in flight.
func (s *State) Processing() bool { return s.processing }

// Begin enters checkout. An empty cart cannot enter; callers redirect
// to the catalog on ErrEmptyCart.
func (s *State) Begin(cart *domain.Cart) error {
	if cart.IsEmpty() {
		return ErrEmptyCart
	}
	s.Reset()
	s.stage = StageOptions
	return nil
}

// Reset returns the state to all-unset.
func (s *State) Reset() {
	*s = State{}
}

// SelectDelivery records the delivery method. Personal delivery
// implies cash payment: no hosted-payment option exists for it, so the
// payment method is forced here regardless of any prior selection.
// Shipping leaves the payment method unset for a later explicit choice.
func (s *State) SelectDelivery(method domain.DeliveryMethod) error {
	if s.stage != StageOptions {
		return ErrInvalidTransition
	}
	switch method {
	case domain.DeliveryPersonal:
		s.DeliveryMethod = domain.DeliveryPersonal
		s.PaymentMethod = domain.PaymentCashOnDelivery
		s.stage = StagePersonal
	case domain.DeliveryShipping:
		s.DeliveryMethod = domain.DeliveryShipping
		s.PaymentMethod = domain.PaymentUnset
		s.stage = StageAddress
	default:
		return &ValidationError{Field: "deliveryMethod", Reason: "must be personal or shipping"}
	}
	return nil
}

// SelectPayment records the payment method for a shipping checkout.
// Personal delivery already forced cash-on-delivery; any other
// combination is rejected.
func (s *State) SelectPayment(method domain.PaymentMethod) error {
	if s.stage != StageAddress && s.stage != StageSummary {
		return ErrInvalidTransition
	}
	switch {
	case s.DeliveryMethod == domain.DeliveryPersonal:
		if method != domain.PaymentCashOnDelivery {
			return &ValidationError{Field: "paymentMethod", Reason: "personal delivery is cash on delivery only"}
		}
	case s.DeliveryMethod == domain.DeliveryShipping:
		if method != domain.PaymentHosted {
			return &ValidationError{Field: "paymentMethod", Reason: "shipping orders are paid through the hosted checkout"}
		}
	default:
		return ErrInvalidTransition
	}
	s.PaymentMethod = method
	return nil
}

// SubmitAddress validates and stores the shipping address, then moves
// to the summary.
func (s *State) SubmitAddress(addr domain.ShippingAddress) error {
	if s.stage != StageAddress {
		return ErrInvalidTransition
	}
	if err := validateAddress(addr); err != nil {
		return err
	}
	s.Address = &addr
	s.stage = StageSummary
	return nil
}

// SubmitPersonalInfo validates and stores the personal delivery
// details, then moves to the summary.
func (s *State) SubmitPersonalInfo(info domain.PersonalDeliveryInfo) error {
	if s.stage != StagePersonal {
		return ErrInvalidTransition
	}
	if err := validatePersonalInfo(info); err != nil {
		return err
	}
	s.PersonalInfo = &info
	s.stage = StageSummary
	return nil
}

// Back steps to the previous stage without discarding already-entered
// values.
func (s *State) Back() error {
	switch s.stage {
	case StageSummary:
		if s.DeliveryMethod == domain.DeliveryPersonal {
			s.stage = StagePersonal
		} else {
			s.stage = StageAddress
		}
	case StageAddress, StagePersonal:
		s.stage = StageOptions
	default:
		return ErrInvalidTransition
	}
	return nil
}

func validateAddress(addr domain.ShippingAddress) error {
	required := []struct{ field, value string }{
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"zip", addr.Zip},
		{"country", addr.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}
	return nil
}

func validatePersonalInfo(info domain.PersonalDeliveryInfo) error {
	required := []struct{ field, value string }{
		{"fullName", info.FullName},
		{"phoneNumber", info.PhoneNumber},
		{"district", info.District},
		{"preferredTime", info.PreferredTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}
	if info.Email != "" {
		if _, err := mail.ParseAddress(info.Email); err != nil {
			return &ValidationError{Field: "email", Reason: "invalid email address"}
		}
	}
	return nil
}

// Result is the outcome of a processed checkout: either a redirect to
// the hosted payment page, or synchronous completion.
type Result struct {
	Redirect  *payment.Session
	Completed bool
}

type sessionBridge interface {
	CreateSession(ctx context.Context, in payment.CreateSessionInput) (*payment.Session, error)
}

type notifier interface {
	SendOrderNotification(ctx context.Context, n notify.OrderNotification) error
}

// Machine executes checkout submissions against its collaborators.
// State transitions stay on State; Machine owns the branch between the
// payment session bridge and the notification path.
type Machine struct {
	bridge   sessionBridge
	notifier notifier
	logger   *log.Logger
}

func NewMachine(bridge sessionBridge, notifier notifier, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Machine{bridge: bridge, notifier: notifier, logger: logger}
}

// Process submits the checkout.
//
// Hosted payment: a provider session is created and the caller
// redirects the browser to it. Cart and state are deliberately NOT
// cleared: completion is confirmed later by the webhook, and the user
// returning on the success URL still needs to query order status by
// session id. On bridge failure the state stays at the summary,
// resumable.
//
// Personal + cash on delivery: the operator notification is attempted
// at most once and its failure is swallowed; the cart is cleared and
// the state reset regardless, because the email is a best-effort side
// channel, not the order record.
func (m *Machine) Process(ctx context.Context, state *State, cart *domain.Cart, customer *domain.Customer) (*Result, error) {
	if state.stage != StageSummary {
		return nil, ErrInvalidTransition
	}
	if state.processing {
		return nil, ErrAlreadyProcessing
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	state.processing = true

	switch {
	case state.PaymentMethod == domain.PaymentHosted:
		in := payment.CreateSessionInput{
			Items:                cart.Items,
			DeliveryMethod:       state.DeliveryMethod,
			Address:              state.Address,
			PersonalDeliveryInfo: state.PersonalInfo,
		}
		if customer != nil {
			in.CustomerID = customer.ID
			in.CustomerEmail = customer.Email
		}
		sess, err := m.bridge.CreateSession(ctx, in)
		if err != nil {
			state.processing = false
			return nil, fmt.Errorf("create checkout session: %w", err)
		}
		// The redirect ends this page lifecycle; unlocking the guard
		// keeps the summary resumable when the user cancels on the
		// provider page and comes back.
		state.processing = false
		return &Result{Redirect: sess}, nil

	case state.DeliveryMethod == domain.DeliveryPersonal && state.PaymentMethod == domain.PaymentCashOnDelivery:
		n := notify.OrderNotification{
			Customer:   *state.PersonalInfo,
			Items:      cart.Items,
			TotalCents: cart.TotalCents(),
			Currency:   cart.Currency(),
		}
		if err := m.notifier.SendOrderNotification(ctx, n); err != nil {
			m.logger.Printf("checkout: order notification failed (order proceeds): %v", err)
		}
		cart.Clear()
		state.Reset()
		return &Result{Completed: true}, nil

	default:
		state.processing = false
		return nil, &ValidationError{Field: "paymentMethod", Reason: "payment method not selected"}
	}
}
