package gateway

import (
	"context"
	"fmt"
)

// ReferenceKind distinguishes one-time orders from recurring mandates.
type ReferenceKind string

const (
	ReferenceOrder        ReferenceKind = "order"
	ReferenceSubscription ReferenceKind = "subscription"
)

// Reference is the opaque order or subscription identifier issued by the
// backend/provider pairing for a single checkout attempt. References are
// never reused: a retry must obtain a fresh one, since the backend's own
// eligibility and pricing may have changed in between.
type Reference struct {
	Kind ReferenceKind
	ID   string
}

// IsRecurring reports whether the reference names a recurring mandate.
func (r Reference) IsRecurring() bool {
	return r.Kind == ReferenceSubscription
}

// Prefill pre-populates the provider widget with known customer details.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// CheckoutConfig is the configuration handed to the provider widget.
// Field names follow the Razorpay client contract.
type CheckoutConfig struct {
	Key            string            `json:"key"`
	Amount         int64             `json:"amount,omitempty"` // minor units; unset for subscriptions
	Currency       string            `json:"currency,omitempty"`
	OrderID        string            `json:"order_id,omitempty"`
	SubscriptionID string            `json:"subscription_id,omitempty"`
	Description    string            `json:"description,omitempty"`
	Prefill        Prefill           `json:"prefill"`
	Notes          map[string]string `json:"notes,omitempty"`
}

// CheckoutResult is the provider's success callback payload.
type CheckoutResult struct {
	PaymentID      string `json:"razorpay_payment_id"`
	OrderID        string `json:"razorpay_order_id,omitempty"`
	SubscriptionID string `json:"razorpay_subscription_id,omitempty"`
	Signature      string `json:"razorpay_signature"`
}

// CheckoutError is the provider's failure callback payload. Description is
// the provider's own wording and is surfaced to the user verbatim.
type CheckoutError struct {
	Code        string
	Description string
}

func (e *CheckoutError) Error() string {
	if e.Description == "" {
		return "gateway: payment failed"
	}
	return fmt.Sprintf("gateway: payment failed: %s", e.Description)
}

// CheckoutGateway opens the provider's payment UI for a single checkout
// attempt. It returns the success payload, a *CheckoutError on provider
// failure, or ErrCheckoutDismissed when the user closes the widget.
type CheckoutGateway interface {
	Open(ctx context.Context, cfg CheckoutConfig) (*CheckoutResult, error)
}

// GatewayFunc adapts a function to the CheckoutGateway interface.
type GatewayFunc func(ctx context.Context, cfg CheckoutConfig) (*CheckoutResult, error)

func (f GatewayFunc) Open(ctx context.Context, cfg CheckoutConfig) (*CheckoutResult, error) {
	return f(ctx, cfg)
}

// Config holds the provider credentials.
type Config struct {
	Key           string `env:"RAZORPAY_KEY,required"`
	Secret        string `env:"RAZORPAY_SECRET,required"`
	WebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`
}

// BuildCheckoutConfig assembles the widget configuration for a provider
// reference. Orders carry the chargeable amount; subscriptions carry only
// the mandate reference, since the provider already knows the plan pricing.
func BuildCheckoutConfig(cfg Config, ref Reference, amount int64, currency string, prefill Prefill) (CheckoutConfig, error) {
	if cfg.Key == "" {
		return CheckoutConfig{}, ErrMissingKey
	}
	if ref.ID == "" {
		return CheckoutConfig{}, ErrMissingReference
	}

	out := CheckoutConfig{
		Key:     cfg.Key,
		Prefill: prefill,
	}

	switch ref.Kind {
	case ReferenceSubscription:
		out.SubscriptionID = ref.ID
	default:
		out.OrderID = ref.ID
		out.Amount = amount
		out.Currency = currency
	}

	return out, nil
}
