package logger

import "log/slog"

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Email records the customer identity under the key "email".
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// PlanCode records the selected plan under the key "plan_code".
func PlanCode(code string) slog.Attr {
	return slog.String("plan_code", code)
}

// SessionID records the checkout session identifier under the key
// "session_id".
func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

// PaymentID records the provider payment identifier under the key
// "payment_id".
func PaymentID(id string) slog.Attr {
	return slog.String("payment_id", id)
}

// OrderID records the provider order identifier under the key "order_id".
func OrderID(id string) slog.Attr {
	return slog.String("order_id", id)
}

// SubscriptionID records the provider subscription identifier under the key
// "subscription_id".
func SubscriptionID(id string) slog.Attr {
	return slog.String("subscription_id", id)
}

// Amount records a monetary amount in minor units under the key "amount".
func Amount(minor int64) slog.Attr {
	return slog.Int64("amount", minor)
}

// State records the checkout session state under the key "state".
func State(state string) slog.Attr {
	return slog.String("state", state)
}

// EventType records the webhook event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Attempt records a retry or poll attempt number under the key "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
