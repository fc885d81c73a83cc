package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/checkoutkit/pkg/cache"
)

// EventType is the normalized provider webhook event type.
type EventType string

const (
	EventPaymentCaptured       EventType = "payment_captured"
	EventPaymentFailed         EventType = "payment_failed"
	EventSubscriptionActivated EventType = "subscription_activated"
	EventSubscriptionCharged   EventType = "subscription_charged"
	EventSubscriptionCancelled EventType = "subscription_cancelled"
)

// Event is a normalized webhook event from the payment provider.
type Event struct {
	ID             string // provider delivery id, used for de-duplication
	Type           EventType
	ProviderEvent  string // original provider event name
	PaymentID      string
	OrderID        string
	SubscriptionID string
	Email          string
	Status         string
	Raw            map[string]any
}

// EventSink consumes normalized webhook events. Implementations must be
// idempotent: the provider retries deliveries and duplicates can slip past
// the handler's de-duplication window.
type EventSink interface {
	HandleEvent(ctx context.Context, event Event) error
}

// ParseWebhook verifies the webhook signature and normalizes the payload.
func ParseWebhook(secret string, payload []byte, signature string) (*Event, error) {
	if err := VerifyWebhookSignature(secret, payload, signature); err != nil {
		return nil, err
	}

	var body struct {
		Event   string `json:"event"`
		Payload struct {
			Payment *struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Status  string `json:"status"`
					Email   string `json:"email"`
				} `json:"entity"`
			} `json:"payment"`
			Subscription *struct {
				Entity struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"entity"`
			} `json:"subscription"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, errors.Join(ErrInvalidWebhookPayload, err)
	}
	if body.Event == "" {
		return nil, ErrInvalidWebhookPayload
	}

	event := &Event{
		Type:          mapEventType(body.Event),
		ProviderEvent: body.Event,
	}

	if body.Payload.Payment != nil {
		entity := body.Payload.Payment.Entity
		event.PaymentID = entity.ID
		event.OrderID = entity.OrderID
		event.Email = entity.Email
		event.Status = entity.Status
	}
	if body.Payload.Subscription != nil {
		entity := body.Payload.Subscription.Entity
		event.SubscriptionID = entity.ID
		if event.Status == "" {
			event.Status = entity.Status
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err == nil {
		event.Raw = raw
	}

	return event, nil
}

func mapEventType(providerEvent string) EventType {
	switch providerEvent {
	case "payment.captured":
		return EventPaymentCaptured
	case "payment.failed":
		return EventPaymentFailed
	case "subscription.activated", "subscription.authenticated":
		return EventSubscriptionActivated
	case "subscription.charged":
		return EventSubscriptionCharged
	case "subscription.cancelled", "subscription.halted":
		return EventSubscriptionCancelled
	default:
		// Pass through unmapped events so sinks can decide what to ignore.
		return EventType(providerEvent)
	}
}

// WebhookRouter returns a chi router exposing the provider webhook endpoint
// at POST /webhook/razorpay. Deliveries are verified, de-duplicated by the
// provider's event id for a short window, and handed to the sink. A sink
// error yields 500 so the provider retries the delivery.
func WebhookRouter(cfg Config, sink EventSink, log *slog.Logger) chi.Router {
	if sink == nil {
		panic("gateway: event sink is required")
	}
	if log == nil {
		log = slog.Default()
	}

	seen := cache.NewTTL[string, struct{}](5 * time.Minute)

	r := chi.NewRouter()
	r.Post("/webhook/razorpay", func(w http.ResponseWriter, req *http.Request) {
		payload, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		event, err := ParseWebhook(cfg.WebhookSecret, payload, req.Header.Get("X-Razorpay-Signature"))
		if err != nil {
			log.WarnContext(req.Context(), "webhook rejected", slog.Any("error", err))
			http.Error(w, "invalid webhook", http.StatusBadRequest)
			return
		}

		event.ID = req.Header.Get("X-Razorpay-Event-Id")
		dedup := event.ID != ""
		if dedup {
			if _, dup := seen.Get(event.ID); dup {
				// Duplicate delivery; already handled.
				w.WriteHeader(http.StatusOK)
				return
			}
		} else {
			event.ID = uuid.New().String()
		}

		if err := sink.HandleEvent(req.Context(), *event); err != nil {
			log.ErrorContext(req.Context(), "webhook sink failed",
				slog.String("event", event.ProviderEvent),
				slog.String("event_id", event.ID),
				slog.Any("error", err))
			http.Error(w, "event handling failed", http.StatusInternalServerError)
			return
		}

		// Marked seen only after the sink accepted the event: a 500 invites
		// a provider retry, and that retry must reach the sink again.
		if dedup {
			seen.Set(event.ID, struct{}{})
		}
		w.WriteHeader(http.StatusOK)
	})

	return r
}
