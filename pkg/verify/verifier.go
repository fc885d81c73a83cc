package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
)

// Backend is the slice of the console API the verifier reads from.
// *atlas.Client satisfies it.
type Backend interface {
	PaymentDetails(ctx context.Context, req atlas.PaymentDetailsRequest) (*atlas.PaymentDetailsResponse, error)
	CurrentSubscription(ctx context.Context) (*atlas.MeResponse, error)
	SyncSubscription(ctx context.Context, subscriptionID string) error
}

const (
	// DefaultPollInterval is the fixed spacing between subscription polls.
	DefaultPollInterval = 2 * time.Second
	// DefaultPollCeiling bounds the total time spent polling.
	DefaultPollCeiling = 60 * time.Second
)

// Verifier confirms payments against the backend's authoritative state.
type Verifier struct {
	backend  Backend
	interval time.Duration
	ceiling  time.Duration
	log      *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithPollInterval overrides the polling interval. Intended for tests.
func WithPollInterval(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.interval = d
		}
	}
}

// WithPollCeiling overrides the polling ceiling. Intended for tests.
func WithPollCeiling(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.ceiling = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.log = log
		}
	}
}

// New creates a Verifier. Panics if backend is nil to fail fast during
// initialization.
func New(backend Backend, opts ...Option) *Verifier {
	if backend == nil {
		panic("verify: backend is required")
	}
	v := &Verifier{
		backend:  backend,
		interval: DefaultPollInterval,
		ceiling:  DefaultPollCeiling,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyPayment makes exactly one authoritative status call for a one-time
// payment. Only a captured status is success; any other status returns a
// *PaymentNotCapturedError. Safe to call repeatedly: it is a pure read.
func (v *Verifier) VerifyPayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return ErrMissingPaymentID
	}

	resp, err := v.backend.PaymentDetails(ctx, atlas.PaymentDetailsRequest{PaymentID: paymentID})
	if err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}

	if resp.Payment == nil || resp.Payment.Status != atlas.PaymentStatusCaptured {
		status := atlas.PaymentStatus("")
		if resp.Payment != nil {
			status = resp.Payment.Status
		}
		return &PaymentNotCapturedError{PaymentID: paymentID, Status: status}
	}

	return nil
}

// AwaitSubscription polls the authoritative current-subscription endpoint
// until a non-empty subscription id appears, then triggers the downstream
// billing sync and returns the id. Polling stops at the ceiling
// (ErrVerificationTimeout) or when ctx is cancelled; no further polls are
// issued after either. Safe to invoke more than once: every iteration is a
// read, and the sync call is idempotent on the backend.
func (v *Verifier) AwaitSubscription(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.ceiling)
	defer cancel()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	attempt := 0
	for {
		attempt++
		id, err := v.pollOnce(ctx)
		if err == nil && id != "" {
			v.log.InfoContext(ctx, "subscription visible",
				slog.String("subscription_id", id),
				slog.Int("attempt", attempt))

			if err := v.backend.SyncSubscription(ctx, id); err != nil {
				// Sync is retryable backend-side work; the subscription
				// itself is confirmed, so surface but don't fail closed.
				v.log.ErrorContext(ctx, "subscription sync failed",
					slog.String("subscription_id", id),
					slog.Any("error", err))
			}
			return id, nil
		}
		if err != nil {
			// Transient poll errors are expected while the webhook
			// propagates; keep polling until the ceiling.
			v.log.DebugContext(ctx, "subscription poll failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ErrVerificationTimeout
			}
			return "", errors.Join(ErrVerificationCancelled, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (v *Verifier) pollOnce(ctx context.Context) (string, error) {
	resp, err := v.backend.CurrentSubscription(ctx)
	if err != nil {
		return "", err
	}
	if resp.Subscription == nil {
		return "", nil
	}
	return resp.Subscription.ID, nil
}
