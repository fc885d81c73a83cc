package activation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
)

var (
	ErrMissingEmail     = errors.New("activation: email is required")
	ErrMissingReference = errors.New("activation: reference ID is required")
	ErrCommitFailed     = errors.New("activation: one or more account mutations failed")
)

// CreditReason tags upgrade carry-over credits on the backend ledger.
const CreditReason = "prepaid balance carried over on plan upgrade"

// Backend is the slice of the console API the committer writes through.
// *atlas.Client satisfies it.
type Backend interface {
	MarkEmailUsed(ctx context.Context, email string) error
	UpdateAccountType(ctx context.Context, email string, accountType atlas.AccountType) error
	AddCredit(ctx context.Context, req atlas.AddCreditRequest) error
}

// Activation describes one verified checkout to commit.
//
// PriorBalance must be the balance captured at checkout start, before the
// upgrade request was sent - never a balance re-read after the new
// subscription exists, which would double-count the carried-over credit.
type Activation struct {
	Email          string
	ReferenceID    string // new subscription id, or payment id for one-time orders
	SubscriptionID string // set on the upgrade path; keys the credit
	PriorBalance   int64  // minor units; zero means nothing to carry over
	Upgrade        bool
}

// Committer issues the post-verification account mutations.
type Committer struct {
	backend Backend
	log     *slog.Logger

	mu        sync.Mutex
	committed map[string]struct{}
}

// Option configures a Committer.
type Option func(*Committer)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Committer) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Committer. Panics if backend is nil to fail fast during
// initialization.
func New(backend Backend, opts ...Option) *Committer {
	if backend == nil {
		panic("activation: backend is required")
	}
	c := &Committer{
		backend:   backend,
		log:       slog.Default(),
		committed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit marks the email used and flips the account tier in parallel, then
// re-applies the captured prior balance keyed by the new subscription id.
// A second Commit for the same reference is a no-op; a failed Commit
// releases the latch so the caller may retry, which is safe because every
// underlying mutation is idempotent on the backend.
func (c *Committer) Commit(ctx context.Context, act Activation) error {
	if act.Email == "" {
		return ErrMissingEmail
	}
	if act.ReferenceID == "" {
		return ErrMissingReference
	}

	c.mu.Lock()
	if _, done := c.committed[act.ReferenceID]; done {
		c.mu.Unlock()
		return nil
	}
	c.committed[act.ReferenceID] = struct{}{}
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	// Order between these two does not matter; both are overwrites.
	g.Go(func() error {
		if err := c.backend.MarkEmailUsed(gctx, act.Email); err != nil {
			c.log.ErrorContext(gctx, "failed to mark email as used",
				slog.String("email", act.Email), slog.Any("error", err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := c.backend.UpdateAccountType(gctx, act.Email, atlas.AccountTypePaid); err != nil {
			c.log.ErrorContext(gctx, "failed to update account type",
				slog.String("email", act.Email), slog.Any("error", err))
			return err
		}
		return nil
	})

	err := g.Wait()

	// The credit strictly depends on the new subscription id existing, so
	// it runs after the parallel pair rather than alongside them.
	if act.Upgrade && act.PriorBalance > 0 && act.SubscriptionID != "" {
		creditErr := c.backend.AddCredit(ctx, atlas.AddCreditRequest{
			Email:       act.Email,
			Type:        "prepaid",
			Amount:      act.PriorBalance,
			Reason:      CreditReason,
			ReferenceID: act.SubscriptionID,
		})
		if creditErr != nil {
			c.log.ErrorContext(ctx, "failed to re-apply prepaid balance",
				slog.String("email", act.Email),
				slog.String("subscription_id", act.SubscriptionID),
				slog.Int64("amount", act.PriorBalance),
				slog.Any("error", creditErr))
			err = errors.Join(err, creditErr)
		}
	}

	if err != nil {
		// Release the latch so a retry can re-issue the idempotent calls.
		c.mu.Lock()
		delete(c.committed, act.ReferenceID)
		c.mu.Unlock()
		return errors.Join(ErrCommitFailed, err)
	}

	return nil
}
