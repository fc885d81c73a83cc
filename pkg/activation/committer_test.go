package activation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/activation"
	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
)

// countingBackend records every mutation and simulates idempotent backend
// state: overwrites are repeatable and credits are keyed by reference id.
type countingBackend struct {
	mu sync.Mutex

	markUsedCalls   int
	accountType     atlas.AccountType
	accountCalls    int
	creditsByRef    map[string]int64
	creditCallCount int

	markUsedErr error
	creditErr   error
}

func newCountingBackend() *countingBackend {
	return &countingBackend{creditsByRef: make(map[string]int64)}
}

func (b *countingBackend) MarkEmailUsed(ctx context.Context, email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.markUsedErr != nil {
		return b.markUsedErr
	}
	b.markUsedCalls++
	return nil
}

func (b *countingBackend) UpdateAccountType(ctx context.Context, email string, accountType atlas.AccountType) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accountCalls++
	b.accountType = accountType
	return nil
}

func (b *countingBackend) AddCredit(ctx context.Context, req atlas.AddCreditRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.creditErr != nil {
		return b.creditErr
	}
	b.creditCallCount++
	// Reference-keyed: a repeated call with the same reference overwrites
	// rather than accumulates, matching the backend contract.
	b.creditsByRef[req.ReferenceID] = req.Amount
	return nil
}

func TestCommit(t *testing.T) {
	t.Parallel()

	t.Run("issues all three mutations on upgrade", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		committer := activation.New(backend)

		err := committer.Commit(context.Background(), activation.Activation{
			Email:          "user@example.com",
			ReferenceID:    "sub_1",
			SubscriptionID: "sub_1",
			PriorBalance:   5000,
			Upgrade:        true,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, backend.markUsedCalls)
		assert.Equal(t, atlas.AccountTypePaid, backend.accountType)
		assert.Equal(t, int64(5000), backend.creditsByRef["sub_1"])
	})

	t.Run("skips credit for non-upgrade", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		committer := activation.New(backend)

		err := committer.Commit(context.Background(), activation.Activation{
			Email:       "user@example.com",
			ReferenceID: "pay_1",
		})
		require.NoError(t, err)
		assert.Zero(t, backend.creditCallCount)
	})

	t.Run("double commit is a no-op", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		committer := activation.New(backend)

		act := activation.Activation{
			Email:          "user@example.com",
			ReferenceID:    "sub_1",
			SubscriptionID: "sub_1",
			PriorBalance:   5000,
			Upgrade:        true,
		}

		require.NoError(t, committer.Commit(context.Background(), act))
		require.NoError(t, committer.Commit(context.Background(), act))

		assert.Equal(t, 1, backend.markUsedCalls)
		assert.Equal(t, 1, backend.accountCalls)
		assert.Equal(t, 1, backend.creditCallCount)
		assert.Equal(t, int64(5000), backend.creditsByRef["sub_1"])
	})

	t.Run("concurrent commits issue mutations once", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		committer := activation.New(backend)

		act := activation.Activation{
			Email:          "user@example.com",
			ReferenceID:    "sub_1",
			SubscriptionID: "sub_1",
			PriorBalance:   5000,
			Upgrade:        true,
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, committer.Commit(context.Background(), act))
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, backend.creditCallCount)
	})

	t.Run("re-issuing after backend-side retry leaves state unchanged", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()

		// Two separate committers simulate a retried activation from a
		// fresh session (browser closed mid-activation and reopened).
		act := activation.Activation{
			Email:          "user@example.com",
			ReferenceID:    "sub_1",
			SubscriptionID: "sub_1",
			PriorBalance:   5000,
			Upgrade:        true,
		}
		require.NoError(t, activation.New(backend).Commit(context.Background(), act))
		require.NoError(t, activation.New(backend).Commit(context.Background(), act))

		assert.Equal(t, atlas.AccountTypePaid, backend.accountType)
		assert.Equal(t, int64(5000), backend.creditsByRef["sub_1"], "reference-keyed credit does not double")
		assert.Len(t, backend.creditsByRef, 1)
	})

	t.Run("failure releases latch for retry", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		backend.markUsedErr = errors.New("backend down")
		committer := activation.New(backend)

		act := activation.Activation{Email: "user@example.com", ReferenceID: "sub_1"}

		err := committer.Commit(context.Background(), act)
		assert.ErrorIs(t, err, activation.ErrCommitFailed)

		backend.mu.Lock()
		backend.markUsedErr = nil
		backend.mu.Unlock()

		require.NoError(t, committer.Commit(context.Background(), act))
		assert.Equal(t, 1, backend.markUsedCalls)
	})

	t.Run("credit failure reported but others still applied", func(t *testing.T) {
		t.Parallel()

		backend := newCountingBackend()
		backend.creditErr = errors.New("ledger unavailable")
		committer := activation.New(backend)

		err := committer.Commit(context.Background(), activation.Activation{
			Email:          "user@example.com",
			ReferenceID:    "sub_1",
			SubscriptionID: "sub_1",
			PriorBalance:   5000,
			Upgrade:        true,
		})
		assert.ErrorIs(t, err, activation.ErrCommitFailed)
		assert.Equal(t, 1, backend.markUsedCalls)
		assert.Equal(t, atlas.AccountTypePaid, backend.accountType)
	})

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		committer := activation.New(newCountingBackend())

		assert.ErrorIs(t,
			committer.Commit(context.Background(), activation.Activation{ReferenceID: "x"}),
			activation.ErrMissingEmail)
		assert.ErrorIs(t,
			committer.Commit(context.Background(), activation.Activation{Email: "a@b.c"}),
			activation.ErrMissingReference)
	})
}
