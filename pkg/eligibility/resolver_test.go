package eligibility_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
	"github.com/dmitrymomot/checkoutkit/pkg/eligibility"
)

type stubResolver struct {
	result eligibility.Result
	err    error
	calls  atomic.Int32
}

func (s *stubResolver) Check(ctx context.Context, email, planCode string) (eligibility.Result, error) {
	s.calls.Add(1)
	return s.result, s.err
}

func TestAtlasResolver(t *testing.T) {
	t.Parallel()

	t.Run("eligible", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/subscriptions/check-eligibility", r.URL.Path)
			_ = json.NewEncoder(w).Encode(atlas.EligibilityResponse{Success: true})
		}))
		t.Cleanup(srv.Close)

		client, err := atlas.New(atlas.Config{BaseURL: srv.URL})
		require.NoError(t, err)

		result, err := eligibility.NewResolver(client).Check(context.Background(), "user@example.com", "starter")
		require.NoError(t, err)
		assert.True(t, result.Eligible)
	})

	t.Run("backend error propagates", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		client, err := atlas.New(atlas.Config{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = eligibility.NewResolver(client).Check(context.Background(), "user@example.com", "starter")
		assert.Error(t, err)
	})
}

func TestSafeFailsClosed(t *testing.T) {
	t.Parallel()

	t.Run("error yields not eligible", func(t *testing.T) {
		t.Parallel()

		stub := &stubResolver{
			result: eligibility.Result{Eligible: true},
			err:    errors.New("backend down"),
		}
		result := eligibility.Safe(context.Background(), stub, "user@example.com", "starter")
		assert.False(t, result.Eligible)
	})

	t.Run("success passes through", func(t *testing.T) {
		t.Parallel()

		stub := &stubResolver{result: eligibility.Result{Eligible: true}}
		result := eligibility.Safe(context.Background(), stub, "user@example.com", "starter")
		assert.True(t, result.Eligible)
	})
}

func TestCachedResolver(t *testing.T) {
	t.Parallel()

	t.Run("memoizes per identity and plan", func(t *testing.T) {
		t.Parallel()

		stub := &stubResolver{result: eligibility.Result{Eligible: true}}
		cached := eligibility.NewCached(stub, time.Minute)

		for range 3 {
			result, err := cached.Check(context.Background(), "user@example.com", "starter")
			require.NoError(t, err)
			assert.True(t, result.Eligible)
		}
		assert.Equal(t, int32(1), stub.calls.Load())

		// Different plan is a different cache key.
		_, err := cached.Check(context.Background(), "user@example.com", "business")
		require.NoError(t, err)
		assert.Equal(t, int32(2), stub.calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		stub := &stubResolver{err: errors.New("boom")}
		cached := eligibility.NewCached(stub, time.Minute)

		_, err := cached.Check(context.Background(), "user@example.com", "starter")
		require.Error(t, err)
		_, err = cached.Check(context.Background(), "user@example.com", "starter")
		require.Error(t, err)
		assert.Equal(t, int32(2), stub.calls.Load())
	})
}
