package eligibility

import (
	"context"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
	"github.com/dmitrymomot/checkoutkit/pkg/cache"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

// Result reports trial eligibility for one (identity, plan) pair.
// DiscountedAmount, when set, is the backend-specified trial charge.
type Result struct {
	Eligible         bool
	DiscountedAmount *catalog.Money
}

// Resolver checks trial eligibility for an identity and plan.
type Resolver interface {
	Check(ctx context.Context, email, planCode string) (Result, error)
}

type atlasResolver struct {
	client *atlas.Client
}

// NewResolver returns a Resolver backed by the console backend API.
// Panics if client is nil to fail fast during initialization.
func NewResolver(client *atlas.Client) Resolver {
	if client == nil {
		panic("eligibility: atlas client is required")
	}
	return &atlasResolver{client: client}
}

func (r *atlasResolver) Check(ctx context.Context, email, planCode string) (Result, error) {
	resp, err := r.client.CheckEligibility(ctx, atlas.EligibilityRequest{
		Email:    email,
		PlanCode: planCode,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Eligible: resp.Success}, nil
}

// Safe resolves eligibility failing closed: any error yields "not eligible"
// so a backend outage can never grant a discount. Use for display only.
func Safe(ctx context.Context, r Resolver, email, planCode string) Result {
	result, err := r.Check(ctx, email, planCode)
	if err != nil {
		return Result{}
	}
	return result
}

type cachedResolver struct {
	next  Resolver
	cache *cache.TTLCache[string, Result]
}

// NewCached memoizes eligibility results for up to ttl, de-duplicating
// concurrent checks for the same identity/plan pair. Intended for the
// lifetime of one checkout session only.
func NewCached(next Resolver, ttl time.Duration) Resolver {
	if next == nil {
		panic("eligibility: resolver is required")
	}
	return &cachedResolver{
		next:  next,
		cache: cache.NewTTL[string, Result](ttl),
	}
}

func (r *cachedResolver) Check(ctx context.Context, email, planCode string) (Result, error) {
	return r.cache.GetOrLoad(ctx, email+"|"+planCode, func(ctx context.Context) (Result, error) {
		return r.next.Check(ctx, email, planCode)
	})
}
