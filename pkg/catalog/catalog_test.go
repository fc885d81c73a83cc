package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

func testPlans() []catalog.Plan {
	return []catalog.Plan{
		{
			Code:         "starter",
			Name:         "Starter",
			EntryLevel:   true,
			Public:       true,
			MonthlyPrice: catalog.Money{Amount: 99900, Currency: "INR"},
			AnnualPrice:  catalog.Money{Amount: 999000, Currency: "INR"},
		},
		{
			Code:         "business",
			Name:         "Business",
			Public:       true,
			MonthlyPrice: catalog.Money{Amount: 299900, Currency: "INR"},
			AnnualPrice:  catalog.Money{Amount: 2999000, Currency: "INR"},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("loads valid plans", func(t *testing.T) {
		t.Parallel()

		cat, err := catalog.New(context.Background(), catalog.NewInMemSource(testPlans()...))
		require.NoError(t, err)

		plan, err := cat.Get("starter")
		require.NoError(t, err)
		assert.Equal(t, "Starter", plan.Name)
		assert.True(t, plan.EntryLevel)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.New(context.Background(), catalog.NewInMemSource(catalog.Plan{
			Code:         "broken",
			MonthlyPrice: catalog.Money{Amount: 0, Currency: "INR"},
			AnnualPrice:  catalog.Money{Amount: 1000, Currency: "INR"},
		}))
		assert.ErrorIs(t, err, catalog.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects annual price above 12x monthly", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.New(context.Background(), catalog.NewInMemSource(catalog.Plan{
			Code:         "broken",
			MonthlyPrice: catalog.Money{Amount: 100, Currency: "INR"},
			AnnualPrice:  catalog.Money{Amount: 1300, Currency: "INR"},
		}))
		assert.ErrorIs(t, err, catalog.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects mismatched currencies", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.New(context.Background(), catalog.NewInMemSource(catalog.Plan{
			Code:         "broken",
			MonthlyPrice: catalog.Money{Amount: 100, Currency: "INR"},
			AnnualPrice:  catalog.Money{Amount: 1000, Currency: "USD"},
		}))
		assert.ErrorIs(t, err, catalog.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects multiple entry-level plans", func(t *testing.T) {
		t.Parallel()

		plans := testPlans()
		plans[1].EntryLevel = true
		_, err := catalog.New(context.Background(), catalog.NewInMemSource(plans...))
		assert.ErrorIs(t, err, catalog.ErrInvalidPlanConfiguration)
	})

	t.Run("panics on nil source", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			_, _ = catalog.New(context.Background(), nil)
		})
	})
}

func TestCatalogGet(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New(context.Background(), catalog.NewInMemSource(testPlans()...))
	require.NoError(t, err)

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()

		_, err := cat.Get("enterprise")
		assert.ErrorIs(t, err, catalog.ErrPlanNotFound)
	})

	t.Run("entry plan", func(t *testing.T) {
		t.Parallel()

		plan, err := cat.EntryPlan()
		require.NoError(t, err)
		assert.Equal(t, "starter", plan.Code)
	})
}

func TestPlanPriceFor(t *testing.T) {
	t.Parallel()

	plan := testPlans()[0]

	assert.Equal(t, int64(99900), plan.PriceFor(catalog.BillingCycleMonthly).Amount)
	assert.Equal(t, int64(999000), plan.PriceFor(catalog.BillingCycleAnnual).Amount)
}

func TestBillingCycleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, catalog.BillingCycleMonthly.Valid())
	assert.True(t, catalog.BillingCycleAnnual.Valid())
	assert.False(t, catalog.BillingCycle("weekly").Valid())
}
