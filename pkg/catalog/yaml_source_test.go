package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

func writePlansFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	t.Run("loads plans from yaml", func(t *testing.T) {
		t.Parallel()

		path := writePlansFile(t, `
plans:
  - code: starter
    name: Starter
    entry_level: true
    monthly_price: {amount: 99900, currency: INR}
    annual_price: {amount: 999000, currency: INR}
  - code: business
    name: Business
    monthly_price: {amount: 299900, currency: INR}
    annual_price: {amount: 2999000, currency: INR}
`)

		cat, err := catalog.New(context.Background(), catalog.NewFileSource(path))
		require.NoError(t, err)

		plan, err := cat.Get("business")
		require.NoError(t, err)
		assert.Equal(t, int64(299900), plan.MonthlyPrice.Amount)
		assert.Len(t, cat.Codes(), 2)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.NewFileSource("/nonexistent/plans.yaml").Load(context.Background())
		assert.ErrorIs(t, err, catalog.ErrFailedToLoadPlans)
	})

	t.Run("duplicate plan code", func(t *testing.T) {
		t.Parallel()

		path := writePlansFile(t, `
plans:
  - code: starter
    monthly_price: {amount: 1, currency: INR}
    annual_price: {amount: 10, currency: INR}
  - code: starter
    monthly_price: {amount: 2, currency: INR}
    annual_price: {amount: 20, currency: INR}
`)

		_, err := catalog.NewFileSource(path).Load(context.Background())
		assert.ErrorIs(t, err, catalog.ErrDuplicatePlanCode)
	})

	t.Run("empty plan list", func(t *testing.T) {
		t.Parallel()

		path := writePlansFile(t, "plans: []\n")
		_, err := catalog.NewFileSource(path).Load(context.Background())
		assert.ErrorIs(t, err, catalog.ErrNoPlans)
	})
}
