package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Money represents a monetary amount in the smallest currency unit.
// For example, ₹999.00 INR would be Amount: 99900, Currency: "INR".
type Money struct {
	Amount   int64  `yaml:"amount" json:"amount"`
	Currency string `yaml:"currency" json:"currency"`
}

// IsZero reports whether the amount is unset.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// BillingCycle represents the billing frequency selected at checkout.
// It affects both the price lookup and the entitlement duration.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// Valid reports whether the cycle is one of the known values.
func (c BillingCycle) Valid() bool {
	return c == BillingCycleMonthly || c == BillingCycleAnnual
}

// Plan describes a subscription plan and its cycle prices.
// The Code field must match the backend's plan identifier so checkout and
// webhook processing can map provider events back to a plan.
type Plan struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	MonthlyPrice  Money  `yaml:"monthly_price"`
	AnnualPrice   Money  `yaml:"annual_price"`
	AnnualSavings Money  `yaml:"annual_savings"` // informational, already baked into AnnualPrice
	EntryLevel    bool   `yaml:"entry_level"`    // eligible for the discounted trial charge
	Public        bool   `yaml:"public"`         // available for self-service signup
}

// PriceFor returns the tax-inclusive catalog price for the given cycle.
// The returned value is exactly what the provider is asked to charge;
// no discount math is applied at runtime.
func (p Plan) PriceFor(cycle BillingCycle) Money {
	if cycle == BillingCycleAnnual {
		return p.AnnualPrice
	}
	return p.MonthlyPrice
}

// Source defines how plans are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// Catalog is an immutable plan lookup table loaded at startup.
type Catalog struct {
	plans map[string]Plan
}

// New loads plans from the given source and validates them.
// Panics if src is nil to fail fast during initialization.
func New(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("catalog: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	return &Catalog{plans: plans}, nil
}

// Get returns the plan for the given code.
// Returns ErrPlanNotFound if no plan with that code exists.
func (c *Catalog) Get(code string) (Plan, error) {
	plan, ok := c.plans[code]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// EntryPlan returns the entry-level plan, the only plan whose price can be
// replaced by the discounted trial charge. Returns ErrPlanNotFound if the
// catalog has no entry-level plan.
func (c *Catalog) EntryPlan() (Plan, error) {
	for _, plan := range c.plans {
		if plan.EntryLevel {
			return plan, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

// Codes returns all plan codes in the catalog.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.plans))
	for code := range c.plans {
		codes = append(codes, code)
	}
	return codes
}

// validatePlans ensures plan configurations are internally consistent.
// Catches common configuration errors early to prevent runtime issues.
func validatePlans(plans map[string]Plan) error {
	if len(plans) == 0 {
		return ErrNoPlans
	}

	entryPlans := 0
	for code, plan := range plans {
		if plan.Code != code {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan code mismatch: map key %s != plan.Code %s", code, plan.Code))
		}

		if plan.MonthlyPrice.Amount <= 0 || plan.AnnualPrice.Amount <= 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has non-positive price", code))
		}

		if plan.MonthlyPrice.Currency != plan.AnnualPrice.Currency {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has mismatched currencies: %s vs %s",
					code, plan.MonthlyPrice.Currency, plan.AnnualPrice.Currency))
		}

		if plan.AnnualPrice.Amount > 12*plan.MonthlyPrice.Amount {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s annual price exceeds 12x monthly", code))
		}

		if plan.EntryLevel {
			entryPlans++
		}
	}

	if entryPlans > 1 {
		return errors.Join(ErrInvalidPlanConfiguration,
			errors.New("at most one entry-level plan is allowed"))
	}

	return nil
}
