package pricing

import (
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

// TaxNote is the informational tax line shown alongside every quote.
// Prices are tax-inclusive; nothing is added on top of the quoted amount.
const TaxNote = "inclusive of 18% GST"

// DefaultTrialCharge is the token amount charged to validate the payment
// method when a trial-eligible identity subscribes to the entry-level plan.
var DefaultTrialCharge = catalog.Money{Amount: 500, Currency: "INR"}

// Eligibility is the pricing-relevant slice of a trial-eligibility check.
// DiscountedAmount, when set, overrides the engine's trial charge.
type Eligibility struct {
	Eligible         bool
	DiscountedAmount *catalog.Money
}

// Quote is the result of a price computation for one checkout attempt.
// Amount is the exact value sent to the payment provider. ListAmount is the
// undiscounted catalog price, kept for the strikethrough display when a
// trial charge applies. TaxNote is the informational tax line rendered next
// to the price; the amount already includes the tax.
type Quote struct {
	Amount      catalog.Money
	ListAmount  catalog.Money
	Display     string
	ListDisplay string
	TaxNote     string
	Trial       bool
}

// Engine computes quotes from catalog plans. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	trialCharge catalog.Money
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrialCharge overrides the default trial token charge.
func WithTrialCharge(m catalog.Money) Option {
	return func(e *Engine) {
		if m.Amount > 0 {
			e.trialCharge = m
		}
	}
}

// NewEngine creates a pricing engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{trialCharge: DefaultTrialCharge}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quote returns the chargeable amount and display strings for a plan/cycle
// selection. For a trial-eligible identity on the entry-level plan the
// chargeable amount becomes the fixed trial charge; every other combination
// returns the catalog price for the cycle unchanged.
func (e *Engine) Quote(plan catalog.Plan, cycle catalog.BillingCycle, elig Eligibility) Quote {
	list := plan.PriceFor(cycle)

	q := Quote{
		Amount:     list,
		ListAmount: list,
	}

	if elig.Eligible && plan.EntryLevel {
		charge := e.trialCharge
		if elig.DiscountedAmount != nil && elig.DiscountedAmount.Amount > 0 {
			charge = *elig.DiscountedAmount
		}
		if charge.Currency == "" {
			charge.Currency = list.Currency
		}
		q.Amount = charge
		q.Trial = true
	}

	q.Display = Format(q.Amount)
	q.ListDisplay = Format(q.ListAmount)
	q.TaxNote = TaxNote

	return q
}
