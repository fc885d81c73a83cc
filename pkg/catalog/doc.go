// Package catalog provides the static plan catalog for subscription checkout.
//
// Plans are loaded once at startup from a Source (in-memory or YAML file) and
// validated for internal consistency. The catalog is immutable after load:
// price lookups are pure and safe for concurrent use without locking.
//
// Prices are stored in minor currency units (paise for INR, cents for USD) and
// are tax-inclusive. The annual price already carries any plan-specific
// discount so callers never compute percentages at runtime, avoiding rounding
// drift between what is displayed and what is charged.
//
// Example:
//
//	cat, err := catalog.New(ctx, catalog.NewInMemSource(
//		catalog.Plan{
//			Code:         "starter",
//			Name:         "Starter",
//			EntryLevel:   true,
//			MonthlyPrice: catalog.Money{Amount: 99900, Currency: "INR"},
//			AnnualPrice:  catalog.Money{Amount: 999000, Currency: "INR"},
//		},
//	))
//	if err != nil {
//		// handle error
//	}
//
//	plan, err := cat.Get("starter")
//	price := plan.PriceFor(catalog.BillingCycleAnnual)
package catalog
