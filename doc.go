// Package checkoutkit orchestrates subscription checkout and activation
// against a Razorpay-shaped payment provider and a console backend API.
//
// The root package composes the building blocks under pkg/ into a working
// flow:
//
//   - pkg/catalog: immutable plan catalog with monthly/annual pricing
//   - pkg/pricing: pure quote computation, trial charge override, INR display
//   - pkg/eligibility: fail-closed trial eligibility with TTL memoization
//   - pkg/atlas: backend API client (eligibility, checkout, verification,
//     account mutations)
//   - pkg/gateway: provider widget contract, signature checks, webhooks
//   - pkg/checkout: the per-session state machine and intent persistence
//   - pkg/verify: authoritative payment confirmation (single read for
//     one-time orders, bounded polling for subscriptions)
//   - pkg/activation: idempotent post-payment account mutations
//
// A Kit holds the shared collaborators built from environment configuration;
// each customer journey gets its own Flow:
//
//	kit, err := checkoutkit.New(ctx, cfg)
//	if err != nil { ... }
//
//	flow := kit.NewFlow()
//	if err := flow.Start(ctx, email, "starter", catalog.BillingCycleMonthly, false); err != nil { ... }
//	// collect billing details, then:
//	go flow.Submit(ctx)
//	// provider widget callbacks:
//	flow.HandleProviderSuccess(result)
package checkoutkit
