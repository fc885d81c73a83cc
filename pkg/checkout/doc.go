// Package checkout owns the lifecycle of a single checkout attempt as an
// explicit state machine:
//
//	Loading -> Ready -> Submitting -> AwaitingProvider -> Verifying -> Succeeded
//
// with Failed reachable from Submitting, AwaitingProvider and Verifying, and
// Cancelled reachable from Ready and AwaitingProvider. Representing the
// lifecycle as one tagged state (instead of scattered boolean flags) makes
// illegal combinations unrepresentable, and each transition fires at most
// once per attempt, so the provider's success callback and a concurrent
// webhook or poll result funnel into a single verification path.
//
// The session re-derives the chargeable amount from (plan, cycle,
// eligibility) on every change - it is never edited directly, so it cannot
// drift from the catalog. Billing-address validation gates the submit action
// proactively; a submit with an invalid address is rejected, never sent.
//
// For plan upgrades the session captures the identity's prepaid balance when
// it starts and persists it in an IntentStore, so a mid-flow page reload
// does not forfeit the balance that must be re-applied after activation.
package checkout
