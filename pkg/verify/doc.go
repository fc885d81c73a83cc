// Package verify turns a provider success callback into an authoritative
// payment confirmation.
//
// Two payment products are verified differently. A one-time order gets
// exactly one status lookup: only "captured" counts as success, anything
// else is surfaced as a failure requiring manual contact - a single capture
// either resolves quickly or indicates a real problem, so it is never
// silently retried. A recurring subscription propagates asynchronously via
// the provider webhook, so the verifier polls the authoritative
// current-subscription endpoint at a fixed interval up to a bounded ceiling,
// then issues the downstream billing sync once the subscription id appears.
//
// Every operation is a read against the backend's durable state; the package
// performs no writes that could double-activate an account. The polling loop
// honors context cancellation at each iteration boundary, so tearing down a
// checkout session deterministically stops it. The ceiling is a UX bound,
// not a billing decision: reaching it never asserts that the payment failed.
package verify
