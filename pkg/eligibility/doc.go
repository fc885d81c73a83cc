// Package eligibility resolves whether an identity qualifies for the
// discounted trial price on a plan.
//
// Eligibility is advisory: it only affects the displayed price. The backend
// re-validates eligibility server-side at the moment of charge, so a stale or
// wrong client-side result can never change what is actually charged.
//
// Resolution fails closed. If the backend is unreachable the identity is
// treated as not eligible - a network error must never grant a discount.
// Results may be memoized for a single checkout session via NewCached, but
// never longer, because trial usage can change between visits.
package eligibility
