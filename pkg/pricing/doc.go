// Package pricing computes the chargeable amount for a checkout attempt.
//
// Quote is a pure function of (plan, billing cycle, eligibility): it has no
// side effects and is safe to call on every re-render of a billing-cycle
// toggle. The chargeable amount is always taken verbatim from the catalog
// (or replaced by the fixed trial charge) so the displayed total and the
// charged total cannot drift apart.
//
// Catalog prices are authoritative and tax-inclusive. The 18% GST note is
// informational only: no tax line is added on top and no base amount is
// re-derived by division anywhere.
package pricing
