// Package atlas is the HTTP client for the console backend API consumed by
// the checkout flow: eligibility checks, order/subscription creation, payment
// status lookups, and the account mutations performed after activation.
//
// The client is a thin JSON-over-HTTP wrapper. It holds no state beyond the
// base URL and a bearer access token; every call takes a context and the
// backend remains the single source of truth for payment and entitlement
// state. Non-2xx responses and backend-level rejections (success=false) are
// surfaced as *APIError so callers can show the backend's message verbatim.
package atlas
