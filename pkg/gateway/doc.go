// Package gateway adapts the Razorpay payment widget and webhook surface
// behind a small capability interface so the checkout flow never touches a
// provider global directly.
//
// The widget itself runs outside this process; CheckoutGateway models its
// contract: open a checkout with a provider reference and receive either a
// success result carrying provider-issued identifiers and a signature, or a
// failure with the provider's own description. Implementations are swappable,
// which keeps the checkout state machine fully testable without a real
// widget.
//
// The package also verifies provider signatures (payment, subscription and
// webhook variants, all HMAC-SHA256 with constant-time comparison) and parses
// inbound webhook events into a normalized form for the confirmation path.
package gateway
