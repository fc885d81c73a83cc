package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks the signature the provider attaches to a
// one-time order success callback. The signed payload is "orderID|paymentID".
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) error {
	return verify(secret, orderID+"|"+paymentID, signature)
}

// VerifySubscriptionSignature checks the signature attached to a recurring
// mandate success callback. The signed payload is "paymentID|subscriptionID".
func VerifySubscriptionSignature(secret, paymentID, subscriptionID, signature string) error {
	return verify(secret, paymentID+"|"+subscriptionID, signature)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body.
func VerifyWebhookSignature(secret string, payload []byte, signature string) error {
	return verify(secret, string(payload), signature)
}

// VerifyResult validates the signature on a success callback, choosing the
// order or subscription scheme based on which identifiers are present.
func VerifyResult(secret string, result *CheckoutResult) error {
	if result == nil {
		return ErrSignatureMismatch
	}
	if result.SubscriptionID != "" {
		return VerifySubscriptionSignature(secret, result.PaymentID, result.SubscriptionID, result.Signature)
	}
	return VerifyPaymentSignature(secret, result.OrderID, result.PaymentID, result.Signature)
}

func verify(secret, payload, signature string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if signature == "" {
		return ErrSignatureMismatch
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	expected := hex.EncodeToString(h.Sum(nil))

	// Constant-time comparison to prevent timing-based attacks.
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of payload. Exposed for tests and for
// stub gateways that need to produce valid callback signatures.
func Sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
