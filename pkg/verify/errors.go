package verify

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
)

var (
	// ErrVerificationTimeout means the polling ceiling was reached without
	// the subscription becoming visible. The payment may still have
	// succeeded; only the backend's record governs entitlement.
	ErrVerificationTimeout = errors.New("verify: subscription did not become visible before the polling ceiling")

	ErrVerificationCancelled = errors.New("verify: verification cancelled")
	ErrMissingPaymentID      = errors.New("verify: payment ID is required")
	ErrBackendUnavailable    = errors.New("verify: backend status check failed")
)

// PaymentNotCapturedError reports a one-time payment whose authoritative
// status is anything other than captured.
type PaymentNotCapturedError struct {
	PaymentID string
	Status    atlas.PaymentStatus
}

func (e *PaymentNotCapturedError) Error() string {
	return fmt.Sprintf("verify: payment %s not captured (status %q)", e.PaymentID, e.Status)
}

// IsNotCaptured extracts a *PaymentNotCapturedError from an error chain.
func IsNotCaptured(err error) (*PaymentNotCapturedError, bool) {
	var e *PaymentNotCapturedError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
