package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrIntentNotFound  = errors.New("checkout: intent not found")
	ErrIntentInvalid   = errors.New("checkout: billing details incomplete")
	ErrNotReady        = errors.New("checkout: session is not ready to submit")
	ErrAlreadyFinished = errors.New("checkout: session already finished")
)

// ContactSupportMessage is shown when verification neither confirmed nor
// disproved the payment. It deliberately never asserts definite failure.
const ContactSupportMessage = "We could not confirm your payment yet. It may still have gone through - please contact support before trying again."

// InvalidTransitionError reports an event that is not legal from the current
// state. Callers treat it as a no-op signal, not a failure: re-entrant
// confirmations are expected and must be harmless.
type InvalidTransitionError struct {
	From  State
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("checkout: no transition from %q on %q", e.From, e.Event)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
