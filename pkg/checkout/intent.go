package checkout

import (
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

// Intent is the working state of one checkout session: who is buying what,
// on which cycle, with which billing details. The chargeable amount is not
// stored here - it is re-derived from (plan, cycle, eligibility) on every
// read so it cannot drift from the catalog.
//
// PriorBalance is captured once when the session starts (upgrade path only)
// and survives reloads via the IntentStore.
type Intent struct {
	SessionID     string               `json:"sessionId"`
	Email         string               `json:"email"`
	PlanCode      string               `json:"planCode"`
	BillingCycle  catalog.BillingCycle `json:"billingCycle"`
	Contact       atlas.Contact        `json:"contact"`
	PaymentMethod string               `json:"paymentMethod"`
	Upgrade       bool                 `json:"upgrade"`
	PriorBalance  int64                `json:"priorBalance"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// requiredContactFields lists the address fields that must be non-empty for
// the domestic flow.
func (i *Intent) requiredContactFields() []string {
	return []string{
		i.Contact.Name,
		i.Contact.AddressLine,
		i.Contact.City,
		i.Contact.State,
		i.Contact.Country,
	}
}

// CanSubmit reports whether the billing details satisfy the submit guard:
// all required address fields non-empty, the phone number exactly 10 digits,
// the postal code exactly 6 digits, and a payment method selected. The
// submit action is disabled while this is false.
func (i *Intent) CanSubmit() bool {
	return i.Validate() == nil
}

// Validate returns ErrIntentInvalid unless every submit-guard constraint
// holds. Checked reactively on every field change and again at submit time.
func (i *Intent) Validate() error {
	for _, field := range i.requiredContactFields() {
		if field == "" {
			return ErrIntentInvalid
		}
	}
	if !allDigits(i.Contact.PhoneNumber) || len(i.Contact.PhoneNumber) != 10 {
		return ErrIntentInvalid
	}
	if !allDigits(i.Contact.PinCode) || len(i.Contact.PinCode) != 6 {
		return ErrIntentInvalid
	}
	if i.PaymentMethod == "" {
		return ErrIntentInvalid
	}
	if i.Email == "" || !i.BillingCycle.Valid() {
		return ErrIntentInvalid
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
