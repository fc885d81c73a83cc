package atlas

// PaymentStatus is the backend's authoritative status for a one-time payment.
type PaymentStatus string

const (
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// AccountType is the account tier set after a successful checkout.
type AccountType string

const (
	AccountTypeFree AccountType = "free"
	AccountTypePaid AccountType = "paid"
)

// Contact carries the billing address collected at checkout.
type Contact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PinCode     string `json:"pinCode"`
}

// EligibilityRequest asks whether an identity qualifies for the trial price.
type EligibilityRequest struct {
	Email    string `json:"email"`
	PlanCode string `json:"planCode"`
}

// EligibilityResponse reports trial eligibility for one identity/plan pair.
type EligibilityResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutRequest creates a provider order or subscription for a checkout
// attempt. Eligibility is re-validated server-side at this point; the
// client-cached result is for display only.
type CheckoutRequest struct {
	PlanCode     string  `json:"planCode"`
	Email        string  `json:"email"`
	BillingCycle string  `json:"billingCycle"`
	IsRecurring  bool    `json:"isRecurring"`
	Contact      Contact `json:"contact"`
}

// CheckoutResponse carries the provider reference for a fresh checkout
// attempt. Exactly one of OrderID or SubscriptionID is set depending on
// IsRecurring.
type CheckoutResponse struct {
	Success        bool   `json:"success"`
	IsRecurring    bool   `json:"isRecurring"`
	OrderID        string `json:"orderId,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Message        string `json:"message,omitempty"`
}

// UpgradeCheckoutRequest starts a plan upgrade for an already-paid account.
type UpgradeCheckoutRequest struct {
	Email        string  `json:"email"`
	Contact      Contact `json:"contact"`
	NewPlanCode  string  `json:"newPlanCode"`
	BillingCycle string  `json:"billingCycle"`
}

// UpgradeCheckoutResponse carries the provider subscription reference for an
// upgrade attempt.
type UpgradeCheckoutResponse struct {
	Success        bool   `json:"success"`
	SubscriptionID string `json:"subscriptionId"`
	Message        string `json:"message,omitempty"`
}

// PaymentDetailsRequest looks up the authoritative state of a payment or
// subscription by its provider identifier.
type PaymentDetailsRequest struct {
	PaymentID      string `json:"paymentId,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
}

// PaymentInfo is the backend's durable record of a single payment.
type PaymentInfo struct {
	Status PaymentStatus `json:"status"`
	Amount int64         `json:"amount,omitempty"`
}

// SubscriptionInfo is the backend's durable record of a subscription.
type SubscriptionInfo struct {
	ID           string `json:"id"`
	PlanCode     string `json:"planCode,omitempty"`
	BillingCycle string `json:"billingCycle,omitempty"`
	Status       string `json:"status,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// PaymentDetailsResponse answers a payment-details lookup. Payment is set for
// one-time orders, Subscription for recurring mandates.
type PaymentDetailsResponse struct {
	Success      bool              `json:"success"`
	Payment      *PaymentInfo      `json:"payment,omitempty"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// MeResponse is the authoritative "my current subscription" view. The
// subscription appears here only after the provider webhook has propagated.
type MeResponse struct {
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// SyncSubscriptionRequest triggers the backend's billing sync for a newly
// visible subscription.
type SyncSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId"`
}

// MarkEmailUsedRequest marks an identity's trial as consumed.
type MarkEmailUsedRequest struct {
	Email string `json:"email"`
}

// UpdateAccountTypeRequest flips an account to the given tier.
type UpdateAccountTypeRequest struct {
	Email       string      `json:"email"`
	AccountType AccountType `json:"accountType"`
}

// AddCreditRequest re-applies a prepaid balance as a credit on a new
// subscription. ReferenceID keys the credit so a repeated call with the same
// reference does not double-credit.
type AddCreditRequest struct {
	Email       string `json:"email"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"referenceId"`
}

// BalanceResponse reports the identity's current prepaid credit balance in
// minor units.
type BalanceResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// BillingDetailsRequest persists the billing address and payment-method
// selection for later visits. Best-effort: losing it costs convenience only.
type BillingDetailsRequest struct {
	Email         string  `json:"email"`
	Contact       Contact `json:"contact"`
	PaymentMethod string  `json:"paymentMethod"`
}

// StatusResponse is the generic success/message envelope used by mutation
// endpoints.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
