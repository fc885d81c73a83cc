package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/checkoutkit/pkg/activation"
	"github.com/dmitrymomot/checkoutkit/pkg/atlas"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/eligibility"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/pricing"
)

// Backend is the slice of the console API a session writes through during
// checkout. *atlas.Client satisfies it.
type Backend interface {
	CreateCheckout(ctx context.Context, req atlas.CheckoutRequest) (*atlas.CheckoutResponse, error)
	UpgradeCheckout(ctx context.Context, req atlas.UpgradeCheckoutRequest) (*atlas.UpgradeCheckoutResponse, error)
	SaveBillingDetails(ctx context.Context, req atlas.BillingDetailsRequest) error
	CreditBalance(ctx context.Context) (*atlas.BalanceResponse, error)
}

// PaymentVerifier confirms a checkout against authoritative backend state.
// *verify.Verifier satisfies it.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, paymentID string) error
	AwaitSubscription(ctx context.Context) (string, error)
}

// Committer issues the post-verification account mutations.
// *activation.Committer satisfies it.
type Committer interface {
	Commit(ctx context.Context, act activation.Activation) error
}

// Deps are the collaborators a Session drives. Store and Logger are
// optional; everything else is required.
type Deps struct {
	Catalog       *catalog.Catalog
	Pricing       *pricing.Engine
	Eligibility   eligibility.Resolver
	Backend       Backend
	Gateway       gateway.CheckoutGateway
	GatewayConfig gateway.Config
	Verifier      PaymentVerifier
	Committer     Committer
	Store         IntentStore
	Logger        *slog.Logger
}

func (d *Deps) validate() {
	switch {
	case d.Catalog == nil:
		panic("checkout: catalog is required")
	case d.Pricing == nil:
		panic("checkout: pricing engine is required")
	case d.Eligibility == nil:
		panic("checkout: eligibility resolver is required")
	case d.Backend == nil:
		panic("checkout: backend is required")
	case d.Gateway == nil:
		panic("checkout: gateway is required")
	case d.Verifier == nil:
		panic("checkout: verifier is required")
	case d.Committer == nil:
		panic("checkout: committer is required")
	}
	if d.Store == nil {
		d.Store = NewMemoryStore()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

// Session drives one checkout from plan selection to activation. All state
// transitions funnel through an internal machine, so a confirmation arriving
// twice (webhook racing the poll loop) is a harmless no-op.
//
// A Session is safe for concurrent use; Submit blocks for the duration of
// the attempt while HandleEvent and Cancel remain callable.
type Session struct {
	deps Deps

	machine *machine

	mu         sync.Mutex
	intent     Intent
	quote      pricing.Quote
	elig       eligibility.Result
	reference  gateway.Reference
	pollCancel context.CancelFunc
	committed  bool
	failureMsg string
}

// NewSession creates a session in the Loading state. Panics if a required
// dependency is missing.
func NewSession(deps Deps) *Session {
	deps.validate()
	return &Session{
		deps:    deps,
		machine: newMachine(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.machine.state()
}

// Intent returns a copy of the current checkout intent.
func (s *Session) Intent() Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intent
}

// Quote returns the current price quote. Re-derived from the catalog on
// every plan or cycle change; never stored-edited.
func (s *Session) Quote() pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// Load resolves the plan, checks trial eligibility (fail-closed, display
// only), computes the initial quote, captures the prior credit balance on
// the upgrade path, persists the intent, and moves the session to Ready.
func (s *Session) Load(ctx context.Context, email, planCode string, cycle catalog.BillingCycle, upgrade bool) error {
	plan, err := s.deps.Catalog.Get(planCode)
	if err != nil {
		return err
	}
	if !cycle.Valid() {
		cycle = catalog.BillingCycleMonthly
	}

	elig := eligibility.Safe(ctx, s.deps.Eligibility, email, planCode)

	var priorBalance int64
	if upgrade {
		// Captured before the upgrade request exists so the carried-over
		// credit cannot include anything from the new subscription.
		if bal, err := s.deps.Backend.CreditBalance(ctx); err != nil {
			s.deps.Logger.WarnContext(ctx, "prior balance capture failed",
				slog.String("email", email), slog.Any("error", err))
		} else {
			priorBalance = bal.Amount
		}
	}

	intent := Intent{
		SessionID:    uuid.NewString(),
		Email:        email,
		PlanCode:     planCode,
		BillingCycle: cycle,
		Upgrade:      upgrade,
		PriorBalance: priorBalance,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.deps.Store.Save(ctx, &intent); err != nil {
		return err
	}

	s.mu.Lock()
	s.intent = intent
	s.elig = elig
	s.quote = s.deps.Pricing.Quote(plan, cycle, pricing.Eligibility{
		Eligible:         elig.Eligible,
		DiscountedAmount: elig.DiscountedAmount,
	})
	s.mu.Unlock()

	_, err = s.machine.fire(evLoaded)
	return err
}

// Resume restores a persisted intent, e.g. after a page reload. The captured
// prior balance travels with the intent, so a reload mid-flow does not
// forfeit the credit. Eligibility is re-resolved; the quote is re-derived.
func (s *Session) Resume(ctx context.Context, sessionID string) error {
	intent, err := s.deps.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	plan, err := s.deps.Catalog.Get(intent.PlanCode)
	if err != nil {
		return err
	}

	elig := eligibility.Safe(ctx, s.deps.Eligibility, intent.Email, intent.PlanCode)

	s.mu.Lock()
	s.intent = *intent
	s.elig = elig
	s.quote = s.deps.Pricing.Quote(plan, intent.BillingCycle, pricing.Eligibility{
		Eligible:         elig.Eligible,
		DiscountedAmount: elig.DiscountedAmount,
	})
	s.mu.Unlock()

	_, err = s.machine.fire(evLoaded)
	return err
}

// SetContact replaces the billing contact. Allowed only while Ready.
func (s *Session) SetContact(ctx context.Context, contact atlas.Contact) error {
	return s.edit(ctx, func(i *Intent) { i.Contact = contact })
}

// SetPaymentMethod records the selected payment method. Allowed only while
// Ready.
func (s *Session) SetPaymentMethod(ctx context.Context, method string) error {
	return s.edit(ctx, func(i *Intent) { i.PaymentMethod = method })
}

// SelectCycle switches the billing cycle and re-derives the quote. Allowed
// only while Ready.
func (s *Session) SelectCycle(ctx context.Context, cycle catalog.BillingCycle) error {
	if !cycle.Valid() {
		return ErrIntentInvalid
	}
	if err := s.edit(ctx, func(i *Intent) { i.BillingCycle = cycle }); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.deps.Catalog.Get(s.intent.PlanCode)
	if err != nil {
		return err
	}
	s.quote = s.deps.Pricing.Quote(plan, cycle, pricing.Eligibility{
		Eligible:         s.elig.Eligible,
		DiscountedAmount: s.elig.DiscountedAmount,
	})
	return nil
}

func (s *Session) edit(ctx context.Context, apply func(*Intent)) error {
	if state := s.machine.state(); state != StateReady {
		if state.Terminal() {
			return ErrAlreadyFinished
		}
		return ErrNotReady
	}

	s.mu.Lock()
	apply(&s.intent)
	intent := s.intent
	s.mu.Unlock()

	return s.deps.Store.Save(ctx, &intent)
}

// CanSubmit reports whether the submit guard passes for the current intent.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.state() == StateReady && s.intent.CanSubmit()
}

// Submit runs one full checkout attempt: create the provider reference,
// open the provider widget, verify the outcome against the backend, and
// commit activation. It blocks until the attempt reaches Succeeded or
// Failed, or returns early to Ready when order creation is rejected.
//
// Activation failures after a verified payment are logged and do not fail
// the attempt: the money moved, support reconciles the rest.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	intent := s.intent
	quote := s.quote
	s.mu.Unlock()

	if err := intent.Validate(); err != nil {
		return err
	}
	if s.machine.state().Terminal() {
		return ErrAlreadyFinished
	}
	if _, err := s.machine.fire(evSubmit); err != nil {
		return errors.Join(ErrNotReady, err)
	}

	// Best-effort persistence of billing details for later visits. A
	// failure here costs convenience only and must never stall checkout.
	go func() {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.deps.Backend.SaveBillingDetails(saveCtx, atlas.BillingDetailsRequest{
			Email:         intent.Email,
			Contact:       intent.Contact,
			PaymentMethod: intent.PaymentMethod,
		}); err != nil {
			s.deps.Logger.WarnContext(saveCtx, "billing details save failed",
				slog.String("email", intent.Email), slog.Any("error", err))
		}
	}()

	ref, err := s.createReference(ctx, intent)
	if err != nil {
		// Order creation rejected: back to Ready so the user can retry
		// without losing their edits. References are never reused, so the
		// next submit starts clean.
		if _, ferr := s.machine.fire(evSubmitRejected); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}

	s.mu.Lock()
	s.reference = ref
	s.mu.Unlock()

	if _, err := s.machine.fire(evOrderCreated); err != nil {
		return err
	}

	cfg, err := gateway.BuildCheckoutConfig(s.deps.GatewayConfig, ref, quote.Amount.Amount, quote.Amount.Currency, gateway.Prefill{
		Name:    intent.Contact.Name,
		Email:   intent.Email,
		Contact: intent.Contact.PhoneNumber,
	})
	if err != nil {
		s.fail(err)
		return err
	}

	result, err := s.deps.Gateway.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, gateway.ErrCheckoutDismissed) {
			_, _ = s.machine.fire(evCancel)
			return err
		}
		s.fail(err)
		return err
	}

	if err := gateway.VerifyResult(s.deps.GatewayConfig.Secret, result); err != nil {
		s.fail(err)
		return err
	}

	if _, err := s.machine.fire(evProviderSuccess); err != nil {
		return err
	}

	return s.verifyAndCommit(ctx, intent, ref, result)
}

func (s *Session) createReference(ctx context.Context, intent Intent) (gateway.Reference, error) {
	if intent.Upgrade {
		resp, err := s.deps.Backend.UpgradeCheckout(ctx, atlas.UpgradeCheckoutRequest{
			Email:        intent.Email,
			Contact:      intent.Contact,
			NewPlanCode:  intent.PlanCode,
			BillingCycle: string(intent.BillingCycle),
		})
		if err != nil {
			return gateway.Reference{}, err
		}
		return gateway.Reference{Kind: gateway.ReferenceSubscription, ID: resp.SubscriptionID}, nil
	}

	resp, err := s.deps.Backend.CreateCheckout(ctx, atlas.CheckoutRequest{
		PlanCode:     intent.PlanCode,
		Email:        intent.Email,
		BillingCycle: string(intent.BillingCycle),
		IsRecurring:  !s.quoteIsTrial(),
		Contact:      intent.Contact,
	})
	if err != nil {
		return gateway.Reference{}, err
	}
	if resp.IsRecurring {
		return gateway.Reference{Kind: gateway.ReferenceSubscription, ID: resp.SubscriptionID}, nil
	}
	return gateway.Reference{Kind: gateway.ReferenceOrder, ID: resp.OrderID}, nil
}

func (s *Session) quoteIsTrial() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote.Trial
}

// verifyAndCommit confirms the attempt against the backend and, on success,
// commits activation exactly once.
func (s *Session) verifyAndCommit(ctx context.Context, intent Intent, ref gateway.Reference, result *gateway.CheckoutResult) error {
	subscriptionID := result.SubscriptionID

	if ref.IsRecurring() {
		pollCtx, cancel := context.WithCancel(ctx)
		s.mu.Lock()
		s.pollCancel = cancel
		s.mu.Unlock()
		defer func() {
			cancel()
			s.mu.Lock()
			s.pollCancel = nil
			s.mu.Unlock()
		}()

		id, err := s.deps.Verifier.AwaitSubscription(pollCtx)
		if err != nil {
			// A webhook confirmation may have raced the poll loop and
			// cancelled it after completing the session.
			if s.machine.state() == StateSucceeded {
				return nil
			}
			s.failVerify(err)
			return err
		}
		if id != "" {
			subscriptionID = id
		}
	} else {
		if err := s.deps.Verifier.VerifyPayment(ctx, result.PaymentID); err != nil {
			s.failVerify(err)
			return err
		}
	}

	s.complete(ctx, intent, result.PaymentID, subscriptionID)
	return nil
}

// complete is the single success funnel: the Submit path and webhook events
// both land here, and the machine plus the committed latch guarantee
// at-most-once activation.
func (s *Session) complete(ctx context.Context, intent Intent, paymentID, subscriptionID string) {
	if _, err := s.machine.fire(evVerified); err != nil {
		// Already completed by the other confirmation path.
		return
	}

	s.mu.Lock()
	if s.committed {
		s.mu.Unlock()
		return
	}
	s.committed = true
	cancel := s.pollCancel
	s.pollCancel = nil
	s.mu.Unlock()

	// The other confirmation path may still be polling; stop it.
	if cancel != nil {
		cancel()
	}

	referenceID := subscriptionID
	if referenceID == "" {
		referenceID = paymentID
	}

	if err := s.deps.Committer.Commit(ctx, activation.Activation{
		Email:          intent.Email,
		ReferenceID:    referenceID,
		SubscriptionID: subscriptionID,
		PriorBalance:   intent.PriorBalance,
		Upgrade:        intent.Upgrade,
	}); err != nil {
		// Payment is verified; activation is backend-repairable. Proceed
		// optimistically and leave the trail for support.
		s.deps.Logger.ErrorContext(ctx, "activation commit failed",
			slog.String("email", intent.Email),
			slog.String("reference_id", referenceID),
			slog.Any("error", err))
	}

	if err := s.deps.Store.Delete(ctx, intent.SessionID); err != nil {
		s.deps.Logger.WarnContext(ctx, "intent cleanup failed",
			slog.String("session_id", intent.SessionID), slog.Any("error", err))
	}
}

// HandleEvent implements gateway.EventSink. A captured-payment or
// activated-subscription event for this session's in-flight reference
// completes verification; everything else is ignored. Duplicate deliveries
// and webhook-vs-poll races collapse into no-ops inside complete.
func (s *Session) HandleEvent(ctx context.Context, event gateway.Event) error {
	s.mu.Lock()
	intent := s.intent
	ref := s.reference
	s.mu.Unlock()

	switch event.Type {
	case gateway.EventPaymentCaptured:
		if ref.Kind == gateway.ReferenceOrder && (event.OrderID == "" || event.OrderID == ref.ID) {
			s.complete(ctx, intent, event.PaymentID, "")
		}
	case gateway.EventSubscriptionActivated, gateway.EventSubscriptionCharged:
		if ref.IsRecurring() && (event.SubscriptionID == "" || event.SubscriptionID == ref.ID) {
			s.complete(ctx, intent, event.PaymentID, event.SubscriptionID)
		}
	case gateway.EventPaymentFailed:
		s.fail(&gateway.CheckoutError{Code: "payment_failed", Description: event.Status})
	}
	return nil
}

// Retry moves a failed session back to Ready. The next submit obtains a
// fresh provider reference; nothing from the failed attempt is reused.
func (s *Session) Retry() error {
	if _, err := s.machine.fire(evRetry); err != nil {
		return err
	}
	s.mu.Lock()
	s.failureMsg = ""
	s.mu.Unlock()
	return nil
}

// Cancel abandons the session. Legal from Ready and AwaitingProvider; it
// stops any in-flight polling and issues no backend mutations.
func (s *Session) Cancel(ctx context.Context) error {
	if s.machine.state().Terminal() {
		return ErrAlreadyFinished
	}
	if _, err := s.machine.fire(evCancel); err != nil {
		return err
	}

	s.mu.Lock()
	cancel := s.pollCancel
	s.pollCancel = nil
	intent := s.intent
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if intent.SessionID != "" {
		if err := s.deps.Store.Delete(ctx, intent.SessionID); err != nil {
			s.deps.Logger.WarnContext(ctx, "intent cleanup failed",
				slog.String("session_id", intent.SessionID), slog.Any("error", err))
		}
	}
	return nil
}

// FailureMessage returns the user-facing wording for the last failed
// attempt, empty outside the Failed state. Provider failures carry the
// provider's own description verbatim; verification failures carry
// ContactSupportMessage, which never asserts the payment definitely failed.
func (s *Session) FailureMessage() string {
	if s.machine.state() != StateFailed {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failureMsg
}

func (s *Session) fail(err error) {
	if _, ferr := s.machine.fire(evProviderFailure); ferr != nil {
		return
	}

	msg := err.Error()
	var ce *gateway.CheckoutError
	if errors.As(err, &ce) && ce.Description != "" {
		msg = ce.Description
	}
	s.mu.Lock()
	s.failureMsg = msg
	s.mu.Unlock()

	s.deps.Logger.Error("checkout attempt failed", slog.Any("error", err))
}

func (s *Session) failVerify(err error) {
	if _, ferr := s.machine.fire(evVerifyFailed); ferr != nil {
		return
	}

	// The charge may have gone through even though confirmation did not
	// settle; the surfaced message must never claim definite failure.
	s.mu.Lock()
	s.failureMsg = ContactSupportMessage
	s.mu.Unlock()

	s.deps.Logger.Error("checkout verification failed", slog.Any("error", err))
}
