package checkoutkit

import (
	"context"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/checkout"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	"github.com/dmitrymomot/checkoutkit/pkg/pricing"
)

// Flow is one customer's checkout journey. It owns a session and the
// callback gateway bridging the provider widget, and implements
// gateway.EventSink so provider webhooks can confirm the attempt while the
// poll loop is still waiting.
type Flow struct {
	kit     *Kit
	gateway *gateway.CallbackGateway
	session *checkout.Session
}

// NewFlow creates a flow with a fresh session and callback gateway.
func (k *Kit) NewFlow() *Flow {
	gw := gateway.NewCallbackGateway()
	session := checkout.NewSession(checkout.Deps{
		Catalog:       k.catalog,
		Pricing:       k.pricing,
		Eligibility:   k.resolver,
		Backend:       k.client,
		Gateway:       gw,
		GatewayConfig: k.cfg.Gateway,
		Verifier:      k.verifier,
		Committer:     k.committer,
		Store:         k.store,
		Logger:        k.log.With(logger.Component("checkout")),
	})
	return &Flow{kit: k, gateway: gw, session: session}
}

// Start loads the session for the given identity and plan, capturing the
// prior credit balance on the upgrade path, and moves it to Ready.
func (f *Flow) Start(ctx context.Context, email, planCode string, cycle catalog.BillingCycle, upgrade bool) error {
	return f.session.Load(ctx, email, planCode, cycle, upgrade)
}

// Resume restores a persisted session after a page reload.
func (f *Flow) Resume(ctx context.Context, sessionID string) error {
	return f.session.Resume(ctx, sessionID)
}

// Session exposes the underlying checkout session for billing-detail edits.
func (f *Flow) Session() *checkout.Session {
	return f.session
}

// State returns the current session state.
func (f *Flow) State() checkout.State {
	return f.session.State()
}

// Quote returns the current price quote.
func (f *Flow) Quote() pricing.Quote {
	return f.session.Quote()
}

// Submit runs the attempt end to end. It blocks until the provider callback
// arrives and verification settles, so run it on its own goroutine when the
// caller drives provider callbacks from the same thread of control.
func (f *Flow) Submit(ctx context.Context) error {
	return f.session.Submit(ctx)
}

// HandleProviderSuccess delivers the provider widget's success payload.
func (f *Flow) HandleProviderSuccess(result *gateway.CheckoutResult) {
	f.gateway.HandleSuccess(result)
}

// HandleProviderFailure delivers the provider widget's failure callback.
func (f *Flow) HandleProviderFailure(code, description string) {
	f.gateway.HandleFailure(code, description)
}

// DismissProvider reports that the user closed the widget without paying.
func (f *Flow) DismissProvider() {
	f.gateway.Dismiss()
}

// HandleEvent implements gateway.EventSink, funneling webhook confirmations
// into the session. Duplicate deliveries collapse into no-ops.
func (f *Flow) HandleEvent(ctx context.Context, event gateway.Event) error {
	return f.session.HandleEvent(ctx, event)
}

// FailureMessage returns the user-facing wording for a failed attempt:
// the provider's own description for widget failures, or the
// contact-support message when verification did not settle.
func (f *Flow) FailureMessage() string {
	return f.session.FailureMessage()
}

// Retry moves a failed session back to Ready for a fresh attempt.
func (f *Flow) Retry() error {
	return f.session.Retry()
}

// Cancel abandons the journey without any backend mutations.
func (f *Flow) Cancel(ctx context.Context) error {
	return f.session.Cancel(ctx)
}
