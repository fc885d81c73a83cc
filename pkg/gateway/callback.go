package gateway

import (
	"context"
	"sync"
)

// CallbackGateway adapts the provider widget's callback contract to the
// CheckoutGateway interface. Open blocks until exactly one of
// HandleSuccess, HandleFailure or Dismiss is invoked by the embedding
// surface, or until the context is cancelled.
//
// One CallbackGateway serves one attempt at a time; Open must not be
// called concurrently with itself.
type CallbackGateway struct {
	mu   sync.Mutex
	done chan outcome
}

type outcome struct {
	result *CheckoutResult
	err    error
}

// NewCallbackGateway creates a gateway awaiting provider callbacks.
func NewCallbackGateway() *CallbackGateway {
	return &CallbackGateway{}
}

// Open waits for the provider outcome for the current attempt.
func (g *CallbackGateway) Open(ctx context.Context, cfg CheckoutConfig) (*CheckoutResult, error) {
	g.mu.Lock()
	g.done = make(chan outcome, 1)
	done := g.done
	g.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.result, out.err
	}
}

// HandleSuccess delivers the provider's success callback payload.
func (g *CallbackGateway) HandleSuccess(result *CheckoutResult) {
	g.deliver(outcome{result: result})
}

// HandleFailure delivers the provider's failure callback. The description
// is surfaced to the user verbatim.
func (g *CallbackGateway) HandleFailure(code, description string) {
	g.deliver(outcome{err: &CheckoutError{Code: code, Description: description}})
}

// Dismiss reports that the user closed the widget without paying.
func (g *CallbackGateway) Dismiss() {
	g.deliver(outcome{err: ErrCheckoutDismissed})
}

func (g *CallbackGateway) deliver(out outcome) {
	g.mu.Lock()
	done := g.done
	g.done = nil
	g.mu.Unlock()

	if done == nil {
		// No attempt awaiting an outcome; late or duplicate callback.
		return
	}
	done <- out
}
