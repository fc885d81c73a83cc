package checkout

import "sync"

// State is the checkout session lifecycle state.
type State string

const (
	StateLoading          State = "loading"
	StateReady            State = "ready"
	StateSubmitting       State = "submitting"
	StateAwaitingProvider State = "awaiting_provider"
	StateVerifying        State = "verifying"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
	StateCancelled        State = "cancelled"
)

// Terminal reports whether the state ends the attempt. Failed is not
// terminal: a retry transitions back to Ready.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateCancelled
}

type sessionEvent string

const (
	evLoaded          sessionEvent = "loaded"
	evSubmit          sessionEvent = "submit"
	evSubmitRejected  sessionEvent = "submit_rejected"
	evOrderCreated    sessionEvent = "order_created"
	evProviderSuccess sessionEvent = "provider_success"
	evProviderFailure sessionEvent = "provider_failure"
	evVerified        sessionEvent = "verified"
	evVerifyFailed    sessionEvent = "verify_failed"
	evRetry           sessionEvent = "retry"
	evCancel          sessionEvent = "cancel"
)

// machine is a fixed-topology state machine for one checkout attempt.
// The nested map gives O(1) transition lookups; firing an event with no
// transition from the current state returns *InvalidTransitionError and
// leaves the state unchanged, which is what makes re-entrant confirmation
// calls no-ops.
type machine struct {
	mu      sync.Mutex
	current State
}

var sessionTransitions = map[State]map[sessionEvent]State{
	StateLoading: {
		evLoaded: StateReady,
	},
	StateReady: {
		evSubmit: StateSubmitting,
		evCancel: StateCancelled,
	},
	StateSubmitting: {
		evOrderCreated:    StateAwaitingProvider,
		evSubmitRejected:  StateReady,
		evProviderFailure: StateFailed,
	},
	StateAwaitingProvider: {
		evProviderSuccess: StateVerifying,
		evProviderFailure: StateFailed,
		evCancel:          StateCancelled,
	},
	StateVerifying: {
		evVerified:     StateSucceeded,
		evVerifyFailed: StateFailed,
		evCancel:       StateCancelled,
	},
	StateFailed: {
		evRetry: StateReady,
	},
}

func newMachine() *machine {
	return &machine{current: StateLoading}
}

func (m *machine) state() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// fire applies an event, returning the new state. The zero-value error path
// is the common case; *InvalidTransitionError signals "already handled or
// not legal here" and leaves the state untouched.
func (m *machine) fire(ev sessionEvent) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := sessionTransitions[m.current][ev]
	if !ok {
		return m.current, &InvalidTransitionError{From: m.current, Event: string(ev)}
	}
	m.current = next
	return next, nil
}
