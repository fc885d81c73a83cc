package checkout

import (
	"context"
	"sync"
)

// IntentStore persists checkout intents across page reloads. Its main job
// is keeping the captured prior balance alive: losing it mid-flow would
// silently forfeit the credit owed after an upgrade.
type IntentStore interface {
	// Save creates or replaces the intent for its session ID.
	Save(ctx context.Context, intent *Intent) error
	// Get retrieves an intent. Returns ErrIntentNotFound if absent.
	Get(ctx context.Context, sessionID string) (*Intent, error)
	// Delete removes an intent, e.g. on completion or cancellation.
	Delete(ctx context.Context, sessionID string) error
}

type memoryStore struct {
	mu      sync.RWMutex
	intents map[string]Intent
}

// NewMemoryStore returns an in-process IntentStore. Suitable for tests and
// single-instance deployments; intents do not survive a process restart.
func NewMemoryStore() IntentStore {
	return &memoryStore{intents: make(map[string]Intent)}
}

func (s *memoryStore) Save(ctx context.Context, intent *Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.SessionID] = *intent
	return nil
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*Intent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	intent, ok := s.intents[sessionID]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return &intent, nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, sessionID)
	return nil
}
