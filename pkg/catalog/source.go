package catalog

import (
	"context"
	"sync"
)

type inMemSource struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewInMemSource returns an in-memory Source holding a copy of the given plans.
// Panics if no plans are provided so the catalog always has at least one plan.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) < 1 {
		panic("catalog: at least one plan is required")
	}

	plansCopy := make(map[string]Plan, len(plans))
	for _, plan := range plans {
		plansCopy[plan.Code] = plan
	}

	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all plans from memory.
// Copying prevents callers from modifying the source's internal state.
func (s *inMemSource) Load(ctx context.Context) (map[string]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plansCopy := make(map[string]Plan, len(s.plans))
	for code, plan := range s.plans {
		plansCopy[code] = plan
	}
	return plansCopy, nil
}
