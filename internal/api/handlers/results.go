package handlers

import (
	"sync"
	"time"
	"transit-reachability-service/internal/services"
)

// ResultStore holds the most recent run. Readers never see a partially
// replaced result.
type ResultStore struct {
	mu         sync.RWMutex
	result     *services.RunResult
	computedAt time.Time
}

func (s *ResultStore) Store(result *services.RunResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.computedAt = at
}

// Latest returns the current result, or nil before the first run.
func (s *ResultStore) Latest() (*services.RunResult, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.computedAt
}
