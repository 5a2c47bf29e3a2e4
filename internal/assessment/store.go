package assessment

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/aid-linh-pnp/test-question/internal/errors"
)

// Store holds in-flight runs and serializes access per run: a runner is
// single-writer, so every mutation goes through With under the run's own lock.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*lockedRun
}

type lockedRun struct {
	mu     sync.Mutex
	runner *Runner
}

// NewStore creates an empty run store.
func NewStore() *Store {
	return &Store{runs: make(map[string]*lockedRun)}
}

// NewRunID generates a random run identifier.
func NewRunID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Put registers a runner under its ID.
func (s *Store) Put(r *Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = &lockedRun{runner: r}
}

// With runs fn against the identified runner while holding its lock, so at
// most one mutation is in flight per run.
func (s *Store) With(id string, fn func(*Runner) error) error {
	s.mu.RLock()
	lr, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return errors.NewNotFoundError("assessment", id)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	return fn(lr.runner)
}

// Delete removes a run from the store.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

// Len returns the number of in-flight runs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
