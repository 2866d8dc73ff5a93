// Package store holds the canonical application-state document and accepts
// atomic, functional updates. A single logical writer (the active session) is
// assumed; the mutex only protects readers racing the sync goroutines.
package store

import (
	"sync"

	"github.com/docelar/docelar/internal/domain/models"
)

// Store owns the AppState document. Every mutation is expressed as "derive
// the next full document from the previous one". The store runs no triggers:
// callers recompute derived fields inline with the mutation.
type Store struct {
	mu       sync.RWMutex
	state    models.AppState
	onMutate func()
}

// New creates a store holding the empty skeleton document.
func New() *Store {
	return &Store{state: models.NewAppState()}
}

// OnMutate registers a hook invoked after every Update. The reconciliation
// service uses it to arm the debounced persist cycle.
func (s *Store) OnMutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = fn
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies fn atomically to a copy of the document and installs the
// result. The mutation hook fires after the new document is in place.
func (s *Store) Update(fn func(models.AppState) models.AppState) {
	s.mu.Lock()
	s.state = fn(s.state.Clone()).Normalized()
	hook := s.onMutate
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Replace installs a document wholesale without firing the mutation hook.
// Used for hydration at login and when applying a pulled remote document.
func (s *Store) Replace(state models.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Normalized()
}

// Reset clears the store back to the empty skeleton (logout).
func (s *Store) Reset() {
	s.Replace(models.NewAppState())
}
