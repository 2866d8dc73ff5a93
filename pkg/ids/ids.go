// Package ids provides record identifier generation behind an interface so
// services can be exercised deterministically in tests.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique record identifiers.
type Generator interface {
	NewID() string
}

// UUIDGenerator is the production implementation.
type UUIDGenerator struct{}

// NewID returns a random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Sequence is a deterministic generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a sequential generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
