// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"errors"
	"sync"
)

// ErrRunIDsExhausted is returned once every predetermined id has been used.
var ErrRunIDsExhausted = errors.New("fixed run ids exhausted")

// FixedRunIDs returns predetermined upgrade run ids in order.
//
// Tests use it to get stable run ids in stored rows and CLI output.
//
// Thread-safety: FixedRunIDs is safe for concurrent use via internal mutex.
type FixedRunIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedRunIDs("run-1", "run-2")
//	gen.Generate() // "run-1", nil
//	gen.Generate() // "run-2", nil
//	gen.Generate() // "", ErrRunIDsExhausted
func NewFixedRunIDs(ids ...string) *FixedRunIDs {
	return &FixedRunIDs{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedRunIDs) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		return "", ErrRunIDsExhausted
	}
	id := g.ids[g.idx]
	g.idx++
	return id, nil
}

// Remaining reports how many ids are left.
func (g *FixedRunIDs) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}
