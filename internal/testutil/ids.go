package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator generates predictable run IDs for tests.
//
// IDs are "{prefix}-0001", "{prefix}-0002", ... so golden output and store
// assertions do not depend on time-based UUIDs.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix uses "run".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
