package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialIDGenerator_Sequence(t *testing.T) {
	gen := NewSequentialIDGenerator("test")

	assert.Equal(t, "test-0001", gen.Generate())
	assert.Equal(t, "test-0002", gen.Generate())
	assert.Equal(t, "test-0003", gen.Generate())
}

func TestSequentialIDGenerator_EmptyPrefixDefault(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "run-0001", gen.Generate())
}

func TestSequentialIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialIDGenerator("p")
	const goroutines = 20
	const perGoroutine = 50

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*perGoroutine)
}
