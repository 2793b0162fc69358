package budget

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	km := newKeyedMutex()

	keys := []uuid.UUID{uuid.New(), uuid.New()}
	counts := map[uuid.UUID]*int{keys[0]: new(int), keys[1]: new(int)}

	const rounds = 50

	var wg sync.WaitGroup

	for i := 0; i < rounds; i++ {
		for _, key := range keys {
			wg.Add(1)

			go func(key uuid.UUID) {
				defer wg.Done()

				unlock := km.lock(key)
				defer unlock()

				*counts[key]++
			}(key)
		}
	}

	wg.Wait()

	for _, key := range keys {
		assert.Equal(t, rounds, *counts[key])
	}
}

func TestKeyedMutex_DropsIdleEntries(t *testing.T) {
	km := newKeyedMutex()

	key := uuid.New()

	unlock := km.lock(key)

	km.mu.Lock()
	require.Len(t, km.locks, 1)
	km.mu.Unlock()

	unlock()

	// A second holder keeps the entry alive until both are done.
	first := km.lock(key)

	done := make(chan struct{})

	go func() {
		second := km.lock(key)
		second()
		close(done)
	}()

	first()
	<-done

	km.mu.Lock()
	assert.Empty(t, km.locks)
	km.mu.Unlock()
}
