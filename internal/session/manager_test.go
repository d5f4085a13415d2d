package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateIdle, m.State(1))
	assert.False(t, m.InProgress(1))

	m.Begin(1, StateAwaitName)
	assert.Equal(t, StateAwaitName, m.State(1))
	assert.True(t, m.InProgress(1))

	m.SetPending(1, PendingName, "Budi")
	m.Advance(1, StateAwaitContact)
	assert.Equal(t, StateAwaitContact, m.State(1))

	name, ok := m.Pending(1, PendingName)
	assert.True(t, ok)
	assert.Equal(t, "Budi", name)

	m.Clear(1)
	assert.Equal(t, StateIdle, m.State(1))
	_, ok = m.Pending(1, PendingName)
	assert.False(t, ok)
}

func TestReentryOverwritesSession(t *testing.T) {
	m := NewManager()

	m.Begin(1, StateAwaitItemName)
	m.SetPending(1, PendingItem, "Snack")

	// Entering another dialogue replaces the session entirely; pending
	// answers from the old dialogue are gone.
	m.Begin(1, StateAwaitBudget)
	assert.Equal(t, StateAwaitBudget, m.State(1))
	_, ok := m.Pending(1, PendingItem)
	assert.False(t, ok)
}

func TestUsersAreIndependent(t *testing.T) {
	m := NewManager()

	m.Begin(1, StateAwaitBudget)
	m.Begin(2, StateAwaitAmount)

	assert.Equal(t, StateAwaitBudget, m.State(1))
	assert.Equal(t, StateAwaitAmount, m.State(2))

	m.Clear(1)
	assert.Equal(t, StateIdle, m.State(1))
	assert.Equal(t, StateAwaitAmount, m.State(2))
}

func TestAdvanceWithoutSessionIsNoop(t *testing.T) {
	m := NewManager()
	m.Advance(1, StateAwaitAmount)
	assert.Equal(t, StateIdle, m.State(1))
}

func TestGuardSerializesPerUser(t *testing.T) {
	m := NewManager()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
	)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := m.Guard(1)
			defer release()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
