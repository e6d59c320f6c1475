package service

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate_ReturnsSameHandle(t *testing.T) {
	r := NewAccountRegistry()

	h1 := r.GetOrCreate(1)
	h2 := r.GetOrCreate(1)

	require.NotNil(t, h1)
	assert.Same(t, h1, h2)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, uint16(1), h1.Account.ClientID)
	assert.True(t, h1.Account.Available.IsZero())
	assert.False(t, h1.Account.Locked)
}

func TestRegistry_GetOrCreate_ConcurrentSameClient(t *testing.T) {
	r := NewAccountRegistry()

	const goroutines = 64
	handles := make([]*AccountHandle, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			handles[i] = r.GetOrCreate(42)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, r.Len(), "exactly one account must be created")
	for i := 1; i < goroutines; i++ {
		assert.Same(t, handles[0], handles[i])
	}
}

func TestRegistry_GetOrCreate_ConcurrentDistinctClients(t *testing.T) {
	r := NewAccountRegistry()

	const clients = 200
	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func(i int) {
			defer wg.Done()
			h := r.GetOrCreate(uint16(i))
			h.Lock()
			h.Account.Available = h.Account.Available.Add(decimal.NewFromInt(1))
			h.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clients, r.Len())
}

func TestRegistry_Snapshot_CopiesState(t *testing.T) {
	r := NewAccountRegistry()

	h := r.GetOrCreate(5)
	h.Lock()
	h.Account.Available = decimal.RequireFromString("12.5")
	h.Account.Held = decimal.RequireFromString("2.5")
	h.Unlock()

	snaps := r.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, uint16(5), snaps[0].ClientID)
	assert.True(t, snaps[0].Available.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, snaps[0].Held.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, snaps[0].Total.Equal(decimal.RequireFromString("15")))

	// Mutating the account after the snapshot must not change the copy.
	h.Lock()
	h.Account.Available = decimal.Zero
	h.Unlock()
	assert.True(t, snaps[0].Available.Equal(decimal.RequireFromString("12.5")))
}

func TestRegistry_Snapshot_Empty(t *testing.T) {
	r := NewAccountRegistry()
	assert.Empty(t, r.Snapshot())
}
