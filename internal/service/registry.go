package service

import (
	"sync"

	"transaction-engine/internal/core/domain"
)

// AccountHandle couples an account with the mutex that guards it. The engine
// holds the mutex for the duration of a single transition, so distinct
// clients never contend with each other.
type AccountHandle struct {
	mu      sync.Mutex
	Account *domain.Account
}

// Lock acquires exclusive access to the account.
func (h *AccountHandle) Lock() { h.mu.Lock() }

// Unlock releases exclusive access to the account.
func (h *AccountHandle) Unlock() { h.mu.Unlock() }

// AccountRegistry is a concurrent map from client id to an independently
// lockable account. Entries are created lazily and never removed.
type AccountRegistry struct {
	mu       sync.RWMutex
	accounts map[uint16]*AccountHandle
}

// NewAccountRegistry creates an empty registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{accounts: make(map[uint16]*AccountHandle)}
}

// GetOrCreate returns the handle for the client, creating a zero-balance
// unlocked account on first reference. Concurrent calls for the same unseen
// client id yield the same single handle: creation is re-checked under the
// write lock.
func (r *AccountRegistry) GetOrCreate(clientID uint16) *AccountHandle {
	r.mu.RLock()
	h, ok := r.accounts[clientID]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.accounts[clientID]; ok {
		return h
	}
	h = &AccountHandle{Account: domain.NewAccount(clientID)}
	r.accounts[clientID] = h
	return h
}

// Len returns the number of known accounts.
func (r *AccountRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Snapshot takes a point-in-time copy of every account's reportable state,
// locking each entry while it is copied. It is the expensive whole-registry
// read and is meant to run after mutation traffic has finished.
func (r *AccountRegistry) Snapshot() []domain.AccountSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]domain.AccountSnapshot, 0, len(r.accounts))
	for _, h := range r.accounts {
		h.Lock()
		snapshots = append(snapshots, h.Account.Snapshot())
		h.Unlock()
	}
	return snapshots
}
