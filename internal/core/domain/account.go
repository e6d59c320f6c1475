package domain

import "github.com/shopspring/decimal"

// TransactionDetails is the per-transaction state an account keeps so that
// later dispute lifecycle events can reference the original amount. Entries
// are created when a deposit or withdrawal is applied and are never deleted.
type TransactionDetails struct {
	Amount   decimal.Decimal
	Disputed bool
}

// NewTransactionDetails creates an undisputed details entry.
func NewTransactionDetails(amount decimal.Decimal) *TransactionDetails {
	return &TransactionDetails{Amount: amount}
}

// Account is the mutable ledger state for a single client. Available may go
// negative through a dispute on an already-withdrawn amount; Held always
// equals the sum of amounts over currently disputed transactions. Locked is
// terminal once set.
type Account struct {
	ClientID     uint16
	Available    decimal.Decimal
	Held         decimal.Decimal
	Locked       bool
	Transactions map[uint32]*TransactionDetails
}

// NewAccount creates a zero-balance, unlocked account for the client.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:     clientID,
		Available:    decimal.Zero,
		Held:         decimal.Zero,
		Transactions: make(map[uint32]*TransactionDetails),
	}
}

// Total returns the derived total balance.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Snapshot returns a point-in-time value copy of the reportable state.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}

// AccountSnapshot is the externally rendered view of an account.
type AccountSnapshot struct {
	ClientID  uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}
