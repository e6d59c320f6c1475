package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of transaction event.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeDispute    TransactionType = "dispute"
	TransactionTypeResolve    TransactionType = "resolve"
	TransactionTypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType maps a wire value to a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeDispute, TransactionTypeResolve, TransactionTypeChargeback:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// CarriesAmount returns true for the monetary transaction types.
func (t TransactionType) CarriesAmount() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// TransactionRecord is a single decoded transaction event. It is constructed
// by an input adapter, consumed once by the engine, then discarded.
type TransactionRecord struct {
	Type          TransactionType
	ClientID      uint16
	TransactionID uint32
	Amount        *decimal.Decimal // nil when the event carries no amount
}

// IsValid reports whether the record satisfies the structural invariant:
// deposits and withdrawals must carry an amount, dispute lifecycle events
// must not. Anything else is rejected before it reaches the engine.
func (r TransactionRecord) IsValid() bool {
	if r.Type.CarriesAmount() {
		return r.Amount != nil
	}
	switch r.Type {
	case TransactionTypeDispute, TransactionTypeResolve, TransactionTypeChargeback:
		return r.Amount == nil
	}
	return false
}
