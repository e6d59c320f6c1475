package service

import (
	"errors"
	"io"

	"transaction-engine/internal/core/domain"
	"transaction-engine/internal/core/ports"
	"transaction-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransactionEngine applies transaction records to per-client accounts.
//
// A structurally invalid record is the only hard failure: it aborts the run.
// Business rule violations (insufficient funds, unmatched or repeated
// dispute references, events against a locked account) are expected partner
// errors and are consumed silently, leaving state untouched.
type TransactionEngine struct {
	registry *AccountRegistry
	log      zerolog.Logger
}

var _ ports.Engine = (*TransactionEngine)(nil)

// NewTransactionEngine creates an engine with an empty account registry.
func NewTransactionEngine(log zerolog.Logger) *TransactionEngine {
	return &TransactionEngine{
		registry: NewAccountRegistry(),
		log:      log,
	}
}

// Apply runs one record through the transition state machine. It locks only
// the target account, so records for distinct clients can be applied
// concurrently. Records for the same client must be submitted in order.
func (e *TransactionEngine) Apply(record domain.TransactionRecord) error {
	if !record.IsValid() {
		return apperror.ErrInvalidRecord(record.ClientID, record.TransactionID)
	}

	handle := e.registry.GetOrCreate(record.ClientID)
	handle.Lock()
	defer handle.Unlock()

	acc := handle.Account
	if acc.Locked {
		e.log.Debug().
			Uint16("client", record.ClientID).
			Uint32("tx", record.TransactionID).
			Msg("account locked, record ignored")
		return nil
	}

	// Monetary transactions are recorded before the type switch so the id is
	// reserved for dispute lookups even if a withdrawal is rejected below.
	if record.Type.CarriesAmount() {
		acc.Transactions[record.TransactionID] = domain.NewTransactionDetails(*record.Amount)
	}

	switch record.Type {
	case domain.TransactionTypeDeposit:
		acc.Available = acc.Available.Add(*record.Amount)

	case domain.TransactionTypeWithdrawal:
		if acc.Available.Sub(*record.Amount).IsNegative() {
			e.log.Debug().
				Uint16("client", record.ClientID).
				Uint32("tx", record.TransactionID).
				Msg("insufficient funds, withdrawal ignored")
			return nil
		}
		acc.Available = acc.Available.Sub(*record.Amount)

	case domain.TransactionTypeDispute:
		details, ok := acc.Transactions[record.TransactionID]
		if !ok || details.Disputed {
			// Unknown reference or repeat dispute: partner-side error.
			return nil
		}
		details.Disputed = true
		acc.Available = acc.Available.Sub(details.Amount)
		acc.Held = acc.Held.Add(details.Amount)

	case domain.TransactionTypeResolve:
		details, ok := acc.Transactions[record.TransactionID]
		if !ok || !details.Disputed {
			return nil
		}
		details.Disputed = false
		acc.Available = acc.Available.Add(details.Amount)
		acc.Held = acc.Held.Sub(details.Amount)

	case domain.TransactionTypeChargeback:
		details, ok := acc.Transactions[record.TransactionID]
		if !ok || !details.Disputed {
			return nil
		}
		details.Disputed = false
		acc.Held = acc.Held.Sub(details.Amount)
		acc.Locked = true
		e.log.Info().
			Uint16("client", record.ClientID).
			Uint32("tx", record.TransactionID).
			Msg("chargeback applied, account locked")
	}

	return nil
}

// Process drains the source in arrival order, failing fast on the first
// decode or validity error. Mutations applied before the failure stand.
func (e *TransactionEngine) Process(src ports.RecordSource) error {
	processed := 0
	for {
		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			e.log.Info().Int("records", processed).Msg("input stream drained")
			return nil
		}
		if err != nil {
			return asStructural(err)
		}
		if err := e.Apply(record); err != nil {
			return err
		}
		processed++
	}
}

// Accounts returns an unordered snapshot of every known account. It must
// only be called after the input stream has been fully drained.
func (e *TransactionEngine) Accounts() []domain.AccountSnapshot {
	return e.registry.Snapshot()
}

// asStructural keeps an already-classified error and wraps anything else as
// a malformed-input failure.
func asStructural(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrMalformedInput(err)
}
