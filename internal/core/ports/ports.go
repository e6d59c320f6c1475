package ports

import (
	"transaction-engine/internal/core/domain"
)

// RecordSource is a pull iterator over decoded transaction records. Next
// returns io.EOF once the stream is exhausted; any other error is a decode
// failure and aborts the run.
type RecordSource interface {
	Next() (domain.TransactionRecord, error)
}

// SnapshotWriter renders the final account snapshots to an external sink.
type SnapshotWriter interface {
	WriteSnapshots(snapshots []domain.AccountSnapshot) error
}

// Engine applies transaction records to per-client accounts and exposes a
// point-in-time view of the result.
type Engine interface {
	// Apply runs one record through the transition state machine. Safe for
	// concurrent use; records for the same client must be submitted in order.
	Apply(record domain.TransactionRecord) error
	// Process drains the source in arrival order, failing fast on the first
	// decode or validity error.
	Process(src RecordSource) error
	// Accounts returns an unordered snapshot of every known account. Call
	// only after all processing has finished.
	Accounts() []domain.AccountSnapshot
}
