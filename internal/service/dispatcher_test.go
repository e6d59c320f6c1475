package service

import (
	"context"
	"fmt"
	"testing"

	"transaction-engine/internal/core/domain"
	"transaction-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_MultipleClients(t *testing.T) {
	records := []domain.TransactionRecord{
		deposit(1, 1, "10.0"),
		deposit(2, 2, "10.0"),
		deposit(1, 3, "10.0"),
		deposit(5, 4, "10.0"),
		deposit(4, 5, "10.0"),
		withdrawal(1, 6, "20.0"),
		deposit(6, 7, "10.0"),
		deposit(3, 8, "20.0"),
		dispute(2, 2),
		deposit(3, 9, "5.0"),
		deposit(2, 10, "10.0"),
		resolve(2, 2),
		dispute(3, 8),
		deposit(7, 11, "15.0"),
		dispute(7, 11),
		chargeback(7, 11),
		deposit(7, 12, "20.0"),
	}

	for _, workers := range []int{1, 4, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			e := NewTransactionEngine(zerolog.Nop())
			d := NewDispatcher(e, workers, zerolog.Nop())

			require.NoError(t, d.Run(context.Background(), &sliceSource{records: records}))

			assertBalances(t, snapshotFor(t, e, 1), "0", "0", false)
			assertBalances(t, snapshotFor(t, e, 2), "20", "0", false)
			assertBalances(t, snapshotFor(t, e, 3), "5", "20", false)
			assertBalances(t, snapshotFor(t, e, 4), "10", "0", false)
			assertBalances(t, snapshotFor(t, e, 5), "10", "0", false)
			assertBalances(t, snapshotFor(t, e, 6), "10", "0", false)
			assertBalances(t, snapshotFor(t, e, 7), "0", "0", true)
		})
	}
}

func TestDispatcher_PreservesPerClientOrder(t *testing.T) {
	// Interleave order-sensitive sequences for several clients: each client
	// deposits 1.0 a hundred times, then withdraws the full 100.0. Any
	// reordering of a client's records leaves a non-zero balance.
	var records []domain.TransactionRecord
	tx := uint32(1)
	for i := 0; i < 100; i++ {
		for client := uint16(1); client <= 8; client++ {
			records = append(records, deposit(client, tx, "1.0"))
			tx++
		}
	}
	for client := uint16(1); client <= 8; client++ {
		records = append(records, withdrawal(client, tx, "100.0"))
		tx++
	}

	e := NewTransactionEngine(zerolog.Nop())
	d := NewDispatcher(e, 4, zerolog.Nop())
	require.NoError(t, d.Run(context.Background(), &sliceSource{records: records}))

	for client := uint16(1); client <= 8; client++ {
		assertBalances(t, snapshotFor(t, e, client), "0", "0", false)
	}
}

func TestDispatcher_FailsFastOnInvalidRecord(t *testing.T) {
	e := NewTransactionEngine(zerolog.Nop())
	d := NewDispatcher(e, 4, zerolog.Nop())

	src := &sliceSource{records: []domain.TransactionRecord{
		deposit(1, 1, "10.0"),
		rec(domain.TransactionTypeDispute, 1, 1, "5.0"), // invalid: dispute with amount
	}}

	err := d.Run(context.Background(), src)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STRUCT_001", appErr.Code)
}

func TestDispatcher_WrapsDecodeError(t *testing.T) {
	e := NewTransactionEngine(zerolog.Nop())
	d := NewDispatcher(e, 2, zerolog.Nop())

	src := &sliceSource{
		records: []domain.TransactionRecord{deposit(1, 1, "10.0")},
		err:     fmt.Errorf("bad row"),
	}

	err := d.Run(context.Background(), src)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STRUCT_002", appErr.Code)
}

func TestDispatcher_ClampsWorkerCount(t *testing.T) {
	e := NewTransactionEngine(zerolog.Nop())
	d := NewDispatcher(e, 0, zerolog.Nop())

	require.NoError(t, d.Run(context.Background(), &sliceSource{records: []domain.TransactionRecord{
		deposit(9, 1, "3.0"),
	}}))
	assertBalances(t, snapshotFor(t, e, 9), "3", "0", false)
}
