package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"transaction-engine/internal/core/domain"
	"transaction-engine/internal/core/ports"
	"transaction-engine/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Reader decodes transaction records from a delimited text stream with the
// layout `type,client,tx,amount`. Rows are flexible: dispute lifecycle rows
// may omit the amount column entirely or leave it empty. Surrounding
// whitespace is trimmed. Any undecodable row is a structural failure.
type Reader struct {
	csv  *csv.Reader
	line int
}

var _ ports.RecordSource = (*Reader)(nil)

// NewReader wraps r in a record source.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Next returns the next decoded record, io.EOF at end of stream, or a
// STRUCT error for an undecodable row.
func (r *Reader) Next() (domain.TransactionRecord, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return domain.TransactionRecord{}, io.EOF
		}
		if err != nil {
			return domain.TransactionRecord{}, apperror.ErrMalformedInput(err)
		}
		r.line++

		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}

		// Skip the header row.
		if r.line == 1 && len(row) > 0 && strings.EqualFold(row[0], "type") {
			continue
		}

		record, err := r.parseRow(row)
		if err != nil {
			return domain.TransactionRecord{}, apperror.ErrMalformedInput(
				fmt.Errorf("line %d: %w", r.line, err))
		}
		return record, nil
	}
}

func (r *Reader) parseRow(row []string) (domain.TransactionRecord, error) {
	if len(row) < 3 {
		return domain.TransactionRecord{}, fmt.Errorf("expected at least 3 fields, got %d", len(row))
	}

	txType, err := domain.ParseTransactionType(row[0])
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	clientID, err := strconv.ParseUint(row[1], 10, 16)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("invalid client id %q: %w", row[1], err)
	}

	transactionID, err := strconv.ParseUint(row[2], 10, 32)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("invalid transaction id %q: %w", row[2], err)
	}

	record := domain.TransactionRecord{
		Type:          txType,
		ClientID:      uint16(clientID),
		TransactionID: uint32(transactionID),
	}

	if len(row) > 3 && row[3] != "" {
		amount, err := decimal.NewFromString(row[3])
		if err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("invalid amount %q: %w", row[3], err)
		}
		record.Amount = &amount
	}

	return record, nil
}
