package csvio

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"transaction-engine/internal/core/domain"
	"transaction-engine/internal/core/ports"
)

// Writer renders account snapshots as delimited text with the layout
// `client,available,held,total,locked`, rows ordered by client id. The
// ordering is a presentation concern of this sink; the engine itself returns
// an unordered collection.
type Writer struct {
	w io.Writer
}

var _ ports.SnapshotWriter = (*Writer)(nil)

// NewWriter wraps w in a snapshot sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSnapshots writes the header and one row per account.
func (w *Writer) WriteSnapshots(snapshots []domain.AccountSnapshot) error {
	sorted := make([]domain.AccountSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w.w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, s := range sorted {
		row := []string{
			strconv.FormatUint(uint64(s.ClientID), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
