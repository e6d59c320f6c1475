package service

import (
	"context"
	"errors"
	"io"

	"transaction-engine/internal/core/domain"
	"transaction-engine/internal/core/ports"
	"transaction-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dispatcher fans a record stream out to a fixed pool of workers, sharding
// by client id so all records for one client land on the same worker and are
// applied in arrival order. Records for different clients may be applied
// concurrently; per-account locking in the engine keeps that safe.
type Dispatcher struct {
	engine  *TransactionEngine
	workers int
	log     zerolog.Logger
}

// NewDispatcher creates a dispatcher over the engine. Worker counts below
// one are clamped to one, which degenerates to serial processing.
func NewDispatcher(engine *TransactionEngine, workers int, log zerolog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{engine: engine, workers: workers, log: log}
}

// Run drains the source, validating each record at intake and failing fast
// on the first decode or validity error. It returns once every dispatched
// record has been applied or an error cancelled the run.
func (d *Dispatcher) Run(ctx context.Context, src ports.RecordSource) error {
	g, ctx := errgroup.WithContext(ctx)

	shards := make([]chan domain.TransactionRecord, d.workers)
	for i := range shards {
		shards[i] = make(chan domain.TransactionRecord, 64)
	}

	for i := range shards {
		shard := shards[i]
		g.Go(func() error {
			for record := range shard {
				if err := d.engine.Apply(record); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, shard := range shards {
				close(shard)
			}
		}()

		intake := 0
		for {
			record, err := src.Next()
			if errors.Is(err, io.EOF) {
				d.log.Debug().Int("records", intake).Int("workers", d.workers).Msg("intake finished")
				return nil
			}
			if err != nil {
				return asStructural(err)
			}
			if !record.IsValid() {
				return apperror.ErrInvalidRecord(record.ClientID, record.TransactionID)
			}

			shard := int(record.ClientID) % d.workers
			select {
			case shards[shard] <- record:
				intake++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	return g.Wait()
}
