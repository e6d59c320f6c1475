package handler

import (
	"fmt"
	"io"
	"sort"

	"transaction-engine/internal/adapter/csvio"
	"transaction-engine/internal/adapter/http/dto"
	"transaction-engine/internal/core/domain"
	"transaction-engine/internal/service"
	"transaction-engine/pkg/apperror"
	"transaction-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BatchHandler processes one-shot transaction batches. Every request runs a
// fresh engine over the full batch, so the snapshot is only ever taken after
// the batch's stream is drained.
type BatchHandler struct {
	workers int
	log     zerolog.Logger
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(workers int, log zerolog.Logger) *BatchHandler {
	return &BatchHandler{workers: workers, log: log}
}

// ProcessBatch handles POST /api/v1/batches.
func (h *BatchHandler) ProcessBatch(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	records, err := toRecords(req.Transactions)
	if err != nil {
		response.Error(c, err)
		return
	}

	engine := service.NewTransactionEngine(h.log)
	dispatcher := service.NewDispatcher(engine, h.workers, h.log)
	if err := dispatcher.Run(c.Request.Context(), &sliceSource{records: records}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BatchResponse{
		BatchID:  uuid.New().String(),
		Records:  len(records),
		Accounts: toAccountResponses(engine.Accounts()),
	})
}

// ProcessCSVBatch handles POST /api/v1/batches/csv with a raw CSV body,
// mirroring the CLI's input contract.
func (h *BatchHandler) ProcessCSVBatch(c *gin.Context) {
	engine := service.NewTransactionEngine(h.log)
	src := csvio.NewReader(c.Request.Body)

	records := 0
	for {
		record, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := engine.Apply(record); err != nil {
			response.Error(c, err)
			return
		}
		records++
	}

	response.OK(c, dto.BatchResponse{
		BatchID:  uuid.New().String(),
		Records:  records,
		Accounts: toAccountResponses(engine.Accounts()),
	})
}

func toRecords(inputs []dto.TransactionInput) ([]domain.TransactionRecord, error) {
	records := make([]domain.TransactionRecord, 0, len(inputs))
	for i, in := range inputs {
		txType, err := domain.ParseTransactionType(in.Type)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		record := domain.TransactionRecord{
			Type:          txType,
			ClientID:      in.ClientID,
			TransactionID: in.TxID,
		}
		if in.Amount != nil {
			amount, err := decimal.NewFromString(*in.Amount)
			if err != nil {
				return nil, apperror.Validation(fmt.Sprintf("transactions[%d]: invalid amount", i))
			}
			record.Amount = &amount
		}
		records = append(records, record)
	}
	return records, nil
}

func toAccountResponses(snapshots []domain.AccountSnapshot) []dto.AccountResponse {
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ClientID < snapshots[j].ClientID })
	accounts := make([]dto.AccountResponse, 0, len(snapshots))
	for _, s := range snapshots {
		accounts = append(accounts, dto.AccountResponse{
			ClientID:  s.ClientID,
			Available: s.Available.String(),
			Held:      s.Held.String(),
			Total:     s.Total.String(),
			Locked:    s.Locked,
		})
	}
	return accounts
}

// sliceSource adapts an in-memory record slice to ports.RecordSource.
type sliceSource struct {
	records []domain.TransactionRecord
	i       int
}

func (s *sliceSource) Next() (domain.TransactionRecord, error) {
	if s.i >= len(s.records) {
		return domain.TransactionRecord{}, io.EOF
	}
	r := s.records[s.i]
	s.i++
	return r, nil
}
