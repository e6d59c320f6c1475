package dto

// TransactionInput is one transaction event inside a batch request. Amount
// is a decimal string; it must be present for deposits and withdrawals and
// absent for dispute lifecycle events.
type TransactionInput struct {
	Type     string  `json:"type" binding:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	ClientID uint16  `json:"client"`
	TxID     uint32  `json:"tx"`
	Amount   *string `json:"amount,omitempty"`
}

// BatchRequest is the request body for one-shot batch processing.
type BatchRequest struct {
	Transactions []TransactionInput `json:"transactions" binding:"required,min=1,dive"`
}

// AccountResponse is one account row in the batch result.
type AccountResponse struct {
	ClientID  uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// BatchResponse is the response body for a processed batch.
type BatchResponse struct {
	BatchID  string            `json:"batch_id"`
	Records  int               `json:"records"`
	Accounts []AccountResponse `json:"accounts"`
}
