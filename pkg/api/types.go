package api

import "time"

// SwapQueryParams represents query parameters for swap retrieval.
type SwapQueryParams struct {
	// Pagination
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`

	// Block range filtering
	FromBlock *uint64 `json:"from_block,omitempty" form:"from_block"`
	ToBlock   *uint64 `json:"to_block,omitempty" form:"to_block"`

	// Direction filtering ("dai_to_usdc" or "usdc_to_dai")
	Direction string `json:"direction,omitempty" form:"direction"`
}

// SwapEntry is a single confirmed swap as rendered by the API.
type SwapEntry struct {
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint   `json:"log_index"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Direction   string `json:"direction"`
	DaiAmount   string `json:"dai_amount"`
	UsdcAmount  string `json:"usdc_amount"`
}

// SwapsResponse wraps a page of confirmed swaps.
type SwapsResponse struct {
	Swaps      []SwapEntry      `json:"swaps"`
	Pagination PaginationResult `json:"pagination"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status               string    `json:"status"`
	Timestamp            time.Time `json:"timestamp"`
	LatestConfirmedBlock *uint64   `json:"latest_confirmed_block,omitempty"`
}

// StatusResponse summarizes what the watcher has confirmed so far.
type StatusResponse struct {
	ConfirmedBlocks      int64            `json:"confirmed_blocks"`
	TotalSwaps           int64            `json:"total_swaps"`
	LatestConfirmedBlock *uint64          `json:"latest_confirmed_block,omitempty"`
	SwapsByDirection     map[string]int64 `json:"swaps_by_direction"`
}
