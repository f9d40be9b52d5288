package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/store"
	"github.com/goran-ethernal/swapwatch/internal/swap"
)

// SwapStore is the read side of the swap store the API serves from.
type SwapStore interface {
	QuerySwaps(q store.SwapQuery) ([]*store.Swap, int, error)
	LatestConfirmedBlock() (uint64, bool, error)
	GetStats() (*store.Stats, error)
}

// Handler handles HTTP requests for the API.
type Handler struct {
	store SwapStore
	log   *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s SwapStore, log *logger.Logger) *Handler {
	return &Handler{
		store: s,
		log:   log,
	}
}

// Health returns service health.
// @Summary Health check
// @Description Reports service health and the latest confirmed block, if any
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service health"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	if latest, ok, err := h.store.LatestConfirmedBlock(); err != nil {
		h.log.Errorf("Failed to read latest confirmed block: %v", err)
		response.Status = "degraded"
	} else if ok {
		response.LatestConfirmedBlock = &latest
	}

	respondJSON(w, http.StatusOK, response)
}

// GetSwaps retrieves confirmed swaps.
// @Summary Get confirmed swaps
// @Description Retrieve confirmed swaps with optional filtering and pagination, newest first
// @Tags Swaps
// @Produce json
// @Param limit query int false "Maximum number of swaps to return" default(100)
// @Param offset query int false "Number of swaps to skip" default(0)
// @Param from_block query integer false "Filter swaps from this block number"
// @Param to_block query integer false "Filter swaps up to this block number"
// @Param direction query string false "Swap direction" Enums(dai_to_usdc, usdc_to_dai)
// @Success 200 {object} SwapsResponse "Page of confirmed swaps"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /swaps [get]
func (h *Handler) GetSwaps(w http.ResponseWriter, r *http.Request) {
	params, err := parseSwapQueryParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	rows, total, err := h.store.QuerySwaps(store.SwapQuery{
		FromBlock: params.FromBlock,
		ToBlock:   params.ToBlock,
		Direction: params.Direction,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		h.log.Errorf("Failed to query swaps: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to query swaps")
		return
	}

	entries := make([]SwapEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, SwapEntry{
			BlockNumber: row.BlockNumber,
			TxHash:      row.TxHash.Hex(),
			LogIndex:    row.LogIndex,
			Sender:      row.Sender.Hex(),
			Recipient:   row.Recipient.Hex(),
			Direction:   row.Direction,
			DaiAmount:   row.DaiAmount.String(),
			UsdcAmount:  row.UsdcAmount.String(),
		})
	}

	response := SwapsResponse{
		Swaps: entries,
		Pagination: PaginationResult{
			Total:   total,
			Limit:   params.Limit,
			Offset:  params.Offset,
			HasMore: params.Offset+len(entries) < total,
		},
	}

	respondJSON(w, http.StatusOK, response)
}

// GetStatus summarizes the store contents.
// @Summary Get watcher status
// @Description Retrieve confirmed block and swap counts, broken down by direction
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse "Watcher status"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats()
	if err != nil {
		h.log.Errorf("Failed to get stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	response := StatusResponse{
		ConfirmedBlocks:  stats.ConfirmedBlocks,
		TotalSwaps:       stats.TotalSwaps,
		SwapsByDirection: stats.SwapsByDirection,
	}
	if stats.HasConfirmedBlocks {
		latest := stats.LatestBlock
		response.LatestConfirmedBlock = &latest
	}

	respondJSON(w, http.StatusOK, response)
}

// defaultQueryLimit caps unpaginated swap queries.
const defaultQueryLimit = 100

// parseSwapQueryParams parses HTTP query parameters into SwapQueryParams.
func parseSwapQueryParams(r *http.Request) (*SwapQueryParams, error) {
	params := &SwapQueryParams{Limit: defaultQueryLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return params, fmt.Errorf("invalid limit")
		}
		params.Limit = limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("invalid offset")
		}
		params.Offset = offset
	}

	if fromBlockStr := r.URL.Query().Get("from_block"); fromBlockStr != "" {
		fromBlock, err := strconv.ParseUint(fromBlockStr, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid from_block")
		}
		params.FromBlock = &fromBlock
	}

	if toBlockStr := r.URL.Query().Get("to_block"); toBlockStr != "" {
		toBlock, err := strconv.ParseUint(toBlockStr, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid to_block")
		}
		params.ToBlock = &toBlock
	}

	if params.FromBlock != nil && params.ToBlock != nil && *params.FromBlock > *params.ToBlock {
		return params, fmt.Errorf("from_block cannot be greater than to_block")
	}

	if direction := r.URL.Query().Get("direction"); direction != "" {
		if _, err := swap.ParseDirection(direction); err != nil {
			return params, err
		}
		params.Direction = direction
	}

	return params, nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode first so an encoding failure can still change the status.
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	w.Write(encoded) //nolint:errcheck
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
