// Package store persists confirmed swaps to SQLite.
//
// Rows only ever describe confirmed blocks: the watcher hands a block to the
// store after it has survived the confirmation window, so no row is ever
// retracted by a reorganization.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/swap"
	"github.com/russross/meddler"
	"github.com/shopspring/decimal"
)

// ConfirmedBlock is one confirmed block, recorded even when it carried no
// swaps so the store doubles as a confirmation journal.
type ConfirmedBlock struct {
	BlockNumber uint64    `meddler:"block_number"`
	SwapCount   int       `meddler:"swap_count"`
	RecordedAt  time.Time `meddler:"recorded_at"`
}

// Swap is a single confirmed swap event row.
type Swap struct {
	ID          int64           `meddler:"id,pk"`
	BlockNumber uint64          `meddler:"block_number"`
	TxHash      common.Hash     `meddler:"tx_hash,hash"`
	LogIndex    uint            `meddler:"log_index"`
	Sender      common.Address  `meddler:"sender,address"`
	Recipient   common.Address  `meddler:"recipient,address"`
	Direction   string          `meddler:"direction"`
	DaiAmount   decimal.Decimal `meddler:"dai_amount,decimal"`
	UsdcAmount  decimal.Decimal `meddler:"usdc_amount,decimal"`
}

// Stats summarizes the store contents.
type Stats struct {
	ConfirmedBlocks    int64
	TotalSwaps         int64
	LatestBlock        uint64
	SwapsByDirection   map[string]int64
	HasConfirmedBlocks bool
}

// SwapQuery filters and paginates swap retrieval.
type SwapQuery struct {
	FromBlock *uint64
	ToBlock   *uint64
	Direction string
	Limit     int
	Offset    int
}

// Store writes confirmed swaps to SQLite and answers queries over them.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// New creates a Store on top of an open database handle. Migrations must
// already have been applied.
func New(db *sql.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// SaveConfirmed records a confirmed block and its swaps atomically.
func (s *Store) SaveConfirmed(blockNumber uint64, events []swap.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	block := &ConfirmedBlock{
		BlockNumber: blockNumber,
		SwapCount:   len(events),
		RecordedAt:  time.Now().UTC(),
	}
	if err := meddler.Insert(tx, "confirmed_blocks", block); err != nil {
		return fmt.Errorf("failed to insert confirmed block %d: %w", blockNumber, err)
	}

	for _, event := range events {
		row := &Swap{
			BlockNumber: blockNumber,
			TxHash:      event.TxHash,
			LogIndex:    event.LogIndex,
			Sender:      event.Sender,
			Recipient:   event.Recipient,
			Direction:   event.Direction.String(),
			DaiAmount:   event.Amounts.Dai,
			UsdcAmount:  event.Amounts.Usdc,
		}
		if err := meddler.Insert(tx, "swaps", row); err != nil {
			return fmt.Errorf("failed to insert swap at block %d: %w", blockNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	blocksStoredInc()
	swapsStoredAdd(len(events))

	s.log.Debugf("stored confirmed block: block=%d swaps=%d", blockNumber, len(events))
	return nil
}

// LatestConfirmedBlock returns the highest confirmed block number recorded,
// with ok false when the store is empty.
func (s *Store) LatestConfirmedBlock() (uint64, bool, error) {
	var latest sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(block_number) FROM confirmed_blocks").Scan(&latest)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query latest confirmed block: %w", err)
	}
	if !latest.Valid {
		return 0, false, nil
	}
	return uint64(latest.Int64), true, nil
}

// QuerySwaps returns swaps matching the query, newest first, plus the total
// number of matches ignoring pagination.
func (s *Store) QuerySwaps(q SwapQuery) ([]*Swap, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if q.FromBlock != nil {
		where = append(where, "block_number >= ?")
		args = append(args, *q.FromBlock)
	}
	if q.ToBlock != nil {
		where = append(where, "block_number <= ?")
		args = append(args, *q.ToBlock)
	}
	if q.Direction != "" {
		where = append(where, "direction = ?")
		args = append(args, q.Direction)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM swaps"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count swaps: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT * FROM swaps" + clause +
		" ORDER BY block_number DESC, log_index DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	var swaps []*Swap
	if err := meddler.QueryAll(s.db, &swaps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query swaps: %w", err)
	}

	return swaps, total, nil
}

// GetStats summarizes the store contents for the status endpoint.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{SwapsByDirection: make(map[string]int64)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM confirmed_blocks").Scan(&stats.ConfirmedBlocks); err != nil {
		return nil, fmt.Errorf("failed to count confirmed blocks: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM swaps").Scan(&stats.TotalSwaps); err != nil {
		return nil, fmt.Errorf("failed to count swaps: %w", err)
	}

	latest, ok, err := s.LatestConfirmedBlock()
	if err != nil {
		return nil, err
	}
	stats.LatestBlock = latest
	stats.HasConfirmedBlocks = ok

	rows, err := s.db.Query("SELECT direction, COUNT(*) FROM swaps GROUP BY direction")
	if err != nil {
		return nil, fmt.Errorf("failed to count swaps by direction: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var direction string
		var count int64
		if err := rows.Scan(&direction, &count); err != nil {
			return nil, fmt.Errorf("failed to scan direction count: %w", err)
		}
		stats.SwapsByDirection[direction] = count
	}

	return stats, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
