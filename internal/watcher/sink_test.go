package watcher

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/swapwatch/internal/db"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/store"
	"github.com/goran-ethernal/swapwatch/internal/swap"
	"github.com/goran-ethernal/swapwatch/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_HandleConfirmed(t *testing.T) {
	sink := NewLogSink(logger.NewNopLogger())

	require.NoError(t, sink.HandleConfirmed(100, nil))
	require.NoError(t, sink.HandleConfirmed(101, []swap.Event{
		{
			Sender:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Direction: swap.DirectionDaiToUsdc,
			Amounts: swap.Amounts{
				Dai:  decimal.RequireFromString("10.50"),
				Usdc: decimal.RequireFromString("10.48"),
			},
		},
	}))
}

func TestStoreSink_HandleConfirmed(t *testing.T) {
	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "sink_test.db")}
	cfg.ApplyDefaults()

	log := logger.NewNopLogger()
	require.NoError(t, store.RunMigrations(log, cfg))

	database, err := db.NewSQLiteDBFromConfig(cfg)
	require.NoError(t, err)

	s := store.New(database, log)
	t.Cleanup(func() { s.Close() })

	sink := NewStoreSink(s)
	require.NoError(t, sink.HandleConfirmed(200, []swap.Event{
		{
			Sender:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Recipient: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Direction: swap.DirectionUsdcToDai,
			Amounts: swap.Amounts{
				Dai:  decimal.RequireFromString("5.25"),
				Usdc: decimal.RequireFromString("5.26"),
			},
			TxHash:   common.HexToHash("0xabc"),
			LogIndex: 1,
		},
	}))

	latest, ok, err := s.LatestConfirmedBlock()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(200), latest)

	swaps, total, err := s.QuerySwaps(store.SwapQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, swaps, 1)
	assert.Equal(t, "5.25", swaps[0].DaiAmount.String())
}
