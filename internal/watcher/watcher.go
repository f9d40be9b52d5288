// Package watcher drives the confirmation buffer from a new-head
// subscription: one Push per observed block, confirmed entries fanned out to
// the configured sinks.
package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/goran-ethernal/swapwatch/internal/common"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/metrics"
	"github.com/goran-ethernal/swapwatch/internal/swap"
	"github.com/goran-ethernal/swapwatch/pkg/config"
	"github.com/goran-ethernal/swapwatch/pkg/confirm"
)

// headerBuffer bounds how many announced heads may queue while a block is
// being processed.
const headerBuffer = 64

// EthClient is the subset of the RPC client the watcher needs.
type EthClient interface {
	SubscribeNewHeads(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
	BlockLogs(ctx context.Context, blockHash common.Hash, address common.Address, topic common.Hash) ([]types.Log, error)
}

// SwapParser decodes a raw Swap log into a typed event.
type SwapParser interface {
	Parse(l types.Log) (swap.Event, error)
}

// Watcher subscribes to new heads, decodes the pool's Swap logs per block and
// feeds the confirmation buffer. It is the single sequential driver the
// buffer requires; nothing else touches the buffer.
type Watcher struct {
	pool   common.Address
	rpc    EthClient
	parser SwapParser
	sinks  []Sink
	log    *logger.Logger
	buffer *confirm.Buffer[swap.Event]

	// Highest offset pushed so far, for reorg observability only. The
	// buffer itself decides what is acceptable.
	lastObserved uint64
	seenAny      bool
}

// New creates a Watcher. The confirmation depth comes from cfg; sinks receive
// confirmed blocks in registration order.
func New(
	cfg config.WatcherConfig,
	client EthClient,
	parser SwapParser,
	sinks []Sink,
	log *logger.Logger,
) (*Watcher, error) {
	if client == nil {
		return nil, errors.New("RPC client is required")
	}
	if parser == nil {
		return nil, errors.New("swap parser is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	w := &Watcher{
		pool:   common.HexToAddress(cfg.PoolAddress),
		rpc:    client,
		parser: parser,
		sinks:  sinks,
		log:    log,
		buffer: confirm.New[swap.Event](int(cfg.Depth())),
	}

	w.log.Infof("watcher initialized: pool=%s confirmation_depth=%d", w.pool.Hex(), cfg.Depth())

	return w, nil
}

// Run processes the head subscription until the context is cancelled (clean
// shutdown, returns nil) or the stream fails. Offset gaps, reorgs deeper than
// the configured depth, undecodable logs and sink failures are all fatal: the
// watcher never guesses its way past an inconsistent stream.
func (w *Watcher) Run(ctx context.Context) error {
	headers := make(chan *types.Header, headerBuffer)

	sub, err := w.rpc.SubscribeNewHeads(ctx, headers)
	if err != nil {
		return fmt.Errorf("failed to subscribe to new heads: %w", err)
	}
	defer sub.Unsubscribe()

	metrics.ComponentHealthSet(internalcommon.ComponentWatcher, true)
	defer metrics.ComponentHealthSet(internalcommon.ComponentWatcher, false)

	w.log.Info("watching for new blocks")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil
		case err := <-sub.Err():
			metrics.ErrorInc(internalcommon.ComponentWatcher, "fatal")
			return fmt.Errorf("head subscription failed: %w", err)
		case header := <-headers:
			if err := w.handleHeader(ctx, header); err != nil {
				metrics.ErrorInc(internalcommon.ComponentWatcher, "fatal")
				return err
			}
		}
	}
}

// handleHeader processes a single announced head.
func (w *Watcher) handleHeader(ctx context.Context, header *types.Header) error {
	if header == nil || header.Number == nil {
		// Some providers announce pending heads without a number.
		return nil
	}

	blockNumber := header.Number.Uint64()
	blockHash := header.Hash()

	logs, err := w.rpc.BlockLogs(ctx, blockHash, w.pool, swap.SwapTopic)
	if err != nil {
		return fmt.Errorf("failed to fetch logs for block %d: %w", blockNumber, err)
	}

	events := make([]swap.Event, 0, len(logs))
	for _, l := range logs {
		event, err := w.parser.Parse(l)
		if err != nil {
			return fmt.Errorf("failed to decode swap log at block %d, tx %s: %w",
				blockNumber, l.TxHash.Hex(), err)
		}
		events = append(events, event)
	}

	blockObservedLog(len(events))
	w.log.Debugf("observed block: block=%d hash=%s swaps=%d", blockNumber, blockHash.Hex(), len(events))

	if w.seenAny && blockNumber <= w.lastObserved {
		reorgObservedLog(w.lastObserved - blockNumber + 1)
		w.log.Warnf("chain reorganization: block=%d replaces %d trailing block(s)",
			blockNumber, w.lastObserved-blockNumber+1)
	}

	confirmed, err := w.buffer.Push(blockNumber, events)
	if err != nil {
		var missingErr *confirm.MissingOffsetError
		if errors.As(err, &missingErr) {
			w.log.Errorf("skipped block number %d, stream cannot be reconciled", missingErr.Expected)
		}

		var depthErr *confirm.DepthExceededError
		if errors.As(err, &depthErr) {
			w.log.Errorf("reorganization depth %d exceeds tolerated maximum %d",
				depthErr.ReorgDepth, depthErr.MaxDepth)
		}

		return fmt.Errorf("confirmation buffer rejected block %d: %w", blockNumber, err)
	}

	w.lastObserved = blockNumber
	w.seenAny = true
	bufferOccupancySet(w.buffer.Len())

	if confirmed == nil {
		return nil
	}

	blockConfirmedLog(confirmed.Offset)

	for _, sink := range w.sinks {
		if err := sink.HandleConfirmed(confirmed.Offset, confirmed.Payload); err != nil {
			return fmt.Errorf("sink failed for confirmed block %d: %w", confirmed.Offset, err)
		}
	}

	return nil
}
