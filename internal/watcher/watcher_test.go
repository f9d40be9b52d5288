package watcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/goran-ethernal/swapwatch/internal/common"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/metrics"
	"github.com/goran-ethernal/swapwatch/internal/swap"
	"github.com/goran-ethernal/swapwatch/pkg/config"
	"github.com/goran-ethernal/swapwatch/pkg/confirm"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscription struct {
	errCh chan error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error, 1)}
}

func (s *fakeSubscription) Unsubscribe()      {}
func (s *fakeSubscription) Err() <-chan error { return s.errCh }

// fakeClient serves canned logs per block number and replays a scripted head
// sequence through the subscription channel. lastRequested selects which
// block's logs the next BlockLogs call returns.
type fakeClient struct {
	sub           *fakeSubscription
	headers       []*types.Header
	logsByNum     map[uint64][]types.Log
	lastRequested uint64
	logsErr       error
	subErr        error
}

func (c *fakeClient) SubscribeNewHeads(_ context.Context, ch chan<- *types.Header) (ethereum.Subscription, error) {
	if c.subErr != nil {
		return nil, c.subErr
	}
	for _, h := range c.headers {
		ch <- h
	}
	return c.sub, nil
}

func (c *fakeClient) BlockLogs(_ context.Context, _ common.Hash, _ common.Address, _ common.Hash) ([]types.Log, error) {
	if c.logsErr != nil {
		return nil, c.logsErr
	}
	return c.logsByNum[c.lastRequested], nil
}

type fakeParser struct {
	err error
}

func (p *fakeParser) Parse(l types.Log) (swap.Event, error) {
	if p.err != nil {
		return swap.Event{}, p.err
	}
	return swap.Event{LogIndex: l.Index, TxHash: l.TxHash}, nil
}

// recordingSink captures every confirmed delivery.
type recordingSink struct {
	blocks []uint64
	swaps  [][]swap.Event
	err    error
}

func (s *recordingSink) HandleConfirmed(blockNumber uint64, events []swap.Event) error {
	if s.err != nil {
		return s.err
	}
	s.blocks = append(s.blocks, blockNumber)
	s.swaps = append(s.swaps, events)
	return nil
}

func testHeader(number uint64) *types.Header {
	return &types.Header{
		Number:     new(big.Int).SetUint64(number),
		Difficulty: big.NewInt(1),
		Time:       number,
	}
}

func testWatcherConfig(depth uint64) config.WatcherConfig {
	return config.WatcherConfig{
		RPCURL:            "ws://localhost:8546",
		PoolAddress:       config.DefaultPoolAddress,
		ConfirmationDepth: &depth,
	}
}

func newTestWatcher(t *testing.T, depth uint64, client EthClient, sinks ...Sink) *Watcher {
	t.Helper()

	w, err := New(testWatcherConfig(depth), client, &fakeParser{}, sinks, logger.NewNopLogger())
	require.NoError(t, err)
	return w
}

func TestNew_Validation(t *testing.T) {
	log := logger.NewNopLogger()
	cfg := testWatcherConfig(5)

	_, err := New(cfg, nil, &fakeParser{}, nil, log)
	require.ErrorContains(t, err, "RPC client is required")

	_, err = New(cfg, &fakeClient{}, nil, nil, log)
	require.ErrorContains(t, err, "swap parser is required")

	_, err = New(cfg, &fakeClient{}, &fakeParser{}, nil, nil)
	require.ErrorContains(t, err, "logger is required")
}

func TestWatcher_ConfirmsAfterDepth(t *testing.T) {
	sink := &recordingSink{}
	client := &fakeClient{
		logsByNum: map[uint64][]types.Log{
			100: {{Index: 0}, {Index: 1}},
		},
	}
	w := newTestWatcher(t, 2, client, sink)

	// Blocks 100..102 fill the window; 102 pushes 100 out as confirmed.
	for _, n := range []uint64{100, 101, 102} {
		client.lastRequested = n
		require.NoError(t, w.handleHeader(context.Background(), testHeader(n)))
	}

	require.Equal(t, []uint64{100}, sink.blocks)
	require.Len(t, sink.swaps[0], 2)
	assert.Equal(t, uint(1), sink.swaps[0][1].LogIndex)
}

func TestWatcher_ReorgReplacesUnconfirmed(t *testing.T) {
	sink := &recordingSink{}
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 3, client, sink)

	push := func(n uint64, logs ...types.Log) {
		client.lastRequested = n
		client.logsByNum[n] = logs
		require.NoError(t, w.handleHeader(context.Background(), testHeader(n)))
	}

	push(10)
	push(11, types.Log{Index: 7})
	push(12)
	// Reorg: block 11 is replaced before anything confirms.
	push(11, types.Log{Index: 9})
	push(12)
	push(13)
	push(14)

	// Confirmed so far: 10 and the replacement 11.
	require.Equal(t, []uint64{10, 11}, sink.blocks)
	require.Len(t, sink.swaps[1], 1)
	assert.Equal(t, uint(9), sink.swaps[1][0].LogIndex)
}

func TestWatcher_MissingBlockIsFatal(t *testing.T) {
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 2, client)

	client.lastRequested = 50
	require.NoError(t, w.handleHeader(context.Background(), testHeader(50)))

	client.lastRequested = 52
	err := w.handleHeader(context.Background(), testHeader(52))
	require.Error(t, err)

	var missingErr *confirm.MissingOffsetError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, uint64(51), missingErr.Expected)
}

func TestWatcher_DeepReorgIsFatal(t *testing.T) {
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 2, client)

	for _, n := range []uint64{20, 21, 22} {
		client.lastRequested = n
		require.NoError(t, w.handleHeader(context.Background(), testHeader(n)))
	}

	client.lastRequested = 20
	err := w.handleHeader(context.Background(), testHeader(20))
	require.Error(t, err)

	var depthErr *confirm.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, uint64(3), depthErr.ReorgDepth)
	assert.Equal(t, 2, depthErr.MaxDepth)
}

func TestWatcher_ParserErrorIsFatal(t *testing.T) {
	client := &fakeClient{
		logsByNum: map[uint64][]types.Log{30: {{Index: 0}}},
	}
	w, err := New(
		testWatcherConfig(2),
		client,
		&fakeParser{err: errors.New("not a swap log")},
		nil,
		logger.NewNopLogger(),
	)
	require.NoError(t, err)

	client.lastRequested = 30
	err = w.handleHeader(context.Background(), testHeader(30))
	require.ErrorContains(t, err, "failed to decode swap log at block 30")
}

func TestWatcher_SinkErrorIsFatal(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 1, client, sink)

	client.lastRequested = 1
	require.NoError(t, w.handleHeader(context.Background(), testHeader(1)))

	client.lastRequested = 2
	err := w.handleHeader(context.Background(), testHeader(2))
	require.ErrorContains(t, err, "sink failed for confirmed block 1")
}

func TestWatcher_SkipsHeadersWithoutNumber(t *testing.T) {
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 2, client)

	require.NoError(t, w.handleHeader(context.Background(), nil))
	require.NoError(t, w.handleHeader(context.Background(), &types.Header{Difficulty: big.NewInt(1)}))
	assert.False(t, w.seenAny)
}

func TestWatcher_DepthZeroPassThrough(t *testing.T) {
	sink := &recordingSink{}
	client := &fakeClient{logsByNum: map[uint64][]types.Log{}}
	w := newTestWatcher(t, 0, client, sink)

	for _, n := range []uint64{5, 6, 7} {
		client.lastRequested = n
		require.NoError(t, w.handleHeader(context.Background(), testHeader(n)))
	}

	assert.Equal(t, []uint64{5, 6, 7}, sink.blocks)
}

func TestWatcher_RunStopsOnContextCancel(t *testing.T) {
	client := &fakeClient{sub: newFakeSubscription()}
	w := newTestWatcher(t, 2, client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcher_RunFailsOnSubscriptionError(t *testing.T) {
	sub := newFakeSubscription()
	client := &fakeClient{sub: sub}
	w := newTestWatcher(t, 2, client)

	fatalErrors := metrics.Errors.WithLabelValues(internalcommon.ComponentWatcher, "fatal")
	before := testutil.ToFloat64(fatalErrors)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	sub.errCh <- fmt.Errorf("websocket closed")
	select {
	case err := <-done:
		require.ErrorContains(t, err, "head subscription failed")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on subscription error")
	}

	assert.Equal(t, before+1, testutil.ToFloat64(fatalErrors))
}

func TestWatcher_RunFailsOnSubscribeError(t *testing.T) {
	client := &fakeClient{subErr: errors.New("dial refused")}
	w := newTestWatcher(t, 2, client)

	err := w.Run(context.Background())
	require.ErrorContains(t, err, "failed to subscribe to new heads")
}
