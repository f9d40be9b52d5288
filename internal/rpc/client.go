package rpc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/swapwatch/pkg/config"
)

// Client wraps the Ethereum RPC client with the two operations the watcher
// needs: a new-head subscription and per-block-hash log retrieval.
type Client struct {
	eth   *ethclient.Client
	retry *config.RetryConfig
}

// NewClient creates a new RPC client connected to the given endpoint.
// The endpoint must support subscriptions (ws:// or wss://).
func NewClient(ctx context.Context, endpoint string, retry *config.RetryConfig) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		eth:   ethclient.NewClient(rpcClient),
		retry: retry,
	}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// SubscribeNewHeads subscribes to new block headers. Subscription failures
// are not retried here: a broken subscription invalidates the stream and the
// caller decides whether to re-establish it.
func (c *Client) SubscribeNewHeads(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error) {
	RPCMethodInc("eth_subscribe")

	sub, err := c.eth.SubscribeNewHead(ctx, ch)
	if err != nil {
		RPCMethodError("eth_subscribe", "subscribe")
		return nil, err
	}
	return sub, nil
}

// BlockLogs retrieves the logs for a single topic emitted by address in the
// block identified by blockHash. Pinning the query to the block hash, rather
// than the number, guarantees the logs belong to the exact block the header
// announced even if the chain reorganized in between.
func (c *Client) BlockLogs(
	ctx context.Context,
	blockHash common.Hash,
	address common.Address,
	topic common.Hash,
) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		BlockHash: &blockHash,
		Addresses: []common.Address{address},
		Topics:    [][]common.Hash{{topic}},
	}

	var logs []types.Log
	err := retryWithBackoff(ctx, c.retry, "eth_getLogs", func() error {
		RPCMethodInc("eth_getLogs")
		start := time.Now()

		var err error
		logs, err = c.eth.FilterLogs(ctx, query)
		RPCMethodDuration("eth_getLogs", time.Since(start))
		if err != nil {
			RPCMethodError("eth_getLogs", "request")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return logs, nil
}
