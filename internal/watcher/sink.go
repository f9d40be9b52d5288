package watcher

import (
	"fmt"

	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/store"
	"github.com/goran-ethernal/swapwatch/internal/swap"
)

// Sink consumes confirmed blocks. The watcher delivers blocks in strictly
// increasing order, each exactly once; a sink error stops the watcher.
type Sink interface {
	HandleConfirmed(blockNumber uint64, events []swap.Event) error
}

// LogSink prints confirmed swaps through the logger. Confirmed blocks without
// swaps are logged at debug level only.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// HandleConfirmed implements Sink.
func (s *LogSink) HandleConfirmed(blockNumber uint64, events []swap.Event) error {
	if len(events) == 0 {
		s.log.Debugf("confirmed block without swaps: block=%d", blockNumber)
		return nil
	}

	s.log.Infof("confirmed block: block=%d swaps=%d", blockNumber, len(events))
	for i := range events {
		s.log.Infof("confirmed swap: block=%d %s", blockNumber, events[i].String())
	}

	return nil
}

// StoreSink persists confirmed blocks to the swap store.
type StoreSink struct {
	store *store.Store
}

// NewStoreSink creates a StoreSink on top of an initialized store.
func NewStoreSink(s *store.Store) *StoreSink {
	return &StoreSink{store: s}
}

// HandleConfirmed implements Sink.
func (s *StoreSink) HandleConfirmed(blockNumber uint64, events []swap.Event) error {
	if err := s.store.SaveConfirmed(blockNumber, events); err != nil {
		return fmt.Errorf("failed to persist confirmed block %d: %w", blockNumber, err)
	}
	return nil
}
