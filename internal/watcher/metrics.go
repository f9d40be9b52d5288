package watcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blocksObserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_watcher_blocks_observed_total",
			Help: "Total number of block headers processed",
		},
	)

	swapsDecoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_watcher_swaps_decoded_total",
			Help: "Total number of swap events decoded from logs",
		},
	)

	blocksConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_watcher_blocks_confirmed_total",
			Help: "Total number of blocks that survived the confirmation window",
		},
	)

	lastConfirmedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapwatch_watcher_last_confirmed_block",
			Help: "Block number of the most recently confirmed block",
		},
	)

	reorgsObserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_watcher_reorgs_observed_total",
			Help: "Total number of chain reorganizations observed",
		},
	)

	reorgDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swapwatch_watcher_reorg_depth",
			Help:    "Depth of observed chain reorganizations in blocks",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	bufferOccupancy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapwatch_watcher_buffer_occupancy",
			Help: "Number of unconfirmed blocks currently held in the confirmation buffer",
		},
	)
)

func blockObservedLog(swaps int) {
	blocksObserved.Inc()
	swapsDecoded.Add(float64(swaps))
}

func blockConfirmedLog(blockNumber uint64) {
	blocksConfirmed.Inc()
	lastConfirmedBlock.Set(float64(blockNumber))
}

func reorgObservedLog(depth uint64) {
	reorgsObserved.Inc()
	reorgDepth.Observe(float64(depth))
}

func bufferOccupancySet(n int) {
	bufferOccupancy.Set(float64(n))
}
