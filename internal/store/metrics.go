package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	confirmedBlocksStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_store_confirmed_blocks_total",
			Help: "Total number of confirmed blocks written to the store",
		},
	)

	swapsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swapwatch_store_swaps_total",
			Help: "Total number of confirmed swaps written to the store",
		},
	)
)

func blocksStoredInc() {
	confirmedBlocksStored.Inc()
}

func swapsStoredAdd(n int) {
	swapsStored.Add(float64(n))
}
