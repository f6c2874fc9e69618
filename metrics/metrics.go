package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohat_orders_submitted_total",
			Help: "Total number of order intents sent to the broker (by reason).",
		},
		[]string{"reason"},
	)

	OrdersRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gohat_orders_rejected_total",
			Help: "Orders the broker rejected while position state still advanced.",
		},
	)

	PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gohat_positions_open",
			Help: "Open lots (initial + pyramids) per symbol key.",
		},
		[]string{"key"},
	)

	Evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohat_evaluations_total",
			Help: "Candle evaluations per symbol key and outcome.",
		},
		[]string{"key", "outcome"},
	)

	StrikesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohat_strikes_skipped_total",
			Help: "Option strikes skipped during delta selection (by reason).",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, OrdersRejected, PositionsOpen, Evaluations, StrikesSkipped)
}
