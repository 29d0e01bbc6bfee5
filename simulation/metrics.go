package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// generationsTotal counts computed generations
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "golife_generations_total",
		Help: "Total generations computed",
	})

	// population tracks living cells in the latest generation
	population = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "golife_population",
		Help: "Living cells in the current generation",
	})

	// tickDuration tracks how long one transition takes
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "golife_tick_duration_seconds",
		Help:    "Time to compute one generation in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	// transitionsTotal counts state machine transitions by name
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golife_state_transitions_total",
		Help: "State machine transitions by name",
	}, []string{"transition"})
)
