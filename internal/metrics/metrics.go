// Package metrics holds the Prometheus collectors of the puzzle server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	puzzlesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "untangle_puzzles_generated_total",
		Help: "Puzzles generated, by point count",
	}, []string{"n"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "untangle_generation_duration_seconds",
		Help:    "Time spent generating one puzzle",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	})

	scrambleAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "untangle_scramble_attempts",
		Help:    "Random permutations drawn before the starting layout crossed",
		Buckets: []float64{1, 2, 5, 10, 50, 100, 1000},
	})

	moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "untangle_moves_total",
		Help: "Moves received, by result",
	}, []string{"result"})

	puzzlesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "untangle_puzzles_completed_total",
		Help: "Puzzles brought to a crossing-free layout",
	}, []string{"cheated"})
)

// Move results.
const (
	MoveApplied  = "applied"
	MoveRejected = "rejected"
	MoveConflict = "conflict"
)

func ObserveGeneration(n int, d time.Duration, attempts int) {
	puzzlesGenerated.WithLabelValues(strconv.Itoa(n)).Inc()
	generationDuration.Observe(d.Seconds())
	scrambleAttempts.Observe(float64(attempts))
}

func ObserveMove(result string) {
	moves.WithLabelValues(result).Inc()
}

func ObserveCompletion(cheated bool) {
	puzzlesCompleted.WithLabelValues(strconv.FormatBool(cheated)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
