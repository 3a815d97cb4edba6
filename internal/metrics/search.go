package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search records query resolution metrics.
type Search struct {
	queryDuration *prometheus.HistogramVec
	queryHits     prometheus.Histogram
	tokensTotal   *prometheus.CounterVec
}

// NewSearch creates search metrics and registers them with reg
// (prometheus.DefaultRegisterer when nil). Registering twice against the
// same registry reuses the collectors already there.
func NewSearch(reg prometheus.Registerer) *Search {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Search{
		queryDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "minigallery",
				Name:      "search_duration_seconds",
				Help:      "Search query resolution duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"valid"},
		)),
		queryHits: register(reg, prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "minigallery",
				Name:      "search_result_batches",
				Help:      "Number of batches returned per search",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		)),
		tokensTotal: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minigallery",
				Name:      "search_tokens_total",
				Help:      "Query tokens by matched entity kind and outcome",
			},
			[]string{"kind", "outcome"}, // outcome: hit, duplicate, miss
		)),
	}
}

// ObserveQuery records one resolved query.
func (s *Search) ObserveQuery(duration time.Duration, valid bool, hits int) {
	s.queryDuration.WithLabelValues(strconv.FormatBool(valid)).Observe(duration.Seconds())
	s.queryHits.Observe(float64(hits))
}

// ObserveToken records the outcome of resolving one token.
func (s *Search) ObserveToken(kind, outcome string) {
	s.tokensTotal.WithLabelValues(kind, outcome).Inc()
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
