// Package metrics exposes Prometheus collectors for the scrape pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	strategyAttemptsTotal *prometheus.CounterVec
	venueEmptyTotal       *prometheus.CounterVec
	listingsTotal         *prometheus.GaugeVec
	scrapeDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		strategyAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marquee_strategy_attempts_total",
				Help: "Strategy attempts, labeled by venue, document shape and outcome.",
			},
			[]string{"venue", "shape", "outcome"},
		)

		venueEmptyTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marquee_venue_empty_total",
				Help: "Runs in which a venue yielded zero records across all strategies.",
			},
			[]string{"venue"},
		)

		listingsTotal = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marquee_listings",
				Help: "Listings contributed by each venue in the latest run.",
			},
			[]string{"venue"},
		)

		scrapeDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marquee_scrape_duration_seconds",
				Help:    "Histogram of full pipeline run durations.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStrategy records one strategy attempt and its outcome.
func ObserveStrategy(venue, shape, outcome string) {
	if strategyAttemptsTotal == nil {
		return
	}
	strategyAttemptsTotal.WithLabelValues(venue, shape, outcome).Inc()
}

// ObserveVenueEmpty records a venue exhausting every strategy.
func ObserveVenueEmpty(venue string) {
	if venueEmptyTotal == nil {
		return
	}
	venueEmptyTotal.WithLabelValues(venue).Inc()
}

// ObserveListings records how many listings a venue contributed.
func ObserveListings(venue string, count int) {
	if listingsTotal == nil {
		return
	}
	listingsTotal.WithLabelValues(venue).Set(float64(count))
}

// ObserveScrapeDuration records one pipeline run duration in seconds.
func ObserveScrapeDuration(seconds float64) {
	if scrapeDurationSeconds == nil {
		return
	}
	scrapeDurationSeconds.Observe(seconds)
}
