// Package runner executes one full pipeline run: every venue is fetched and
// extracted concurrently, then the results meet at a single aggregation
// point.
package runner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tmcfarland/marquee/internal/adapter"
	"github.com/tmcfarland/marquee/internal/metrics"
	"github.com/tmcfarland/marquee/internal/normalize"
	"github.com/tmcfarland/marquee/internal/pipeline"
	"github.com/tmcfarland/marquee/internal/schedule"
)

// Runner drives the fetch → extract → normalize → aggregate pipeline.
type Runner struct {
	selector    *adapter.Selector
	normalizer  *normalize.Normalizer
	venues      []pipeline.Venue
	concurrency int
	clock       pipeline.Clock
	logger      *zap.Logger
}

// New builds a Runner.
func New(
	selector *adapter.Selector,
	normalizer *normalize.Normalizer,
	venues []pipeline.Venue,
	concurrency int,
	clock pipeline.Clock,
	logger *zap.Logger,
) *Runner {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		selector:    selector,
		normalizer:  normalizer,
		venues:      venues,
		concurrency: concurrency,
		clock:       clock,
		logger:      logger,
	}
}

// Run scrapes every venue and returns the final ordered, deduplicated
// schedule. Venue failures degrade to zero listings for that venue; Run
// itself never fails.
func (r *Runner) Run(ctx context.Context) []pipeline.Listing {
	start := time.Now()

	// Indexed by venue so concatenation order is deterministic regardless
	// of goroutine completion order; the aggregator's stable sort depends
	// on a stable input order.
	perVenue := make([][]pipeline.Listing, len(r.venues))

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	for i, venue := range r.venues {
		wg.Add(1)
		go func(slot int, venue pipeline.Venue) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			perVenue[slot] = r.scrapeVenue(ctx, venue)
		}(i, venue)
	}
	wg.Wait()

	var all []pipeline.Listing
	for _, listings := range perVenue {
		all = append(all, listings...)
	}

	merged := schedule.Aggregate(all)
	metrics.ObserveScrapeDuration(time.Since(start).Seconds())
	r.logger.Info("pipeline run complete",
		zap.Int("venues", len(r.venues)),
		zap.Int("listings", len(merged)),
		zap.Duration("took", time.Since(start)))
	return merged
}

func (r *Runner) scrapeVenue(ctx context.Context, venue pipeline.Venue) []pipeline.Listing {
	records := r.selector.Extract(ctx, venue)

	var listings []pipeline.Listing
	for _, record := range records {
		listings = append(listings, r.normalizer.Normalize(record, venue)...)
	}

	metrics.ObserveListings(venue.ID, len(listings))
	r.logger.Debug("venue scraped",
		zap.String("venue", venue.ID),
		zap.Int("records", len(records)),
		zap.Int("listings", len(listings)))
	return listings
}
