package adapter

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tmcfarland/marquee/internal/metrics"
	"github.com/tmcfarland/marquee/internal/pipeline"
)

// Selector tries a venue's strategies in configured order and accepts the
// first one that yields records. Fetch failures and empty extractions both
// advance to the next strategy; a venue that exhausts every strategy
// degrades to zero records, never an error.
type Selector struct {
	fetcher pipeline.Fetcher
	headers http.Header
	logger  *zap.Logger
}

// NewSelector builds a Selector. headers are sent with every fetch.
func NewSelector(fetcher pipeline.Fetcher, headers http.Header, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		fetcher: fetcher,
		headers: headers,
		logger:  logger,
	}
}

// Extract runs the fetch-and-extract fallback chain for one venue.
func (s *Selector) Extract(ctx context.Context, venue pipeline.Venue) []pipeline.RawRecord {
	for _, strat := range venue.Strategies {
		adapter, err := ForShape(strat.Shape)
		if err != nil {
			s.logger.Warn("skipping strategy",
				zap.String("venue", venue.ID),
				zap.String("shape", string(strat.Shape)),
				zap.Error(err))
			continue
		}

		resp, err := s.fetcher.Fetch(ctx, pipeline.FetchRequest{URL: strat.URL, Headers: s.headers})
		if err != nil {
			metrics.ObserveStrategy(venue.ID, string(strat.Shape), "fetch_error")
			s.logger.Warn("fetch failed, trying next strategy",
				zap.String("venue", venue.ID),
				zap.String("shape", string(strat.Shape)),
				zap.String("url", strat.URL),
				zap.Error(err))
			continue
		}
		if resp.StatusCode >= http.StatusBadRequest {
			metrics.ObserveStrategy(venue.ID, string(strat.Shape), "fetch_error")
			s.logger.Warn("non-success status, trying next strategy",
				zap.String("venue", venue.ID),
				zap.String("shape", string(strat.Shape)),
				zap.Int("status", resp.StatusCode))
			continue
		}

		records, err := adapter.Extract(resp.Body, resp.URL, venue)
		if err != nil || len(records) == 0 {
			metrics.ObserveStrategy(venue.ID, string(strat.Shape), "empty")
			s.logger.Debug("extraction empty, trying next strategy",
				zap.String("venue", venue.ID),
				zap.String("shape", string(strat.Shape)),
				zap.Error(err))
			continue
		}

		metrics.ObserveStrategy(venue.ID, string(strat.Shape), "ok")
		s.logger.Info("strategy accepted",
			zap.String("venue", venue.ID),
			zap.String("shape", string(strat.Shape)),
			zap.Int("records", len(records)))
		return records
	}

	// The one condition worth an operator's attention: every strategy came
	// up empty, which usually means the venue's markup drifted.
	metrics.ObserveVenueEmpty(venue.ID)
	s.logger.Warn("venue produced zero records across all strategies",
		zap.String("venue", venue.ID))
	return nil
}
