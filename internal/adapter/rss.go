package adapter

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// RSS extracts records from RSS/Atom feeds.
type RSS struct{}

// Shape implements Strategy.
func (RSS) Shape() pipeline.DocumentShape {
	return pipeline.ShapeRSS
}

// Extract emits one record per feed item. The event date is pattern-matched
// out of the item description; the feed entry's publish date is when the
// venue posted the item, not when the film screens, so it is never used.
func (r RSS) Extract(body []byte, pageURL string, venue pipeline.Venue) ([]pipeline.RawRecord, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, ErrNoRecords
	}

	var records []pipeline.RawRecord
	for _, item := range feed.Items {
		title := collapseText(item.Title)
		if title == "" || skipTitle(title, venue) {
			continue
		}
		description := stripTags(item.Description)
		if item.Content != "" && description == "" {
			description = stripTags(item.Content)
		}
		records = append(records, pipeline.RawRecord{
			VenueID:   venue.ID,
			Title:     title,
			DateTexts: findDateFragments(description),
			Link:      absoluteLink(item.Link, pageURL, venue),
		})
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}
