package adapter

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// domGridContainerSelectors are the known signatures for repeating event
// blocks in calendar-grid pages, most specific first. section.showtime with
// schema.org itemprops is the shape The Beacon style calendars render.
var domGridContainerSelectors = []string{
	"section.showtime",
	`[itemtype*="ScreeningEvent"]`,
	"div.calendar-event",
	"article.event",
	"div.showtime",
}

var domGridTitleSelectors = []string{
	`[itemprop="name"]`,
	".event-title",
	".film-title",
	".title",
	"h1, h2, h3, h4",
}

// DOMGrid extracts records from calendar-grid HTML.
type DOMGrid struct{}

// Shape implements Strategy.
func (DOMGrid) Shape() pipeline.DocumentShape {
	return pipeline.ShapeDOMGrid
}

// Extract locates event containers by known class/attribute signatures and
// reads title, date and link from each. A container missing a title is
// dropped; only a document with no containers at all is an error.
func (g DOMGrid) Extract(body []byte, pageURL string, venue pipeline.Venue) ([]pipeline.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse grid html: %w", err)
	}

	containers := selectContainers(doc, domGridContainerSelectors)
	if containers == nil {
		return nil, ErrNoRecords
	}

	var records []pipeline.RawRecord
	containers.Each(func(_ int, container *goquery.Selection) {
		record, ok := recordFromContainer(container, domGridTitleSelectors, pageURL, venue)
		if !ok || skipTitle(record.Title, venue) {
			return
		}
		records = append(records, record)
	})
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}
