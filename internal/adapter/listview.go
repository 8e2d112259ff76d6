package adapter

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// listViewContainerSelectors cover list/row style event pages. The rows tend
// to carry a time element with a machine-readable datetime, which
// recordFromContainer prefers over free text.
var listViewContainerSelectors = []string{
	"li.event",
	"ul.events > li",
	".event-list .event",
	".events-list li",
	"tr.event",
	"div.event-row",
}

var listViewTitleSelectors = []string{
	".event-title",
	".title",
	"a",
	"h2, h3, h4",
}

// ListView extracts records from list-view HTML.
type ListView struct{}

// Shape implements Strategy.
func (ListView) Shape() pipeline.DocumentShape {
	return pipeline.ShapeListView
}

// Extract walks list rows the same way DOMGrid walks grid cells.
func (l ListView) Extract(body []byte, pageURL string, venue pipeline.Venue) ([]pipeline.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse list html: %w", err)
	}

	containers := selectContainers(doc, listViewContainerSelectors)
	if containers == nil {
		return nil, ErrNoRecords
	}

	var records []pipeline.RawRecord
	containers.Each(func(_ int, container *goquery.Selection) {
		record, ok := recordFromContainer(container, listViewTitleSelectors, pageURL, venue)
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
