// Package pipeline defines core types shared across the scrape pipeline.
package pipeline

import (
	"net/http"
	"time"
)

// DocumentShape identifies the structure of a fetched venue document.
type DocumentShape string

// Document shapes a venue strategy can declare.
const (
	ShapeDOMGrid  DocumentShape = "dom-grid"
	ShapeListView DocumentShape = "list-view"
	ShapeRSS      DocumentShape = "rss"
	ShapeICal     DocumentShape = "ical"
)

// Strategy names one extraction attempt for a venue: the URL to fetch and
// the document shape the adapter should expect there.
type Strategy struct {
	Shape DocumentShape
	URL   string
}

// Venue is the static configuration for one source of showtime data.
// Strategies are tried in order until one yields records.
type Venue struct {
	ID         string
	Name       string
	Location   string
	BaseURL    string
	Strategies []Strategy
	// SkipTerms drop a whole record when its title matches (rentals,
	// workshops, camps and other non-film entries).
	SkipTerms []string
	// StripTerms are removed from titles during normalization
	// ("Sold Out", "Buy Tickets" and similar).
	StripTerms []string
}

// RawRecord is the unnormalized title/date/link triple an adapter pulls out
// of a venue document. DateTexts holds every time fragment attached to the
// title; some venues list several showtimes under one heading.
type RawRecord struct {
	VenueID   string
	Title     string
	DateTexts []string
	Link      string
}

// Listing is one canonical showtime ready for the snapshot.
// When is the zero time if the source gave no parseable date; Date always
// carries something human-readable regardless.
type Listing struct {
	Theater  string `json:"theater"`
	Location string `json:"location,omitempty"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Link     string `json:"link"`

	When time.Time `json:"-"`
}

// HasTime reports whether the listing carries a resolved canonical time.
func (l Listing) HasTime() bool {
	return !l.When.IsZero()
}

// Key is the composite identity used for deduplication. Two listings with
// the same key describe the same real-world showtime.
func (l Listing) Key() string {
	return l.Theater + "\x00" + l.Title + "\x00" + l.Date
}

// FetchRequest captures everything needed to fetch one venue document.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the raw document returned by a Fetcher.
type FetchResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}
