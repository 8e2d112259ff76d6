// Package normalize turns raw extracted records into canonical listings:
// cleaned titles, resolved timestamps and human display strings.
package normalize

import (
	"html"
	"regexp"
	"strings"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// UnknownDateDisplay is shown when a record carried no usable date at all.
const UnknownDateDisplay = "Check venue for showtimes"

// defaultStripTerms are ticketing boilerplate fragments stripped from every
// title regardless of venue configuration.
var defaultStripTerms = []string{
	"sold out",
	"buy tickets",
	"tickets on sale",
	"on sale now",
}

var (
	partPattern    = regexp.MustCompile(`(?i)\bpt\.?\s*\d+\b`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	edgeTrimCutset = " \t-–—:|,·*"
)

// Normalizer converts RawRecords into Listings. The clock anchors the
// missing-year heuristic, so tests can pin it.
type Normalizer struct {
	clock pipeline.Clock
}

// New builds a Normalizer.
func New(clock pipeline.Clock) *Normalizer {
	return &Normalizer{clock: clock}
}

// Normalize expands one raw record into one Listing per attached showtime.
// A record whose date fragments all fail to parse still yields listings;
// an unknown date degrades the display string, never drops the record.
func (n *Normalizer) Normalize(record pipeline.RawRecord, venue pipeline.Venue) []pipeline.Listing {
	title := CleanTitle(record.Title, venue.StripTerms)
	if title == "" {
		return nil
	}

	link := record.Link
	if link == "" {
		link = venue.BaseURL
	}

	now := n.clock.Now()

	dates := record.DateTexts
	if len(dates) == 0 {
		dates = []string{""}
	}

	listings := make([]pipeline.Listing, 0, len(dates))
	for _, fragment := range dates {
		when, display := resolveDate(fragment, now)
		listings = append(listings, pipeline.Listing{
			Theater:  venue.Name,
			Location: venue.Location,
			Title:    title,
			Date:     display,
			Link:     link,
			When:     when,
		})
	}
	return listings
}

// CleanTitle decodes HTML entities, collapses whitespace and strips
// configured boilerplate terms plus "Pt N" markers.
func CleanTitle(raw string, stripTerms []string) string {
	s := html.UnescapeString(raw)
	s = whitespaceRun.ReplaceAllString(s, " ")

	for _, term := range defaultStripTerms {
		s = stripTerm(s, term)
	}
	for _, term := range stripTerms {
		s = stripTerm(s, term)
	}
	s = partPattern.ReplaceAllString(s, " ")

	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, edgeTrimCutset)
}

// stripTerm removes every case-insensitive occurrence of term.
func stripTerm(s, term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return s
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return s
	}
	return re.ReplaceAllString(s, " ")
}
