// Package adapter implements per-shape extraction of raw showtime records
// from fetched venue documents.
package adapter

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// ErrNoRecords signals that a document was fetched and parsed but contained
// no recognizable event containers. The selector treats it as a cue to try
// the venue's next strategy.
var ErrNoRecords = errors.New("no extractable records in document")

// ErrUnsupportedShape is returned for a strategy shape with no adapter.
var ErrUnsupportedShape = errors.New("unsupported document shape")

// Strategy is one concrete extraction method tied to one document shape.
type Strategy interface {
	Shape() pipeline.DocumentShape
	// Extract pulls raw records out of body. pageURL is the URL the document
	// was fetched from; it is the fallback link for records without one.
	// A malformed individual container is skipped, never fatal.
	Extract(body []byte, pageURL string, venue pipeline.Venue) ([]pipeline.RawRecord, error)
}

// ForShape returns the adapter for a document shape.
func ForShape(shape pipeline.DocumentShape) (Strategy, error) {
	switch shape {
	case pipeline.ShapeDOMGrid:
		return &DOMGrid{}, nil
	case pipeline.ShapeListView:
		return &ListView{}, nil
	case pipeline.ShapeRSS:
		return &RSS{}, nil
	case pipeline.ShapeICal:
		return &ICal{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedShape, shape)
	}
}

// skipTitle reports whether a title matches one of the venue's non-film
// terms (rentals, workshops, registration pages).
func skipTitle(title string, venue pipeline.Venue) bool {
	lower := strings.ToLower(title)
	for _, term := range venue.SkipTerms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// absoluteLink resolves href against the venue base URL. An empty href
// falls back to pageURL.
func absoluteLink(href, pageURL string, venue pipeline.Venue) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return pageURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return pageURL
	}
	if ref.IsAbs() {
		return href
	}
	base, err := url.Parse(venue.BaseURL)
	if err != nil || !base.IsAbs() {
		return href
	}
	return base.ResolveReference(ref).String()
}

var (
	// isoFragmentPattern matches machine-style timestamps embedded in text,
	// e.g. "2025-11-26T16:00" or "2025-11-26T16:00:00-08:00".
	isoFragmentPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:\d{2})?`)

	// freeDatePattern matches human-written fragments like "Nov 20 @ 7:00 pm",
	// "Thu Nov 20 7.00pm" or "November 21". The optional trailing clock time
	// tolerates a short connector ("@", "at", "-") and a period used as the
	// minutes separator.
	freeDatePattern = regexp.MustCompile(
		`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?` +
			`(?:[^\d<>\n]{0,6}\d{1,2}[:.]\d{2}\s*[ap]\.?m\.?)?`)

	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// findDateFragments returns every date-looking fragment in free text,
// machine-style timestamps first since they carry an explicit year.
func findDateFragments(text string) []string {
	var out []string
	out = append(out, isoFragmentPattern.FindAllString(text, -1)...)
	out = append(out, freeDatePattern.FindAllString(text, -1)...)
	for i, f := range out {
		f = strings.TrimSpace(f)
		// A trailing sentence period is not part of the fragment, but the
		// final dot of "p.m." is.
		if strings.HasSuffix(f, ".") && !strings.HasSuffix(strings.ToLower(f), ".m.") {
			f = strings.TrimSuffix(f, ".")
		}
		out[i] = f
	}
	return out
}

// stripTags flattens an HTML snippet to plain text with single spaces.
func stripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
