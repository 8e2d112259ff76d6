package adapter

import (
	"strings"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// ICal extracts records from iCalendar text. This is the most reliable
// shape: DTSTART always carries an explicit year, so no heuristics apply
// downstream.
type ICal struct{}

// Shape implements Strategy.
func (ICal) Shape() pipeline.DocumentShape {
	return pipeline.ShapeICal
}

// Extract emits one record per VEVENT block: title from SUMMARY, date from
// DTSTART, link from URL when present. Blocks without a SUMMARY are skipped.
func (c ICal) Extract(body []byte, pageURL string, venue pipeline.Venue) ([]pipeline.RawRecord, error) {
	lines := unfoldLines(string(body))

	var (
		records  []pipeline.RawRecord
		inEvent  bool
		summary  string
		dtstart  string
		eventURL string
	)

	flush := func() {
		if summary == "" || skipTitle(summary, venue) {
			return
		}
		var dates []string
		if dtstart != "" {
			dates = []string{dtstart}
		}
		records = append(records, pipeline.RawRecord{
			VenueID:   venue.ID,
			Title:     summary,
			DateTexts: dates,
			Link:      absoluteLink(eventURL, pageURL, venue),
		})
	}

	for _, line := range lines {
		name, value := splitContentLine(line)
		switch name {
		case "BEGIN":
			if strings.EqualFold(value, "VEVENT") {
				inEvent = true
				summary, dtstart, eventURL = "", "", ""
			}
		case "END":
			if strings.EqualFold(value, "VEVENT") && inEvent {
				flush()
				inEvent = false
			}
		case "SUMMARY":
			if inEvent {
				summary = collapseText(unescapeICal(value))
			}
		case "DTSTART":
			if inEvent {
				dtstart = strings.TrimSpace(value)
			}
		case "URL":
			if inEvent {
				eventURL = strings.TrimSpace(value)
			}
		}
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// unfoldLines undoes RFC 5545 line folding: a line starting with a space or
// tab continues the previous one.
func unfoldLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	for _, line := range raw {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

// splitContentLine separates a content line into its property name and
// value, dropping parameters (DTSTART;TZID=America/Los_Angeles:... parses
// to name DTSTART).
func splitContentLine(line string) (string, string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", ""
	}
	name := line[:idx]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(strings.TrimSpace(name)), line[idx+1:]
}

func unescapeICal(s string) string {
	replacer := strings.NewReplacer(`\n`, " ", `\N`, " ", `\,`, ",", `\;`, ";", `\\`, `\`)
	return replacer.Replace(s)
}
