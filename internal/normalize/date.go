package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout renders resolved timestamps for end users,
// e.g. "Wed, Nov 26 @ 4:00 PM".
const DisplayLayout = "Mon, Jan 2 @ 3:04 PM"

// staleCutoffDays bounds the missing-year heuristic: an assumed-year date
// more than this many days in the past rolls forward to the next year.
const staleCutoffDays = 30

// absoluteLayouts are tried first; a fragment matching one of these carries
// an explicit year and is authoritative. The iCal basic forms cover DTSTART
// values, the dashed forms cover embedded ISO attributes.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
	"2006-01-02",
	"Mon Jan 2 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
}

var (
	monthDayPattern = regexp.MustCompile(
		`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?`)
	clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2})[:.](\d{2})\s*([ap])\.?m\.?`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDateText resolves a free-form date fragment into a canonical UTC
// timestamp. Resolution order: explicit-year layouts, then a
// (month, day, time) pattern with the year inferred from now. Returns
// ok=false when no pattern matches at all.
func ParseDateText(raw string, now time.Time) (time.Time, bool) {
	s := cleanFragment(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	md := monthDayPattern.FindStringSubmatch(s)
	if md == nil {
		return time.Time{}, false
	}
	month, ok := monthsByPrefix[strings.ToLower(md[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(md[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if clock := clockPattern.FindStringSubmatch(s); clock != nil {
		hour, _ = strconv.Atoi(clock[1])
		minute, _ = strconv.Atoi(clock[2])
		if hour > 23 || minute > 59 {
			hour, minute = 0, 0
		} else {
			meridiem := strings.ToLower(clock[3])
			if meridiem == "p" && hour < 12 {
				hour += 12
			}
			if meridiem == "a" && hour == 12 {
				hour = 0
			}
		}
	}

	if md[3] != "" {
		year, err := strconv.Atoi(md[3])
		if err == nil {
			return time.Date(year, month, day, hour, minute, 0, 0, time.UTC), true
		}
	}

	// No year in the source. Assume the current one; if that lands well in
	// the past, the listing is for early next year (a December run seeing a
	// January date). Wrong for events more than ~11 months out, but the
	// source gives nothing better.
	t := time.Date(now.Year(), month, day, hour, minute, 0, 0, time.UTC)
	if t.Before(now.AddDate(0, 0, -staleCutoffDays)) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

// resolveDate turns one fragment into (canonical time, display text). An
// unparseable fragment keeps its own text as the display; an absent one
// gets the fixed unknown-date string.
func resolveDate(fragment string, now time.Time) (time.Time, string) {
	when, ok := ParseDateText(fragment, now)
	if ok {
		return when, when.Format(DisplayLayout)
	}
	if cleaned := cleanFragment(fragment); cleaned != "" {
		return time.Time{}, cleaned
	}
	return time.Time{}, UnknownDateDisplay
}

// cleanFragment entity-decodes and whitespace-collapses a date fragment.
func cleanFragment(raw string) string {
	s := html.UnescapeString(raw)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
