package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// selectContainers probes the candidate selectors in order and returns the
// first non-empty match set. Venue markup drifts; keeping the probe order
// explicit is what lets a site survive a redesign that renames one class.
func selectContainers(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText returns the normalized text of the first matching sub-element.
func firstText(container *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if found := container.Find(sel); found.Length() > 0 {
			if text := collapseText(found.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// machineDates collects machine-readable timestamps from the container:
// itemprop=startDate content attributes and time[datetime] values. These
// carry an explicit year and beat any free-text fragment.
func machineDates(container *goquery.Selection) []string {
	var out []string
	container.Find(`[itemprop="startDate"]`).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	})
	container.Find("time[datetime]").Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("datetime"); ok && strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	})
	return out
}

// recordFromContainer builds one raw record from an event container, or
// ok=false when the container yields no title.
func recordFromContainer(
	container *goquery.Selection,
	titleSelectors []string,
	pageURL string,
	venue pipeline.Venue,
) (pipeline.RawRecord, bool) {
	title := firstText(container, titleSelectors)
	if title == "" {
		return pipeline.RawRecord{}, false
	}

	dates := machineDates(container)
	if len(dates) == 0 {
		dates = findDateFragments(collapseText(container.Text()))
	}

	href := ""
	if anchor := container.Find("a[href]").First(); anchor.Length() > 0 {
		href, _ = anchor.Attr("href")
	}

	return pipeline.RawRecord{
		VenueID:   venue.ID,
		Title:     title,
		DateTexts: dates,
		Link:      absoluteLink(href, pageURL, venue),
	}, true
}

func collapseText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
