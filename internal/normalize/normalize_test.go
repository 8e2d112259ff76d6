package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testVenue = pipeline.Venue{
	ID:         "roxy",
	Name:       "The Roxy",
	Location:   "Portland, OR",
	BaseURL:    "https://roxy.example",
	StripTerms: []string{"double feature"},
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		terms []string
		want  string
	}{
		{
			name: "strips sold out",
			raw:  "The Matrix Sold Out",
			want: "The Matrix",
		},
		{
			name: "strips buy tickets and collapses whitespace",
			raw:  "  Stalker \n\t Buy Tickets ",
			want: "Stalker",
		},
		{
			name: "decodes entities",
			raw:  "Mulholland Dr. &amp; Lost Highway",
			want: "Mulholland Dr. & Lost Highway",
		},
		{
			name: "strips part markers",
			raw:  "Nostalghia Pt 2",
			want: "Nostalghia",
		},
		{
			name:  "strips venue terms case-insensitively",
			raw:   "Suspiria DOUBLE FEATURE",
			terms: []string{"double feature"},
			want:  "Suspiria",
		},
		{
			name: "trims leftover separators",
			raw:  "Eraserhead — Sold Out",
			want: "Eraserhead",
		},
		{
			name: "empty after cleanup",
			raw:  "Sold Out",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, CleanTitle(tc.raw, tc.terms))
		})
	}
}

func TestNormalizeExpandsMultipleShowtimes(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID:   "roxy",
		Title:     "Playtime",
		DateTexts: []string{"Nov 20 @ 7:00 pm", "Nov 21 @ 9:30 pm"},
		Link:      "https://roxy.example/playtime",
	}

	listings := n.Normalize(record, testVenue)
	require.Len(t, listings, 2)
	require.Equal(t, "Thu, Nov 20 @ 7:00 PM", listings[0].Date)
	require.Equal(t, "Fri, Nov 21 @ 9:30 PM", listings[1].Date)
	for _, l := range listings {
		require.Equal(t, "The Roxy", l.Theater)
		require.Equal(t, "Portland, OR", l.Location)
		require.Equal(t, "Playtime", l.Title)
		require.Equal(t, "https://roxy.example/playtime", l.Link)
		require.True(t, l.HasTime())
	}
}

func TestNormalizeUnknownDateSurvives(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID:   "roxy",
		Title:     "Mystery Screening",
		DateTexts: []string{"doors at dusk"},
		Link:      "https://roxy.example/mystery",
	}

	listings := n.Normalize(record, testVenue)
	require.Len(t, listings, 1)
	require.False(t, listings[0].HasTime())
	require.Equal(t, "doors at dusk", listings[0].Date)
}

func TestNormalizeNoDateTextAtAll(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID: "roxy",
		Title:   "Secret Matinee",
		Link:    "https://roxy.example/secret",
	}

	listings := n.Normalize(record, testVenue)
	require.Len(t, listings, 1)
	require.False(t, listings[0].HasTime())
	require.Equal(t, UnknownDateDisplay, listings[0].Date)
}

func TestNormalizeEmptyTitleDropsRecord(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID:   "roxy",
		Title:     "Buy Tickets",
		DateTexts: []string{"Nov 20 @ 7:00 pm"},
	}

	require.Empty(t, n.Normalize(record, testVenue))
}

func TestNormalizeLinkFallsBackToVenueBase(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID:   "roxy",
		Title:     "Videodrome",
		DateTexts: []string{"Nov 20 @ 7:00 pm"},
	}

	listings := n.Normalize(record, testVenue)
	require.Len(t, listings, 1)
	require.Equal(t, "https://roxy.example", listings[0].Link)
}

func TestNormalizeIsIdempotentPerRecord(t *testing.T) {
	t.Parallel()

	n := New(fixedClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)})

	record := pipeline.RawRecord{
		VenueID:   "roxy",
		Title:     "Stalker &amp; Solaris Sold Out",
		DateTexts: []string{"Thu Nov 20 7.00pm"},
		Link:      "https://roxy.example/tarkovsky",
	}

	first := n.Normalize(record, testVenue)
	second := n.Normalize(record, testVenue)
	require.Equal(t, first, second)
}
