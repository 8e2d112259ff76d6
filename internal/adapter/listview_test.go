package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

var listVenue = pipeline.Venue{
	ID:        "hollywood",
	Name:      "Hollywood Theatre",
	Location:  "Portland, OR",
	BaseURL:   "https://hollywood.example",
	SkipTerms: []string{"workshop"},
}

const listPage = `<html><body>
<ul class="events">
  <li class="event">
    <h3 class="event-title">Paris, Texas</h3>
    <time datetime="2025-11-22T19:30:00">Sat Nov 22, 7:30 PM</time>
    <a href="/films/paris-texas">tickets</a>
  </li>
  <li class="event">
    <h3 class="event-title">Celluloid Workshop</h3>
    <time datetime="2025-11-23T10:00:00">Sun Nov 23</time>
  </li>
  <li class="event">
    <h3 class="event-title">Wings of Desire</h3>
    <p>Nov 23 @ 5:00 pm</p>
    <a href="/films/wings-of-desire">tickets</a>
  </li>
</ul>
</body></html>`

func TestListViewExtract(t *testing.T) {
	t.Parallel()

	records, err := ListView{}.Extract([]byte(listPage), "https://hollywood.example/events", listVenue)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Paris, Texas", records[0].Title)
	require.Equal(t, []string{"2025-11-22T19:30:00"}, records[0].DateTexts)
	require.Equal(t, "https://hollywood.example/films/paris-texas", records[0].Link)

	require.Equal(t, "Wings of Desire", records[1].Title)
	require.Equal(t, []string{"Nov 23 @ 5:00 pm"}, records[1].DateTexts)
}

func TestListViewExtractMachineTimeBeatsFreeText(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<ul class="events">
  <li class="event">
    <h3 class="event-title">Ran</h3>
    <time datetime="2025-12-05T20:00:00">Fri Dec 5 8pm-ish</time>
  </li>
</ul>
</body></html>`

	records, err := ListView{}.Extract([]byte(page), "https://hollywood.example/events", listVenue)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []string{"2025-12-05T20:00:00"}, records[0].DateTexts)
}

func TestListViewExtractNoRows(t *testing.T) {
	t.Parallel()

	page := `<html><body><div>nothing scheduled</div></body></html>`

	_, err := ListView{}.Extract([]byte(page), "https://hollywood.example/events", listVenue)
	require.ErrorIs(t, err, ErrNoRecords)
}
