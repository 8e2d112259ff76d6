package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

const sampleConfig = `
output:
  path: out/listings.json
scrape:
  concurrency: 2
  interval_minutes: 30
venues:
  - id: beacon
    name: The Beacon
    location: Seattle
    base_url: https://thebeacon.film
    strategies:
      - shape: dom-grid
        url: https://thebeacon.film/calendar
      - shape: ical
        url: https://thebeacon.film/events.ics
    skip_terms:
      - trivia night
    strip_terms:
      - 35mm
  - id: grandlake
    name: Grand Lake
    strategies:
      - shape: rss
        url: https://grandlake.example/feed
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marquee.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "out/listings.json", cfg.Output.Path)
	require.Equal(t, 2, cfg.Scrape.Concurrency)
	require.Equal(t, 30*time.Minute, cfg.ScrapeInterval())
	require.Len(t, cfg.Venues, 2)
	require.Equal(t, "beacon", cfg.Venues[0].ID)
	require.Len(t, cfg.Venues[0].Strategies, 2)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
venues:
  - id: beacon
    name: The Beacon
    strategies:
      - shape: dom-grid
        url: https://thebeacon.film/calendar
`))
	require.NoError(t, err)

	require.Equal(t, "listings.json", cfg.Output.Path)
	require.Equal(t, 15*time.Second, cfg.FetchTimeout())
	require.Equal(t, 4, cfg.Scrape.Concurrency)
	require.Equal(t, time.Hour, cfg.ScrapeInterval())
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Logging.Development)
	require.NotEmpty(t, cfg.HTTP.UserAgent)
	require.Equal(t, "en-US,en;q=0.9", cfg.FetchHeaders().Get("Accept-Language"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Output: OutputConfig{Path: "listings.json"},
			HTTP:   HTTPConfig{TimeoutSeconds: 15},
			Scrape: ScrapeConfig{Concurrency: 4, IntervalMinutes: 60},
			Server: ServerConfig{Port: 8080},
			Venues: []VenueConfig{{
				ID:   "beacon",
				Name: "The Beacon",
				Strategies: []StrategyConfig{
					{Shape: "dom-grid", URL: "https://thebeacon.film/calendar"},
				},
			}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing output path",
			mutate:  func(c *Config) { c.Output.Path = " " },
			wantErr: "output.path",
		},
		{
			name:    "no venues",
			mutate:  func(c *Config) { c.Venues = nil },
			wantErr: "at least one venue",
		},
		{
			name:    "duplicate venue id",
			mutate:  func(c *Config) { c.Venues = append(c.Venues, c.Venues[0]) },
			wantErr: "duplicated",
		},
		{
			name:    "unknown shape",
			mutate:  func(c *Config) { c.Venues[0].Strategies[0].Shape = "pdf" },
			wantErr: "not a known shape",
		},
		{
			name:    "strategy without url",
			mutate:  func(c *Config) { c.Venues[0].Strategies[0].URL = "" },
			wantErr: "url must be set",
		},
		{
			name:    "venue without strategies",
			mutate:  func(c *Config) { c.Venues[0].Strategies = nil },
			wantErr: "at least one strategy",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Scrape.Concurrency = 0 },
			wantErr: "scrape.concurrency",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestPipelineVenues(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	venues := cfg.PipelineVenues()
	require.Len(t, venues, 2)

	beacon := venues[0]
	require.Equal(t, "The Beacon", beacon.Name)
	require.Equal(t, "Seattle", beacon.Location)
	require.Equal(t, []pipeline.Strategy{
		{Shape: pipeline.ShapeDOMGrid, URL: "https://thebeacon.film/calendar"},
		{Shape: pipeline.ShapeICal, URL: "https://thebeacon.film/events.ics"},
	}, beacon.Strategies)

	// Built-in non-film skip terms precede the per-venue ones.
	require.Contains(t, beacon.SkipTerms, "workshop")
	require.Contains(t, beacon.SkipTerms, "trivia night")
	require.Equal(t, []string{"35mm"}, beacon.StripTerms)

	require.Contains(t, venues[1].SkipTerms, "workshop")
	require.Empty(t, venues[1].StripTerms)
}
