// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Venues  []VenueConfig `mapstructure:"venues"`
}

// OutputConfig sets where the snapshot document lands.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// HTTPConfig configures outbound fetch behavior.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	Accept         string `mapstructure:"accept"`
	AcceptLanguage string `mapstructure:"accept_language"`
}

// ScrapeConfig governs pipeline execution.
type ScrapeConfig struct {
	Concurrency     int `mapstructure:"concurrency"`
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// ServerConfig controls the serve-mode HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// VenueConfig declares one venue and its ordered extraction strategies.
type VenueConfig struct {
	ID         string           `mapstructure:"id"`
	Name       string           `mapstructure:"name"`
	Location   string           `mapstructure:"location"`
	BaseURL    string           `mapstructure:"base_url"`
	Strategies []StrategyConfig `mapstructure:"strategies"`
	SkipTerms  []string         `mapstructure:"skip_terms"`
	StripTerms []string         `mapstructure:"strip_terms"`
}

// StrategyConfig names one extraction attempt: shape plus the URL serving
// that shape.
type StrategyConfig struct {
	Shape string `mapstructure:"shape"`
	URL   string `mapstructure:"url"`
}

// defaultSkipTerms drop non-film entries venues mix into their calendars.
var defaultSkipTerms = []string{
	"workshop",
	"rental",
	"rent the",
	"registration",
	"camp",
	"call for submissions",
	"private event",
}

var knownShapes = map[string]pipeline.DocumentShape{
	string(pipeline.ShapeDOMGrid):  pipeline.ShapeDOMGrid,
	string(pipeline.ShapeListView): pipeline.ShapeListView,
	string(pipeline.ShapeRSS):      pipeline.ShapeRSS,
	string(pipeline.ShapeICal):     pipeline.ShapeICal,
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.path", "listings.json")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("http.accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	v.SetDefault("http.accept_language", "en-US,en;q=0.9")
	v.SetDefault("scrape.concurrency", 4)
	v.SetDefault("scrape.interval_minutes", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Scrape.Concurrency <= 0 {
		return fmt.Errorf("scrape.concurrency must be > 0")
	}
	if c.Scrape.IntervalMinutes <= 0 {
		return fmt.Errorf("scrape.interval_minutes must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if len(c.Venues) == 0 {
		return fmt.Errorf("at least one venue must be configured")
	}
	seen := make(map[string]struct{}, len(c.Venues))
	for i, venue := range c.Venues {
		if strings.TrimSpace(venue.ID) == "" {
			return fmt.Errorf("venues[%d].id must be set", i)
		}
		if _, dup := seen[venue.ID]; dup {
			return fmt.Errorf("venues[%d].id %q is duplicated", i, venue.ID)
		}
		seen[venue.ID] = struct{}{}
		if strings.TrimSpace(venue.Name) == "" {
			return fmt.Errorf("venue %q: name must be set", venue.ID)
		}
		if len(venue.Strategies) == 0 {
			return fmt.Errorf("venue %q: at least one strategy must be configured", venue.ID)
		}
		for j, strat := range venue.Strategies {
			if _, ok := knownShapes[strat.Shape]; !ok {
				return fmt.Errorf("venue %q: strategies[%d].shape %q is not a known shape", venue.ID, j, strat.Shape)
			}
			if strings.TrimSpace(strat.URL) == "" {
				return fmt.Errorf("venue %q: strategies[%d].url must be set", venue.ID, j)
			}
		}
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// ScrapeInterval converts the configured serve-mode interval into a duration.
func (c Config) ScrapeInterval() time.Duration {
	return time.Duration(c.Scrape.IntervalMinutes) * time.Minute
}

// FetchHeaders builds the headers sent with every venue fetch.
func (c Config) FetchHeaders() http.Header {
	headers := http.Header{}
	if c.HTTP.AcceptLanguage != "" {
		headers.Set("Accept-Language", c.HTTP.AcceptLanguage)
	}
	return headers
}

// PipelineVenues converts venue configuration into the pipeline model,
// applying the default non-film skip terms on top of per-venue ones.
func (c Config) PipelineVenues() []pipeline.Venue {
	venues := make([]pipeline.Venue, 0, len(c.Venues))
	for _, vc := range c.Venues {
		strategies := make([]pipeline.Strategy, 0, len(vc.Strategies))
		for _, sc := range vc.Strategies {
			strategies = append(strategies, pipeline.Strategy{
				Shape: knownShapes[sc.Shape],
				URL:   sc.URL,
			})
		}
		skip := make([]string, 0, len(defaultSkipTerms)+len(vc.SkipTerms))
		skip = append(skip, defaultSkipTerms...)
		skip = append(skip, vc.SkipTerms...)
		venues = append(venues, pipeline.Venue{
			ID:         vc.ID,
			Name:       vc.Name,
			Location:   vc.Location,
			BaseURL:    vc.BaseURL,
			Strategies: strategies,
			SkipTerms:  skip,
			StripTerms: vc.StripTerms,
		})
	}
	return venues
}
