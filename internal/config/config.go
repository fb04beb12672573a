package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv        = "NEWSPULSE_CONFIG"
	bindAddrEnv          = "NEWSPULSE_BIND_ADDR"
	logLevelEnv          = "NEWSPULSE_LOG_LEVEL"
	logFormatEnv         = "NEWSPULSE_LOG_FORMAT"
	narrativeEndpointEnv = "NARRATIVE_ENDPOINT"
	narrativeAPIKeyEnv   = "NARRATIVE_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Series    SeriesConfig    `yaml:"series"`
	Spikes    SpikesConfig    `yaml:"spikes"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Feeds     []FeedConfig    `yaml:"feeds"`
}

// LoggingConfig selects the console log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the HTTP surface.
type ServerConfig struct {
	BindAddr        string        `yaml:"bindAddr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// FetchConfig tunes the feed fetcher and its freshness cache.
type FetchConfig struct {
	CacheTTL  time.Duration `yaml:"cacheTtl"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// SeriesConfig sets the derivative-series bin width.
type SeriesConfig struct {
	BinMinutes int `yaml:"binMinutes"`
}

// SpikesConfig tunes the hourly keyword-spike labeler.
type SpikesConfig struct {
	Threshold        float64 `yaml:"threshold"`
	KeywordsPerTitle int     `yaml:"keywordsPerTitle"`
	MinKeywordLength int     `yaml:"minKeywordLength"`
}

// NarrativeConfig defines how to contact the Narrative Service.
type NarrativeConfig struct {
	Endpoint    string `yaml:"endpoint"`
	APIKey      string `yaml:"apiKey"`
	HorizonDays int    `yaml:"horizonDays"`
}

// FeedConfig describes a single upstream feed.
type FeedConfig struct {
	Source string `yaml:"source"`
	URL    string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(bindAddrEnv); v != "" {
		c.Server.BindAddr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(narrativeEndpointEnv); v != "" {
		c.Narrative.Endpoint = v
	}

	if v := os.Getenv(narrativeAPIKeyEnv); v != "" {
		c.Narrative.APIKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.BindAddr != "" {
		base.Server.BindAddr = override.Server.BindAddr
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Fetch.CacheTTL > 0 {
		base.Fetch.CacheTTL = override.Fetch.CacheTTL
	}
	if override.Fetch.Timeout > 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.Series.BinMinutes > 0 {
		base.Series.BinMinutes = override.Series.BinMinutes
	}

	if override.Spikes.Threshold > 0 {
		base.Spikes.Threshold = override.Spikes.Threshold
	}
	if override.Spikes.KeywordsPerTitle > 0 {
		base.Spikes.KeywordsPerTitle = override.Spikes.KeywordsPerTitle
	}
	if override.Spikes.MinKeywordLength > 0 {
		base.Spikes.MinKeywordLength = override.Spikes.MinKeywordLength
	}

	if override.Narrative.Endpoint != "" {
		base.Narrative.Endpoint = override.Narrative.Endpoint
	}
	if override.Narrative.APIKey != "" {
		base.Narrative.APIKey = override.Narrative.APIKey
	}
	if override.Narrative.HorizonDays > 0 {
		base.Narrative.HorizonDays = override.Narrative.HorizonDays
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			BindAddr:        "0.0.0.0:8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Fetch: FetchConfig{
			CacheTTL:  60 * time.Second,
			Timeout:   20 * time.Second,
			UserAgent: "Mozilla/5.0 (compatible; NewsPulse/1.0; +https://example.org/newspulse)",
		},
		Series: SeriesConfig{BinMinutes: 30},
		Spikes: SpikesConfig{
			Threshold:        3,
			KeywordsPerTitle: 3,
			MinKeywordLength: 3,
		},
		Narrative: NarrativeConfig{
			Endpoint:    "http://localhost:8000",
			HorizonDays: 14,
		},
		Feeds: []FeedConfig{
			{Source: "BBC World", URL: "http://feeds.bbci.co.uk/news/world/rss.xml"},
			{Source: "NHK World", URL: "https://www3.nhk.or.jp/rss/news/cat5.xml"},
			{Source: "CNN Top", URL: "http://rss.cnn.com/rss/edition.rss"},
			{Source: "NY Times World", URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml"},
			{Source: "The Guardian World", URL: "https://www.theguardian.com/world/rss"},
			{Source: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml"},
			{Source: "DW World", URL: "https://rss.dw.com/rdf/rss-en-world"},
		},
	}
}
