package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AINewsAggregator/internal/domain"
)

const (
	configPathEnv    = "AINEWS_CONFIG"
	hfAPIKeyEnv      = "HF_API_KEY"
	mongoURIEnv      = "MONGODB_URI"
	mongoDatabaseEnv = "MONGODB_DATABASE"
	databaseDSNEnv   = "DATABASE_DSN"
	storeDriverEnv   = "STORE_DRIVER"
	portEnv          = "PORT"
	logLevelEnv      = "LOG_LEVEL"
	logFormatEnv     = "LOG_FORMAT"
)

// Store drivers accepted in StoreConfig.Driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverNone     = "none"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Logging LoggingConfig  `yaml:"logging"`
	Store   StoreConfig    `yaml:"store"`
	ML      MLConfig       `yaml:"ml"`
	Feeds   FeedConfig     `yaml:"feeds"`
	Sources []SourceConfig `yaml:"sources"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig selects the cache backend and its connection details.
type StoreConfig struct {
	Driver         string        `yaml:"driver"`
	MongoURI       string        `yaml:"mongoUri"`
	MongoDatabase  string        `yaml:"mongoDatabase"`
	PostgresDSN    string        `yaml:"postgresDsn"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
}

// MLConfig describes the inference service endpoints.
type MLConfig struct {
	SummarizationURL string        `yaml:"summarizationUrl"`
	SentimentURL     string        `yaml:"sentimentUrl"`
	APIKey           string        `yaml:"apiKey"`
	SummaryTimeout   time.Duration `yaml:"summaryTimeout"`
	SentimentTimeout time.Duration `yaml:"sentimentTimeout"`
}

// FeedConfig tunes the RSS client.
type FeedConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	HoursBack int           `yaml:"hoursBack"`
}

// SourceConfig is a single feed entry; Active defaults to true.
type SourceConfig struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Active *bool  `yaml:"active"`
}

// DomainSources converts configured sources into domain values.
func (c Config) DomainSources() []domain.Source {
	sources := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		sources = append(sources, domain.Source{Name: s.Name, URL: s.URL, Active: active})
	}
	return sources
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load .env: %v", err)
	}

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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(hfAPIKeyEnv); v != "" {
		c.ML.APIKey = v
	}

	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Store.MongoURI = v
	}

	if v := os.Getenv(mongoDatabaseEnv); v != "" {
		c.Store.MongoDatabase = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Store.PostgresDSN = v
	}

	if v := os.Getenv(storeDriverEnv); v != "" {
		c.Store.Driver = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(portEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", portEnv, v, c.Server.Port)
		}
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port > 0 {
		base.Server.Port = override.Server.Port
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Store.Driver != "" {
		base.Store.Driver = override.Store.Driver
	}
	if override.Store.MongoURI != "" {
		base.Store.MongoURI = override.Store.MongoURI
	}
	if override.Store.MongoDatabase != "" {
		base.Store.MongoDatabase = override.Store.MongoDatabase
	}
	if override.Store.PostgresDSN != "" {
		base.Store.PostgresDSN = override.Store.PostgresDSN
	}
	if override.Store.ConnectTimeout > 0 {
		base.Store.ConnectTimeout = override.Store.ConnectTimeout
	}

	if override.ML.SummarizationURL != "" {
		base.ML.SummarizationURL = override.ML.SummarizationURL
	}
	if override.ML.SentimentURL != "" {
		base.ML.SentimentURL = override.ML.SentimentURL
	}
	if override.ML.APIKey != "" {
		base.ML.APIKey = override.ML.APIKey
	}
	if override.ML.SummaryTimeout > 0 {
		base.ML.SummaryTimeout = override.ML.SummaryTimeout
	}
	if override.ML.SentimentTimeout > 0 {
		base.ML.SentimentTimeout = override.ML.SentimentTimeout
	}

	if override.Feeds.UserAgent != "" {
		base.Feeds.UserAgent = override.Feeds.UserAgent
	}
	if override.Feeds.Timeout > 0 {
		base.Feeds.Timeout = override.Feeds.Timeout
	}
	if override.Feeds.HoursBack > 0 {
		base.Feeds.HoursBack = override.Feeds.HoursBack
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	sources := make([]SourceConfig, 0)
	for _, s := range domain.DefaultSources() {
		active := s.Active
		sources = append(sources, SourceConfig{Name: s.Name, URL: s.URL, Active: &active})
	}

	return Config{
		Server:  ServerConfig{Port: 5000, ShutdownTimeout: 10 * time.Second},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Store: StoreConfig{
			Driver:         DriverMongo,
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  "ai_news",
			ConnectTimeout: 5 * time.Second,
		},
		ML: MLConfig{
			SummarizationURL: "https://api-inference.huggingface.co/models/facebook/bart-large-cnn",
			SentimentURL:     "https://api-inference.huggingface.co/models/cardiffnlp/twitter-roberta-base-sentiment-latest",
			SummaryTimeout:   30 * time.Second,
			SentimentTimeout: 10 * time.Second,
		},
		Feeds: FeedConfig{
			UserAgent: "AINewsAggregator/1.0",
			Timeout:   20 * time.Second,
			HoursBack: 24,
		},
		Sources: sources,
	}
}
