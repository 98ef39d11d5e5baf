// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port       int           `yaml:"port"`
	APISecret  string        `yaml:"api_secret"`  // key exchanged for a session token
	JWTSecret  string        `yaml:"jwt_secret"`  // HMAC secret for session tokens
	SessionTTL time.Duration `yaml:"session_ttl"` // e.g. 30m
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // catalog document lifetime
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	ConcurrentLimit int    `yaml:"concurrent_limit"`  // max concurrent AI calls
	MaxOutputTokens int    `yaml:"max_output_tokens"` // per generation
	MaxPromptTokens int    `yaml:"max_prompt_tokens"` // budget checked before sending
}

// ProviderConfig covers the video data + analytics APIs.
type ProviderConfig struct {
	APIKey           string        `yaml:"api_key"`
	DataBaseURL      string        `yaml:"data_base_url"`
	AnalyticsBaseURL string        `yaml:"analytics_base_url"`
	PageSize         int           `yaml:"page_size"`        // listing/search page size (provider max 50)
	ChunkSize        int           `yaml:"chunk_size"`       // analytics id-list limit (provider max 200)
	MaxListPages     int           `yaml:"max_list_pages"`   // enumeration safety ceiling
	MaxSearchPages   int           `yaml:"max_search_pages"` // targeted search ceiling
	Timeout          time.Duration `yaml:"timeout"`
}

type JobsConfig struct {
	Workers      int           `yaml:"workers"`       // worker pool size
	Retention    time.Duration `yaml:"retention"`     // terminal record lifetime
	PollInterval time.Duration `yaml:"poll_interval"` // status poller default
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`            // report result lifetime
	SweepInterval time.Duration `yaml:"sweep_interval"` // lazy eviction cadence
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Provider ProviderConfig `yaml:"provider"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Cache    CacheConfig    `yaml:"cache"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Server.Port == 0 {
		return nil, errors.New("server.port is required")
	}
	if !dev && cfg.Provider.APIKey == "" {
		return nil, errors.New("provider.api_key is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.SessionTTL <= 0 {
		cfg.Server.SessionTTL = 30 * time.Minute
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 4
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 4096
	}
	if cfg.AI.MaxPromptTokens <= 0 {
		cfg.AI.MaxPromptTokens = 12000
	}
	if cfg.Provider.DataBaseURL == "" {
		cfg.Provider.DataBaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.Provider.AnalyticsBaseURL == "" {
		cfg.Provider.AnalyticsBaseURL = "https://youtubeanalytics.googleapis.com/v2"
	}
	if cfg.Provider.PageSize <= 0 || cfg.Provider.PageSize > 50 {
		cfg.Provider.PageSize = 50
	}
	if cfg.Provider.ChunkSize <= 0 || cfg.Provider.ChunkSize > 200 {
		cfg.Provider.ChunkSize = 200
	}
	if cfg.Provider.MaxListPages <= 0 {
		cfg.Provider.MaxListPages = 300
	}
	if cfg.Provider.MaxSearchPages <= 0 {
		cfg.Provider.MaxSearchPages = 5
	}
	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Jobs.Workers <= 0 {
		cfg.Jobs.Workers = 8
	}
	if cfg.Jobs.Retention <= 0 {
		cfg.Jobs.Retention = 30 * time.Minute
	}
	if cfg.Jobs.PollInterval <= 0 {
		cfg.Jobs.PollInterval = time.Second
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Cache.SweepInterval <= 0 {
		cfg.Cache.SweepInterval = time.Minute
	}
}
