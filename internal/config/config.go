package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/freema/daysync/internal/viewer"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	Storage   StorageConfig   `koanf:"storage"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Docs      DocsConfig      `koanf:"docs"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Tracing   TracingConfig   `koanf:"tracing"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port       int    `koanf:"port"`
	AdminToken string `koanf:"admin_token"`
	CORSOrigin string `koanf:"cors_origin"`
}

type RedisConfig struct {
	URL    string `koanf:"url"`
	Prefix string `koanf:"prefix"`
}

type CacheConfig struct {
	TTL  time.Duration `koanf:"ttl"`
	Size int           `koanf:"size"`
}

type StorageConfig struct {
	Path string `koanf:"path"`
}

type UpstreamConfig struct {
	WeatherAPIKey string        `koanf:"weather_api_key"`
	APINinjasKey  string        `koanf:"api_ninjas_key"`
	GNewsAPIKey   string        `koanf:"gnews_api_key"`
	Timeout       time.Duration `koanf:"timeout"`
	TestMode      bool          `koanf:"test_mode"`
}

// DocsConfig overrides the Swagger UI options served at /docs.
type DocsConfig struct {
	Title                    string `koanf:"title"`
	SpecURL                  string `koanf:"spec_url"`
	MountTarget              string `koanf:"mount_target"`
	DeepLinking              bool   `koanf:"deep_linking"`
	Layout                   string `koanf:"layout"`
	DocExpansion             string `koanf:"doc_expansion"`
	DefaultModelsExpandDepth int    `koanf:"default_models_expand_depth"`
	DisplayRequestDuration   bool   `koanf:"display_request_duration"`
	Filter                   bool   `koanf:"filter"`
	TryItOutEnabled          bool   `koanf:"try_it_out_enabled"`
}

// Viewer converts the docs section into a viewer configuration.
func (d DocsConfig) Viewer() viewer.Config {
	return viewer.Config{
		SpecURL:                  d.SpecURL,
		MountTarget:              d.MountTarget,
		DeepLinking:              d.DeepLinking,
		Layout:                   d.Layout,
		DocExpansion:             viewer.DocExpansion(d.DocExpansion),
		DefaultModelsExpandDepth: d.DefaultModelsExpandDepth,
		DisplayRequestDuration:   d.DisplayRequestDuration,
		Filter:                   d.Filter,
		TryItOutEnabled:          d.TryItOutEnabled,
	}
}

type RateLimitConfig struct {
	Enabled           bool `koanf:"enabled"`
	RequestsPerMinute int  `koanf:"requests_per_minute"`
}

type TracingConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"`
	SamplingRate float64 `koanf:"sampling_rate"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	v := viewer.Defaults()
	return &Config{
		Server: ServerConfig{
			Port:       5173,
			CORSOrigin: "*",
		},
		Redis: RedisConfig{
			Prefix: "daysync:",
		},
		Cache: CacheConfig{
			TTL:  5 * time.Minute,
			Size: 1024,
		},
		Storage: StorageConfig{
			Path: "daysync.db",
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
		Docs: DocsConfig{
			Title:                    "daysync API",
			SpecURL:                  v.SpecURL,
			MountTarget:              v.MountTarget,
			DeepLinking:              v.DeepLinking,
			Layout:                   v.Layout,
			DocExpansion:             string(v.DocExpansion),
			DefaultModelsExpandDepth: v.DefaultModelsExpandDepth,
			DisplayRequestDuration:   v.DisplayRequestDuration,
			Filter:                   v.Filter,
			TryItOutEnabled:          v.TryItOutEnabled,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
		},
		Tracing: TracingConfig{
			SamplingRate: 0.1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from YAML file + environment variables.
// Loading order: defaults → YAML file → env vars (later overrides earlier).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	cfg := Defaults()

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	} else {
		// Try default path, ignore if not found
		_ = k.Load(file.Provider("daysync.yaml"), yaml.Parser())
	}

	// DAYSYNC_UPSTREAM__WEATHER_API_KEY → upstream.weather_api_key
	// Double underscore (__) separates nesting levels.
	err := k.Load(env.Provider("DAYSYNC_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DAYSYNC_")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", ".")
		return s
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyLegacyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyLegacyEnv honors the unprefixed API key variables older deployments set.
func applyLegacyEnv(cfg *Config) {
	if cfg.Upstream.WeatherAPIKey == "" {
		cfg.Upstream.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	}
	if cfg.Upstream.APINinjasKey == "" {
		cfg.Upstream.APINinjasKey = os.Getenv("API_NINJAS_KEY")
	}
	if cfg.Upstream.GNewsAPIKey == "" {
		cfg.Upstream.GNewsAPIKey = os.Getenv("GNEWS_API_KEY")
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be positive (set DAYSYNC_CACHE__TTL)")
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("config: storage.path is required (set DAYSYNC_STORAGE__PATH)")
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("config: rate_limit.requests_per_minute must be positive")
	}
	if err := cfg.Docs.Viewer().Validate(); err != nil {
		return fmt.Errorf("config: docs: %w", err)
	}
	return nil
}
