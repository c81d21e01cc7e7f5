// Package config loads the scout configuration: an optional YAML file merged
// over defaults, then credentials and overrides from the environment.
// It is read once at startup and injected from there.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvLinkedInKey     = "LINKEDIN_API_KEY"
	EnvBrightDataToken = "BRIGHTDATA_API_TOKEN"
	EnvHunterKey       = "HUNTER_API_KEY"
	EnvRedisAddr       = "SCOUT_REDIS_ADDR"
	EnvLogLevel        = "SCOUT_LOG_LEVEL"
	EnvMaxInputSize    = "SCOUT_MAX_INPUT_SIZE"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type LinkedInConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type BrightDataConfig struct {
	BaseURL      string            `yaml:"base_url"`
	Token        string            `yaml:"token"`
	PollInterval time.Duration     `yaml:"poll_interval"`
	PollAttempts int               `yaml:"poll_attempts"`
	Datasets     map[string]string `yaml:"datasets"`
}

type HunterConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type ServerConfig struct {
	// Port of the HTTP API and of the SSE transport.
	Port int `yaml:"port"`
	// BaseURL advertised by the SSE transport. Defaults to http://localhost:<port>.
	BaseURL string `yaml:"base_url"`
}

// Config is the full runtime configuration.
type Config struct {
	LogLevel     string           `yaml:"log_level"`
	HTTPTimeout  time.Duration    `yaml:"http_timeout"`
	MaxInputSize int              `yaml:"max_input_size"`
	MaxJobPages  int              `yaml:"max_job_pages"`
	LinkedIn     LinkedInConfig   `yaml:"linkedin"`
	BrightData   BrightDataConfig `yaml:"brightdata"`
	Hunter       HunterConfig     `yaml:"hunter"`
	Cache        CacheConfig      `yaml:"cache"`
	Server       ServerConfig     `yaml:"server"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogLevel:     "info",
		HTTPTimeout:  30 * time.Second,
		MaxInputSize: 4096,
		MaxJobPages:  20,
		LinkedIn: LinkedInConfig{
			BaseURL: "https://linkedin-data-api.p.rapidapi.com",
		},
		BrightData: BrightDataConfig{
			BaseURL:      "https://api.brightdata.com",
			PollInterval: 10 * time.Second,
			PollAttempts: 30,
		},
		Hunter: HunterConfig{
			BaseURL: "https://api.hunter.io/v2",
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     time.Hour,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// the environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLinkedInKey); v != "" {
		c.LinkedIn.APIKey = v
	}
	if v := os.Getenv(EnvBrightDataToken); v != "" {
		c.BrightData.Token = v
	}
	if v := os.Getenv(EnvHunterKey); v != "" {
		c.Hunter.APIKey = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = CacheRedis
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMaxInputSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxInputSize, err)
		}
		c.MaxInputSize = size
	}
	return nil
}

// Validate rejects settings the runtime cannot work with.
// Missing credentials are not an error here; they fail the affected tool at call time.
func (c Config) Validate() error {
	var errs []error
	if c.BrightData.PollInterval <= 0 {
		errs = append(errs, errors.New("brightdata.poll_interval must be positive"))
	}
	if c.BrightData.PollAttempts <= 0 {
		errs = append(errs, errors.New("brightdata.poll_attempts must be positive"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http_timeout must be positive"))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, errors.New("max_input_size must be positive"))
	}
	if c.MaxJobPages <= 0 {
		errs = append(errs, errors.New("max_job_pages must be positive"))
	}
	switch strings.ToLower(c.Cache.Backend) {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}

// Credentials reports which providers have a credential configured.
func (c Config) Credentials() map[string]bool {
	return map[string]bool{
		"linkedin":   c.LinkedIn.APIKey != "",
		"brightdata": c.BrightData.Token != "",
		"hunter":     c.Hunter.APIKey != "",
	}
}
