package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAccessKeys is the allow-list used when neither the config file nor
// the environment provides one.
var DefaultAccessKeys = []string{
	"EF-26Q1-A9F4KZ2M",
	"EF-26Q1-B3H8LP5N",
	"EF-26Q1-C7J2MR9R",
}

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Source  SourceConfig  `yaml:"source"`
	Cache   CacheConfig   `yaml:"cache"`
	Access  AccessConfig  `yaml:"access"`
	Session SessionConfig `yaml:"session"`
	// AccessKeys mirrors the secret-store layout `access_keys.keys`.
	AccessKeys struct {
		Keys []string `yaml:"keys"`
	} `yaml:"access_keys"`
}

// SourceConfig selects where the three data files are read from.
type SourceConfig struct {
	Type          string        `yaml:"type" default:"local" validate:"oneof=local remote"`
	BaseDir       string        `yaml:"base_dir" default:"data"`
	BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
	LatestPointer string        `yaml:"latest_pointer"`
	SnapshotFile  string        `yaml:"snapshot_file" default:"regime_snapshot.json" validate:"required"`
	Top10File     string        `yaml:"top10_file" default:"web_top10.csv" validate:"required"`
	HistoryFile   string        `yaml:"history_file" default:"regime_history.csv" validate:"required"`
	LatestFile    string        `yaml:"latest_file"`
	Timeout       time.Duration `yaml:"timeout" default:"10s"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" default:"8388608" validate:"gte=1"`
	Breaker       struct {
		MaxFailures uint32        `yaml:"max_failures" default:"5"`
		OpenTimeout time.Duration `yaml:"open_timeout" default:"30s"`
	} `yaml:"breaker"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
	SnapshotTTL   time.Duration `yaml:"snapshot_ttl" default:"300s"`
	SignalsTTL    time.Duration `yaml:"signals_ttl" default:"300s"`
	HistoryTTL    time.Duration `yaml:"history_ttl" default:"600s"`
	MemoryMaxSize int           `yaml:"memory_max_size" default:"64" validate:"gte=1"`
	Redis         struct {
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"eigenflow"`
	} `yaml:"redis"`
}

type AccessConfig struct {
	ValidityDays          int    `yaml:"validity_days" default:"30" validate:"gte=1"`
	Timezone              string `yaml:"timezone" default:"Asia/Shanghai"`
	DistinctExpiryMessage bool   `yaml:"distinct_expiry_message"`
	PreviewLimit          int    `yaml:"preview_limit" default:"2" validate:"gte=0"`
	HistoryLimit          int    `yaml:"history_limit" default:"30" validate:"gte=1"`
	Attempts              struct {
		PerMinute       int `yaml:"per_minute" default:"10" validate:"gte=1"`
		Burst           int `yaml:"burst" default:"5" validate:"gte=1"`
		ClientPerMinute int `yaml:"client_per_minute" default:"30" validate:"gte=1"`
		ClientBurst     int `yaml:"client_burst" default:"15" validate:"gte=1"`
	} `yaml:"attempts"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" default:"ef_session" validate:"required"`
	IdleTTL    time.Duration `yaml:"idle_ttl" default:"24h"`
	Secure     bool          `yaml:"secure"`
}

var validate = validator.New()

// Default returns a config with every default applied and no file read.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. A missing file yields the defaults.
// Defaults are applied first so explicit zero values in the file (cors: false) survive.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, and then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("EF_SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("EF_SOURCE_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("EF_SOURCE_BASE_DIR"); v != "" {
		c.Source.BaseDir = v
	}
	if v := os.Getenv("ACCESS_KEYS"); v != "" {
		c.AccessKeys.Keys = splitList(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Source.Type == "remote" && c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required when source.type is remote")
	}
	if _, err := time.LoadLocation(c.Access.Timezone); err != nil {
		return fmt.Errorf("access.timezone: %w", err)
	}
	return nil
}

// AllowList returns the configured access keys, normalized, or the default list.
func (c *Config) AllowList() []string {
	keys := make([]string, 0, len(c.AccessKeys.Keys))
	for _, k := range c.AccessKeys.Keys {
		if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return append([]string(nil), DefaultAccessKeys...)
	}
	return keys
}

// Location returns the timezone used for calendar-day arithmetic.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Access.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
