// Package config resolves runtime settings from defaults, an optional YAML
// file, HOOPSTATS_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HOOPSTATS"

// Config is the resolved runtime configuration.
type Config struct {
	DBBackend        string        `mapstructure:"db-backend"`
	DB               string        `mapstructure:"db"`
	Season           string        `mapstructure:"season"`
	Windows          []int         `mapstructure:"windows"`
	RequestDelay     time.Duration `mapstructure:"request-delay"`
	NBABaseURL       string        `mapstructure:"nba-base-url"`
	AnthropicAPIKey  string        `mapstructure:"anthropic-api-key"`
	AnthropicModel   string        `mapstructure:"anthropic-model"`
	AnthropicBaseURL string        `mapstructure:"anthropic-base-url"`
	InsightTTL       time.Duration `mapstructure:"insight-ttl"`
	YouTubeAPIKey    string        `mapstructure:"youtube-api-key"`
	YouTubeBaseURL   string        `mapstructure:"youtube-base-url"`
	Addr             string        `mapstructure:"addr"`
	CORSOrigins      []string      `mapstructure:"cors-origins"`
	LogLevel         string        `mapstructure:"log-level"`
	Workers          int           `mapstructure:"workers"`
}

// Defaults.
const (
	DefaultSeason         = "2024-25"
	DefaultRequestDelay   = 600 * time.Millisecond
	DefaultNBABaseURL     = "https://stats.nba.com/stats"
	DefaultAnthropicModel = "claude-opus-4-6"
	DefaultInsightTTL     = 24 * time.Hour
	DefaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultAddr           = ":8000"
)

// DefaultCORSOrigins are the browser origins allowed to call the API.
var DefaultCORSOrigins = []string{
	"https://nba-analytics-eta.vercel.app",
	"http://localhost:3000",
}

// DefaultDBPath is the SQLite file used when no DSN is configured.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".hoopstats", "stats.db")
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db-backend", string(storage.SQLite))
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("season", DefaultSeason)
	v.SetDefault("windows", []int{5, 10, 20})
	v.SetDefault("request-delay", DefaultRequestDelay)
	v.SetDefault("nba-base-url", DefaultNBABaseURL)
	v.SetDefault("anthropic-api-key", "")
	v.SetDefault("anthropic-model", DefaultAnthropicModel)
	v.SetDefault("anthropic-base-url", "")
	v.SetDefault("insight-ttl", DefaultInsightTTL)
	v.SetDefault("youtube-api-key", "")
	v.SetDefault("youtube-base-url", DefaultYouTubeBaseURL)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("cors-origins", DefaultCORSOrigins)
	v.SetDefault("log-level", "info")
	v.SetDefault("workers", runtime.GOMAXPROCS(0))
}

// NewViper returns a viper instance with defaults, environment binding and
// config file lookup set up. configFile overrides the .hoopstats.yaml search.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".hoopstats")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// The provider SDKs' conventional variables work without the prefix.
	_ = v.BindEnv("anthropic-api-key", EnvPrefix+"_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("youtube-api-key", EnvPrefix+"_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	SetDefaults(v)
	return v
}

// Load reads the config file if one exists, unmarshals and validates.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Flags and environment variables carry windows as one string.
	if raw, ok := v.Get("windows").(string); ok {
		windows, err := ParseWindows(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		v.Set("windows", windows)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DB = expandHome(cfg.DB)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseWindows parses a comma-separated list of window sizes such as "5, 10,20".
// Blank elements are ignored.
func ParseWindows(s string) ([]int, error) {
	var windows []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("window size %q is not an integer", part)
		}
		windows = append(windows, n)
	}
	return windows, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if _, err := storage.ParseBackend(c.DBBackend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("%w: db must not be empty", ErrInvalidConfig)
	}
	if err := model.ValidateSeason(c.Season); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Windows) == 0 {
		return fmt.Errorf("%w: at least one rolling window is required", ErrInvalidConfig)
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return fmt.Errorf("%w: window size %d must be positive", ErrInvalidConfig, w)
		}
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("%w: request-delay must not be negative", ErrInvalidConfig)
	}
	if c.InsightTTL <= 0 {
		return fmt.Errorf("%w: insight-ttl must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Backend returns the parsed storage backend. Call after Validate.
func (c *Config) Backend() storage.Backend {
	b, _ := storage.ParseBackend(c.DBBackend)
	return b
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
