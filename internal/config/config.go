package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

// AppName names the config directory and the environment prefix
const AppName = "lazycodex"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Query   QueryConfig   `mapstructure:"query"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type QueryConfig struct {
	DebounceMS        int    `mapstructure:"debounce_ms"`
	DefaultSize       int    `mapstructure:"default_size"`
	SuggestionSize    int    `mapstructure:"suggestion_size"`
	NumericComparator string `mapstructure:"numeric_comparator"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	// URL is the web front end shared links and the sitemap point at
	URL string `mapstructure:"url"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TimeoutDuration returns the API timeout as a duration
func (c APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// Debounce returns the debounce window as a duration
func (c QueryConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SlogLevel maps the configured level name onto a slog level
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10000,
		},
		Query: QueryConfig{
			DebounceMS:        200,
			DefaultSize:       25,
			SuggestionSize:    10,
			NumericComparator: ">=",
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			URL:          "http://localhost:3000",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("query.debounce_ms", d.Query.DebounceMS)
	v.SetDefault("query.default_size", d.Query.DefaultSize)
	v.SetDefault("query.suggestion_size", d.Query.SuggestionSize)
	v.SetDefault("query.numeric_comparator", d.Query.NumericComparator)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.url", d.UI.URL)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("log.level", d.Log.Level)
}

// Load loads configuration from the standard locations
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from file, or from the standard locations
// when file is empty. A missing config file is not an error.
func LoadFrom(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		if dir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// LAZYCODEX_API_URL, LAZYCODEX_LOG_LEVEL, ...
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", "LAZYCODEX_API_URL"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}
	if err := v.BindEnv("ui.url", "LAZYCODEX_UI_URL"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url must be set"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %d", c.API.Timeout))
	}
	if c.Query.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("query.debounce_ms must not be negative, got %d", c.Query.DebounceMS))
	}
	if c.Query.DefaultSize <= 0 {
		errs = append(errs, fmt.Errorf("query.default_size must be positive, got %d", c.Query.DefaultSize))
	}
	if c.Query.SuggestionSize <= 0 {
		errs = append(errs, fmt.Errorf("query.suggestion_size must be positive, got %d", c.Query.SuggestionSize))
	}
	if cmp := c.NumericComparator(); !filter.IsLegal(models.FieldNumber, cmp) || cmp.IsNullTest() {
		errs = append(errs, fmt.Errorf("query.numeric_comparator %q is not a numeric comparator", c.Query.NumericComparator))
	}
	return errors.Join(errs...)
}

// NumericComparator is the comparator a new numeric filter starts with
func (c *Config) NumericComparator() models.Comparator {
	return models.Comparator(c.Query.NumericComparator)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}
