// Package config loads the courseflow application configuration from
// $XDG_CONFIG_HOME/courseflow/config.toml.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/force"
	"github.com/matzehuels/courseflow/pkg/style"
)

// Config holds courseflow configuration.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Style   StyleConfig   `toml:"style"`
	Layout  LayoutConfig  `toml:"layout"`
	Server  ServerConfig  `toml:"server"`
	Explore ExploreConfig `toml:"explore"`
}

// CatalogConfig selects the default data source.
type CatalogConfig struct {
	Path string `toml:"path"` // Catalog JSON used when no argument is given
	Mode string `toml:"mode"` // "faculty", "school" or "level"
}

// StyleConfig points at a graph properties file.
type StyleConfig struct {
	Properties string `toml:"properties"` // Empty uses the built-in properties
}

// LayoutConfig tunes the force solver.
type LayoutConfig struct {
	Seed      uint64  `toml:"seed"`
	MaxTicks  int     `toml:"max_ticks"`
	StopAlpha float64 `toml:"stop_alpha"`
}

// ServerConfig controls `courseflow serve`.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
	Metrics    bool     `toml:"metrics"`
}

// ExploreConfig controls the terminal explorer.
type ExploreConfig struct {
	TickInterval Duration `toml:"tick_interval"`
}

// Duration is a time.Duration written as a Go duration string ("30m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{Mode: string(catalog.DefaultMode)},
		Layout: LayoutConfig{
			Seed:      force.DefaultSeed,
			MaxTicks:  force.DefaultMaxTicks,
			StopAlpha: force.DefaultStopAlpha,
		},
		Server: ServerConfig{
			Addr:       "localhost:8080",
			SessionTTL: Duration{30 * time.Minute},
			Metrics:    true,
		},
		Explore: ExploreConfig{TickInterval: Duration{30 * time.Millisecond}},
	}
}

// ConfigDir returns the courseflow config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "courseflow")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg, err := LoadFile(Path())
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads path on top of the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if _, err := catalog.ParseMode(c.Catalog.Mode); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "catalog.mode")
	}
	if c.Layout.MaxTicks < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout.max_ticks must not be negative")
	}
	if c.Layout.StopAlpha < 0 || c.Layout.StopAlpha >= 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout.stop_alpha must be in [0, 1)")
	}
	if c.Server.SessionTTL.Duration < 0 || c.Explore.TickInterval.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	return nil
}

// Properties loads the configured graph properties, or the built-in ones
// when no file is set.
func (c *Config) Properties() (*style.Properties, error) {
	if c.Style.Properties == "" {
		return style.DefaultProperties(), nil
	}
	return style.LoadProperties(c.Style.Properties)
}

// LayoutOptions returns the solver settings.
func (c *Config) LayoutOptions() force.Options {
	return force.Options{
		Seed:      c.Layout.Seed,
		MaxTicks:  c.Layout.MaxTicks,
		StopAlpha: c.Layout.StopAlpha,
	}
}
