// Package config loads the optional YAML configuration file.
//
// The file is taken from the --config flag, else the TASKS_CONFIG
// environment variable, else $XDG_CONFIG_HOME/tasks/config.yaml (falling back
// to ~/.config/tasks/config.yaml) when that file exists. With no file, the
// defaults apply: tasks.json in the working directory, classic theme,
// errors logged to stderr.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tasks/internal/store"
	"github.com/Makepad-fr/tasks/internal/ui"
)

const (
	// AppName is the application directory name.
	AppName = "tasks"

	// FileName is the configuration file looked up in the config directory.
	FileName = "config.yaml"

	// EnvConfig names the environment variable holding an explicit path.
	EnvConfig = "TASKS_CONFIG"
)

// Config is the full configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the data directory for the file backend, or the database file
	// for the sqlite backend. Default: "." (file) or "./tasks.db" (sqlite).
	Path string `yaml:"path"`
}

// UIConfig tunes terminal output.
type UIConfig struct {
	// Theme is "classic", "neon" or "mono".
	Theme string `yaml:"theme"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`

	// Group splits `ls` output into to-do and completed sections.
	Group bool `yaml:"group"`
}

// LogConfig configures log/slog output.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// File receives log records instead of stderr when set.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: store.BackendFile, Path: "."},
		UI:      UIConfig{Theme: "classic", Color: "auto", Group: true},
		Log:     LogConfig{Level: "error", Format: "text"},
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load resolves the configuration file and loads it. explicit is the value
// of --config; an explicit path (flag or env) must exist, the default path
// may be absent.
func Load(explicit string) (*Config, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		return LoadFile(explicit)
	}
	path := filepath.Join(DefaultConfigDir(), FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return LoadFile(path)
}

// LoadFile reads one YAML file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML over the defaults, expands paths and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum fields.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want file or sqlite)", c.Storage.Backend)
	}
	if names := ui.ThemeNames(); !slices.Contains(names, strings.ToLower(c.UI.Theme)) {
		return fmt.Errorf("ui.theme: unknown theme %q (want %s)", c.UI.Theme, strings.Join(names, ", "))
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("ui.color: unknown mode %q", c.UI.Color)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// DataPath returns the storage path, defaulting per backend.
func (c *Config) DataPath() string {
	p := c.Storage.Path
	if c.Storage.Backend == store.BackendSQLite {
		if p == "" || p == "." {
			return "tasks.db"
		}
		return p
	}
	if p == "" {
		return "."
	}
	return p
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}

// ExpandPath expands a leading ~ and ${VAR} references.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
