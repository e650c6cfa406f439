package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/festie/internal/fsops"
)

// Environment overrides applied after the file is read.
const (
	LogLevelEnv = "FESTIE_LOG_LEVEL"
	StorageEnv  = "FESTIE_STORAGE"
)

// DateLayout is the layout of FestivalConfig.Date.
const DateLayout = "2006-01-02"

// FestivalConfig describes the event being planned.
type FestivalConfig struct {
	Name string `yaml:"name" json:"name"`

	// Date is the festival day, YYYY-MM-DD. Empty means today.
	Date string `yaml:"date" json:"date"`

	// Timezone is the IANA zone the lineup times are in (e.g. "America/Los_Angeles").
	Timezone string `yaml:"timezone" json:"timezone"`

	Venue string `yaml:"venue,omitempty" json:"venue,omitempty"`
}

// ImportConfig tunes the import wizard.
type ImportConfig struct {
	// StageDelay is how long each wizard stage stays on screen ("1500ms", "0s").
	StageDelay string `yaml:"stage_delay" json:"stage_delay"`
}

// Config is the top-level application configuration.
type Config struct {
	// Storage selects the kv backend: "file", "sqlite" or "memory".
	Storage string `yaml:"storage" json:"storage"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Detector selects the conflict scan: "pairwise" or "indexed".
	Detector string `yaml:"detector" json:"detector"`

	// ClockStyle controls how midnight renders: "conventional" (12:30 AM) or "literal" (0:30 AM).
	ClockStyle string `yaml:"clock_style" json:"clock_style"`

	Festival FestivalConfig `yaml:"festival" json:"festival"`
	Import   ImportConfig   `yaml:"import" json:"import"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage:    "file",
		LogLevel:   "info",
		Detector:   "pairwise",
		ClockStyle: "conventional",
		Festival: FestivalConfig{
			Name:     "My Festival Schedule",
			Timezone: "UTC",
		},
		Import: ImportConfig{StageDelay: "1500ms"},
	}
}

// Normalize fills in missing values so partially-filled configs still work.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = def.Storage
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Detector == "" {
		c.Detector = def.Detector
	}
	if c.ClockStyle == "" {
		c.ClockStyle = def.ClockStyle
	}
	if c.Festival.Name == "" {
		c.Festival.Name = def.Festival.Name
	}
	if c.Festival.Timezone == "" {
		c.Festival.Timezone = def.Festival.Timezone
	}
	if _, err := time.ParseDuration(c.Import.StageDelay); err != nil {
		c.Import.StageDelay = def.Import.StageDelay
	}
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(LogLevelEnv); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(StorageEnv); v != "" {
		c.Storage = strings.ToLower(v)
	}
}

// Location loads the festival timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Festival.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid festival timezone %q: %w", c.Festival.Timezone, err)
	}
	return loc, nil
}

// FestivalDay returns midnight of the festival date in loc. An empty date
// means the day containing now.
func (c *Config) FestivalDay(now time.Time, loc *time.Location) (time.Time, error) {
	if c.Festival.Date == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation(DateLayout, c.Festival.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid festival date %q: %w", c.Festival.Date, err)
	}
	return day, nil
}

// StageDelay returns the parsed import stage delay.
func (c *Config) StageDelay() time.Duration {
	d, err := time.ParseDuration(c.Import.StageDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written (0600) and returned
//   - Otherwise the YAML is decoded and normalized
func Load(fsys fsops.FS, path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(fsys, path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save normalizes cfg and writes it atomically with 0600 permissions.
func Save(fsys fsops.FS, path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fsys.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
