// Package config loads the studylit YAML configuration file and applies
// STUDYLIT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/utils"
)

// SessionSync controls the pomodoro reconciler
type SessionSync struct {
	// ReconcileExisting lets session sync patch and delete events it created earlier
	ReconcileExisting bool `yaml:"reconcile_existing"`
}

// Config is the on-disk configuration
type Config struct {
	// Store is a snapshot file (.json), a SQLite database path, a PostgreSQL
	// connection string, or "keyring".
	Store        string      `yaml:"store"`
	TasksFile    string      `yaml:"tasks_file,omitempty"`
	SessionsFile string      `yaml:"sessions_file,omitempty"`
	HourHeight   float64     `yaml:"hour_height"`
	SyncSchedule string      `yaml:"sync_schedule"`
	SessionSync  SessionSync `yaml:"session_sync"`
	// Timezone is used for timestamps that carry no offset. Empty means local time.
	Timezone string `yaml:"timezone,omitempty"`
	LogDir   string `yaml:"log_dir,omitempty"`
	Debug    bool   `yaml:"debug,omitempty"`
}

// envOverrides mirrors the fields that may be set from the environment.
// Empty variables are ignored.
type envOverrides struct {
	Store        string `env:"STUDYLIT_STORE"`
	TasksFile    string `env:"STUDYLIT_TASKS_FILE"`
	SessionsFile string `env:"STUDYLIT_SESSIONS_FILE"`
	SyncSchedule string `env:"STUDYLIT_SYNC_SCHEDULE"`
	Timezone     string `env:"STUDYLIT_TIMEZONE"`
	Debug        string `env:"STUDYLIT_DEBUG"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Store:        constants.DefaultConfigPath,
		HourHeight:   constants.DefaultHourHeight,
		SyncSchedule: constants.DefaultSyncPattern,
	}
}

// Normalize fills zero values with defaults
func (c *Config) Normalize() {
	if c.Store == "" {
		c.Store = constants.DefaultConfigPath
	}
	if c.HourHeight <= 0 {
		c.HourHeight = constants.DefaultHourHeight
	}
	if c.SyncSchedule == "" {
		c.SyncSchedule = constants.DefaultSyncPattern
	}
}

// Validate checks values that Normalize cannot repair
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.SyncSchedule); err != nil {
		return fmt.Errorf("invalid sync_schedule %q: %w", c.SyncSchedule, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone, defaulting to time.Local
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ApplyEnv overrides fields from STUDYLIT_* variables
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	if o.Store != "" {
		c.Store = o.Store
	}
	if o.TasksFile != "" {
		c.TasksFile = o.TasksFile
	}
	if o.SessionsFile != "" {
		c.SessionsFile = o.SessionsFile
	}
	if o.SyncSchedule != "" {
		c.SyncSchedule = o.SyncSchedule
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.Debug != "" {
		debug, err := strconv.ParseBool(o.Debug)
		if err != nil {
			return fmt.Errorf("invalid STUDYLIT_DEBUG %q: %w", o.Debug, err)
		}
		c.Debug = debug
	}
	return nil
}

// Load reads path, returning defaults when it does not exist.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	path, err := utils.ExpandHome(path)
	if err != nil {
		return err
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studylit-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
