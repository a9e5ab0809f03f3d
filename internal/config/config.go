// Package config loads simulator settings from YAML and the environment.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v2"
)

// Provider kinds.
const (
	CSV       = "csv"
	SQLite    = "sqlite"
	Firestore = "firestore"
)

// Provider describes where season slates are read from.
type Provider struct {
	Kind       string `yaml:"kind"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
	ProjectID  string `yaml:"project_id"`
	Collection string `yaml:"collection"`
}

// Config holds the simulator configuration.
type Config struct {
	FirstYear int      `yaml:"first_year"`
	LastYear  int      `yaml:"last_year"`
	MaxWeek   int      `yaml:"max_week"`
	Workers   int      `yaml:"workers"`
	LogLevel  string   `yaml:"log_level"`
	Provider  Provider `yaml:"provider"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.UnmarshalStrict(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"SURVIVOR_FIRST_YEAR": &c.FirstYear,
		"SURVIVOR_LAST_YEAR":  &c.LastYear,
		"SURVIVOR_MAX_WEEK":   &c.MaxWeek,
		"SURVIVOR_WORKERS":    &c.Workers,
	}
	for name, dst := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
		*dst = n
	}

	if v := os.Getenv("SURVIVOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SURVIVOR_PROVIDER"); v != "" {
		c.Provider.Kind = v
	}
	if v := os.Getenv("SURVIVOR_DATA_DIR"); v != "" {
		c.Provider.Dir = v
	}
	if v := os.Getenv("SURVIVOR_SQLITE_PATH"); v != "" {
		c.Provider.SQLitePath = v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		c.Provider.ProjectID = v
	}
	if v := os.Getenv("SURVIVOR_COLLECTION"); v != "" {
		c.Provider.Collection = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.FirstYear == 0 {
		c.FirstYear = 2010
	}
	if c.LastYear == 0 {
		c.LastYear = 2024
	}
	if c.MaxWeek == 0 {
		c.MaxWeek = 18
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Provider.Kind == "" {
		c.Provider.Kind = CSV
	}
	if c.Provider.Dir == "" {
		c.Provider.Dir = "data-cleaned"
	}
	if c.Provider.SQLitePath == "" {
		c.Provider.SQLitePath = "data/slates.db"
	}
	if c.Provider.Collection == "" {
		c.Provider.Collection = "survivor_slates"
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.LastYear < c.FirstYear {
		return fmt.Errorf("last_year (%d) must not precede first_year (%d)", c.LastYear, c.FirstYear)
	}
	if c.MaxWeek < 0 {
		return fmt.Errorf("max_week must not be negative, got %d", c.MaxWeek)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch c.Provider.Kind {
	case CSV, SQLite:
	case Firestore:
		if c.Provider.ProjectID == "" {
			return fmt.Errorf("provider.project_id is required for the firestore provider")
		}
	default:
		return fmt.Errorf("unknown provider kind %q", c.Provider.Kind)
	}
	return nil
}
