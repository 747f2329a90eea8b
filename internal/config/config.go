// Package config loads the evdash settings file and applies environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAddr         = "0.0.0.0:4000"
	DefaultClientOrigin = "http://localhost:5173"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultGranularity  = "week"
	DefaultBackend      = "file"
	KeyringService      = "evdash"
)

// Environment variables that override file values.
const (
	EnvDataDir      = "EVDASH_DATA_DIR"
	EnvAddr         = "EVDASH_ADDR"
	EnvClientOrigin = "EVDASH_CLIENT_ORIGIN"
	EnvLogLevel     = "EVDASH_LOG_LEVEL"
)

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// APIConfig configures the REST server.
type APIConfig struct {
	Addr         string `yaml:"addr"`
	ClientOrigin string `yaml:"client_origin"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// TimelineConfig configures the timeline view.
type TimelineConfig struct {
	Granularity string `yaml:"granularity"`
}

// SessionConfig selects where the session and theme are stored.
type SessionConfig struct {
	Backend string `yaml:"backend"`
}

// Config is the full settings file.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
	Timeline TimelineConfig `yaml:"timeline"`
	Session  SessionConfig  `yaml:"session"`
}

// HomeDir returns the evdash directory under homeDir.
func HomeDir(homeDir string) string {
	return filepath.Join(homeDir, ".evdash")
}

// Path returns the default config file path under homeDir.
func Path(homeDir string) string {
	return filepath.Join(HomeDir(homeDir), "config.yaml")
}

// Default returns the built-in configuration rooted at homeDir.
func Default(homeDir string) *Config {
	return &Config{
		DataDir:  filepath.Join(HomeDir(homeDir), "data"),
		API:      APIConfig{Addr: DefaultAddr, ClientOrigin: DefaultClientOrigin},
		Log:      LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Timeline: TimelineConfig{Granularity: DefaultGranularity},
		Session:  SessionConfig{Backend: DefaultBackend},
	}
}

// Load reads the config at path, fills missing keys from Default(homeDir) and
// applies environment overrides. A missing file yields the defaults.
func Load(homeDir, path string) (*Config, error) {
	cfg, err := Read(homeDir, path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// Read reads the config at path without environment overrides.
func Read(homeDir, path string) (*Config, error) {
	cfg := Default(homeDir)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// Write saves cfg to path, creating the directory if needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) merge(o Config) {
	setIf(&c.DataDir, o.DataDir)
	setIf(&c.API.Addr, o.API.Addr)
	setIf(&c.API.ClientOrigin, o.API.ClientOrigin)
	setIf(&c.Log.Level, o.Log.Level)
	setIf(&c.Log.File, o.Log.File)
	setIf(&c.Log.Format, o.Log.Format)
	setIf(&c.Timeline.Granularity, o.Timeline.Granularity)
	setIf(&c.Session.Backend, o.Session.Backend)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for env, dst := range map[string]*string{
		EnvDataDir:      &c.DataDir,
		EnvAddr:         &c.API.Addr,
		EnvClientOrigin: &c.API.ClientOrigin,
		EnvLogLevel:     &c.Log.Level,
	} {
		if v, ok := lookup(env); ok {
			setIf(dst, v)
		}
	}
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// fields maps dotted keys to their values.
func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"data_dir":             &c.DataDir,
		"api.addr":             &c.API.Addr,
		"api.client_origin":    &c.API.ClientOrigin,
		"log.level":            &c.Log.Level,
		"log.file":             &c.Log.File,
		"log.format":           &c.Log.Format,
		"timeline.granularity": &c.Timeline.Granularity,
		"session.backend":      &c.Session.Backend,
	}
}

// Keys returns every settable key in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.fields()))
	for k := range c.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "api.addr".
func (c *Config) Get(key string) (string, error) {
	p, ok := c.fields()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return *p, nil
}

// Set assigns a dotted key after validating enumerated values.
func (c *Config) Set(key, value string) error {
	p, ok := c.fields()[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	value = strings.TrimSpace(value)
	if allowed, ok := enumerated[key]; ok && !contains(allowed, value) {
		return fmt.Errorf("%s must be one of %s", key, strings.Join(allowed, ", "))
	}
	*p = value
	return nil
}

var enumerated = map[string][]string{
	"log.level":            {"debug", "info", "warn", "error"},
	"log.format":           {"text", "json"},
	"timeline.granularity": {"day", "week", "month", "year"},
	"session.backend":      {"file", "keyring"},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// SessionPath is the FileKV location inside the data directory.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}
