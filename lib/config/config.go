// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file for [Load].
const EnvironmentVariable = "LOCKUP_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the lockup configuration shared by lockupd and the CLI.
type Config struct {
	Environment Environment `yaml:"environment"`

	Paths      PathsConfig      `yaml:"paths"`
	Store      StoreConfig      `yaml:"store"`
	Transition TransitionConfig `yaml:"transition"`
	Log        LogConfig        `yaml:"log"`

	// Applied after the base config when Environment matches.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides holds the fields an environment section may replace.
// Empty strings and zero numbers leave the base value alone.
type ConfigOverrides struct {
	Paths      *PathsConfig      `yaml:"paths,omitempty"`
	Store      *StoreConfig      `yaml:"store,omitempty"`
	Transition *TransitionConfig `yaml:"transition,omitempty"`
	Log        *LogConfig        `yaml:"log,omitempty"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Root is the base directory for lockup data.
	Root string `yaml:"root"`

	// State holds the ledger database and the daemon lock.
	State string `yaml:"state"`

	// Socket is the daemon's Unix socket.
	Socket string `yaml:"socket"`

	// Keys is where `lockup keygen` writes key files.
	Keys string `yaml:"keys"`
}

// StoreConfig configures the ledger database.
type StoreConfig struct {
	// PoolSize is the number of SQLite connections. Default: 4.
	PoolSize int `yaml:"pool_size"`

	// Synchronous is the SQLite synchronous pragma, FULL or NORMAL.
	// Default: FULL.
	Synchronous string `yaml:"synchronous"`

	// SnapshotCompression is the default for `lockup snapshot export`:
	// none, zstd, or lz4. Default: zstd.
	SnapshotCompression string `yaml:"snapshot_compression"`
}

// TransitionConfig configures transition acceptance.
type TransitionConfig struct {
	// MaxValidity caps expires_at - issued_at on submitted transitions.
	// Default: 24h.
	MaxValidity time.Duration `yaml:"max_validity"`
}

// LogConfig configures the daemon's slog handler.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info.
	Level string `yaml:"level"`

	// Format is json or text. Default: json.
	Format string `yaml:"format"`
}

// databaseFileName is the ledger database inside Paths.State.
const databaseFileName = "lockup.db"

// maxSocketPath is the usable length of sun_path on Linux.
const maxSocketPath = 107

// Default returns the configuration used when no file is given, with
// paths expanded.
func Default() *Config {
	cfg := defaults()
	cfg.expandVariables()
	return cfg
}

// defaults returns unexpanded defaults. Derived paths refer to
// ${LOCKUP_ROOT} so they follow a root set in the file.
func defaults() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:   filepath.Join(homeDir, ".local", "share", "lockup"),
			State:  "${LOCKUP_ROOT}/state",
			Socket: "${LOCKUP_ROOT}/lockupd.sock",
			Keys:   "${LOCKUP_ROOT}/keys",
		},
		Store: StoreConfig{
			PoolSize:            4,
			Synchronous:         "FULL",
			SnapshotCompression: "zstd",
		},
		Transition: TransitionConfig{
			MaxValidity: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads the file named by LOCKUP_CONFIG. It fails when the
// variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your lockup.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve loads path when set, then the file named by LOCKUP_CONFIG,
// and otherwise returns [Default]. The daemon and the CLI share it.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path. Environment sections are
// applied, then path variables are expanded. The result is not
// validated; call [Config.Validate].
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the yaml tags serve both.
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Store:      &StoreConfig{Synchronous: "FULL"},
				Transition: &TransitionConfig{MaxValidity: time.Hour},
			}
		}
	}

	if overrides == nil {
		return
	}

	if paths := overrides.Paths; paths != nil {
		overrideString(&c.Paths.Root, paths.Root)
		overrideString(&c.Paths.State, paths.State)
		overrideString(&c.Paths.Socket, paths.Socket)
		overrideString(&c.Paths.Keys, paths.Keys)
	}

	if store := overrides.Store; store != nil {
		if store.PoolSize != 0 {
			c.Store.PoolSize = store.PoolSize
		}
		overrideString(&c.Store.Synchronous, store.Synchronous)
		overrideString(&c.Store.SnapshotCompression, store.SnapshotCompression)
	}

	if transition := overrides.Transition; transition != nil && transition.MaxValidity != 0 {
		c.Transition.MaxValidity = transition.MaxValidity
	}

	if log := overrides.Log; log != nil {
		overrideString(&c.Log.Level, log.Level)
		overrideString(&c.Log.Format, log.Format)
	}
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["LOCKUP_ROOT"] = c.Paths.Root

	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Paths.Socket = expandVars(c.Paths.Socket, vars)
	c.Paths.Keys = expandVars(c.Paths.Keys, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. vars take precedence
// over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]Environment{Development, Staging, Production}, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, errors.New("paths.root is required"))
	}
	if c.Paths.State == "" {
		errs = append(errs, errors.New("paths.state is required"))
	}
	if c.Paths.Socket == "" {
		errs = append(errs, errors.New("paths.socket is required"))
	} else if len(c.Paths.Socket) > maxSocketPath {
		errs = append(errs, fmt.Errorf("paths.socket is %d bytes, longer than the %d a Unix socket allows",
			len(c.Paths.Socket), maxSocketPath))
	}
	if c.Paths.Keys == "" {
		errs = append(errs, errors.New("paths.keys is required"))
	}

	if c.Store.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("store.pool_size must be at least 1, got %d", c.Store.PoolSize))
	}
	if !slices.Contains([]string{"FULL", "NORMAL"}, c.Store.Synchronous) {
		errs = append(errs, fmt.Errorf("store.synchronous must be FULL or NORMAL, got %q", c.Store.Synchronous))
	}
	if !slices.Contains([]string{"none", "zstd", "lz4"}, c.Store.SnapshotCompression) {
		errs = append(errs, fmt.Errorf("store.snapshot_compression must be none, zstd, or lz4, got %q",
			c.Store.SnapshotCompression))
	}

	if c.Transition.MaxValidity <= 0 {
		errs = append(errs, fmt.Errorf("transition.max_validity must be positive, got %s", c.Transition.MaxValidity))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level))
	}
	if !slices.Contains([]string{"json", "text"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// DatabasePath returns the ledger database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.State, databaseFileName)
}

// KeyPath returns the private key file for a named key.
func (c *Config) KeyPath(name string) string {
	return filepath.Join(c.Paths.Keys, name+".key")
}

// EnsurePaths creates the configured directories. The key directory is
// private to the user.
func (c *Config) EnsurePaths() error {
	directories := []struct {
		path string
		mode os.FileMode
	}{
		{c.Paths.Root, 0o755},
		{c.Paths.State, 0o700},
		{c.Paths.Keys, 0o700},
		{filepath.Dir(c.Paths.Socket), 0o755},
	}
	for _, directory := range directories {
		if directory.path == "" || directory.path == "." {
			continue
		}
		if err := os.MkdirAll(directory.path, directory.mode); err != nil {
			return fmt.Errorf("creating %s: %w", directory.path, err)
		}
	}
	return nil
}
