// Package config loads the tracker configuration.
//
// Values are layered, from lowest to highest priority:
//  1. defaults,
//  2. an optional YAML file,
//  3. environment variables.
//
// The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file.
const (
	EnvConfig     = "TRACKER_CONFIG"
	EnvDataDir    = "TRACKER_DATA_DIR"
	EnvLogLevel   = "TRACKER_LOG_LEVEL"
	EnvBackend    = "TRACKER_BACKEND"
	EnvBackendURL = "TRACKER_BACKEND_URL"
	EnvSensor     = "TRACKER_SENSOR"
)

// Backend kinds.
const (
	BackendDemo = "demo"
	BackendHTTP = "http"
)

// Config is the tracker configuration.
type Config struct {
	DataDir   string    `yaml:"data_dir" validate:"required"`
	Currency  string    `yaml:"currency" validate:"required,len=3,uppercase"`
	LogLevel  string    `yaml:"log_level" validate:"required,oneof=debug info warn error"`
	Backend   Backend   `yaml:"backend"`
	Biometric Biometric `yaml:"biometric"`
}

// Backend selects the authentication and transaction backend.
type Backend struct {
	Kind             string        `yaml:"kind" validate:"oneof=demo http"`
	URL              string        `yaml:"url" validate:"required_if=Kind http,omitempty,url"`
	TransactionsPath string        `yaml:"transactions_path" validate:"omitempty,startswith=$"`
	Timeout          time.Duration `yaml:"timeout" validate:"gte=0"`
	Latency          time.Duration `yaml:"latency" validate:"gte=0"` // demo backend only
}

// Biometric configures the simulated sensor.
type Biometric struct {
	Sensor string `yaml:"sensor" validate:"oneof=accept reject cancel unavailable"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Currency: "USD",
		LogLevel: "warn",
		Backend: Backend{
			Kind:    BackendDemo,
			Timeout: 10 * time.Second,
		},
		Biometric: Biometric{Sensor: "accept"},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tracker"
	}
	return filepath.Join(dir, "tracker", "data")
}

// DefaultPath returns the configuration file read when none is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tracker", "config.yaml")
}

// Load returns the configuration from path, the environment and defaults.
//
// An empty path means DefaultPath. A missing default file is not an error, a
// missing explicit one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("cannot open config: %w", err)
		default:
			defer f.Close()
			if err := cfg.decode(f); err != nil {
				return nil, fmt.Errorf("cannot parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// decode overlays the YAML document read from r. Unknown keys are rejected.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend.Kind = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvSensor); v != "" {
		c.Biometric.Sensor = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Level returns the zap level for LogLevel.
func (c *Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel
	}
	return l
}
