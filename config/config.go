// Package config builds an index from a YAML file or from HNSWKIT_*
// environment variables.
//
// Example YAML:
//
//	dimension: 384
//	capacity: 100000
//	space: cosine
//	m: 16
//	ef_construction: 200
//	ef: 64
//	compression: zstd
//	log_level: info
//	log_format: json
//
// Values may reference environment variables as ${NAME}.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/hnswkit"
	"github.com/hupe1980/hnswkit/persistence"
	"github.com/hupe1980/hnswkit/space"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "HNSWKIT"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes an index and its ambient settings.
type Config struct {
	Dimension      int    `yaml:"dimension" envconfig:"DIMENSION"`
	Capacity       int    `yaml:"capacity" envconfig:"CAPACITY" default:"10000"`
	Space          string `yaml:"space" envconfig:"SPACE" default:"l2"`
	M              int    `yaml:"m" envconfig:"M" default:"16"`
	EfConstruction int    `yaml:"ef_construction" envconfig:"EF_CONSTRUCTION" default:"200"`
	Ef             int    `yaml:"ef" envconfig:"EF" default:"10"`
	Seed           int64  `yaml:"seed" envconfig:"SEED" default:"100"`
	Compression    string `yaml:"compression" envconfig:"COMPRESSION" default:"none"`
	LogLevel       string `yaml:"log_level" envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `yaml:"log_format" envconfig:"LOG_FORMAT" default:"text"`
}

// Default returns the configuration used for unset fields. Dimension has
// no default.
func Default() Config {
	return Config{
		Capacity:       10000,
		Space:          "l2",
		M:              16,
		EfConstruction: 200,
		Ef:             10,
		Seed:           100,
		Compression:    "none",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads a YAML configuration file with strict parsing: unknown keys are
// an error. Fields missing from the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML after expanding ${NAME} references from the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("YAML error in config: %w", err)
	}

	return cfg, nil
}

// FromEnv reads HNSWKIT_* variables. envFiles are loaded first with
// godotenv; variables already set in the process take precedence over them.
func FromEnv(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Dimension))
	}

	if c.Capacity < 0 {
		errs = append(errs, fmt.Errorf("%w: capacity must not be negative, got %d", ErrInvalidConfig, c.Capacity))
	}

	if c.M < 2 {
		errs = append(errs, fmt.Errorf("%w: m must be at least 2, got %d", ErrInvalidConfig, c.M))
	}

	if c.EfConstruction < 1 {
		errs = append(errs, fmt.Errorf("%w: ef_construction must be positive, got %d", ErrInvalidConfig, c.EfConstruction))
	}

	if c.Ef < 1 {
		errs = append(errs, fmt.Errorf("%w: ef must be positive, got %d", ErrInvalidConfig, c.Ef))
	}

	if _, err := space.ParseKind(c.Space); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	if _, err := persistence.ParseCompression(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	if _, err := c.level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat))
	}

	return errors.Join(errs...)
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))

	return level, err
}

// Options translates the ambient settings into index options.
func (c Config) Options() ([]hnswkit.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	compression, _ := persistence.ParseCompression(c.Compression)
	level, _ := c.level()

	logger := hnswkit.NewTextLogger(level)
	if c.LogFormat == "json" {
		logger = hnswkit.NewJSONLogger(level)
	}

	return []hnswkit.Option{
		hnswkit.WithEf(c.Ef),
		hnswkit.WithRandomSeed(c.Seed),
		hnswkit.WithCompression(compression),
		hnswkit.WithLogger(logger),
	}, nil
}

// Create validates c and creates the index it describes. optFns are applied
// after the options derived from c, so they win.
func (c Config) Create(optFns ...hnswkit.Option) (*hnswkit.Index, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}

	kind, _ := space.ParseKind(c.Space)

	return hnswkit.Create(c.Dimension, c.Capacity, c.M, c.EfConstruction, kind, append(opts, optFns...)...)
}
