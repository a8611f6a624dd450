package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	httpapi "github.com/aussiebroadwan/registry/internal/registry/http"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig.
const EnvPrefix = "REGISTRY_"

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Instance       string `yaml:"instance" env:"INSTANCE"`               // Registry instance name, the audience of proofs (default: registry)
	StoreDriver    string `yaml:"store" env:"STORE"`                     // Storage driver: sqlite, memory (default: sqlite)
	DatabaseFile   string `yaml:"database_file" env:"DATABASE_FILE"`     // Path to SQLite database file (default: ./registry.db)
	BootstrapToken string `yaml:"bootstrap_token" env:"BOOTSTRAP_TOKEN"` // Optional: token required to perform bootstrap over HTTP

	ProofMaxAge   time.Duration `yaml:"proof_max_age" env:"PROOF_MAX_AGE"`   // Longest accepted proof lifetime (default: 5m)
	ProofLeeway   time.Duration `yaml:"proof_leeway" env:"PROOF_LEEWAY"`     // Clock skew tolerated on proofs (default: 10s)
	NonceCapacity int           `yaml:"nonce_capacity" env:"NONCE_CAPACITY"` // Spent proof IDs remembered at once (default: 100000)

	Env                 string        `yaml:"env" env:"ENV"`                                     // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `yaml:"log_level" env:"LOG_LEVEL"`                         // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `yaml:"log_format" env:"LOG_FORMAT"`                       // Log format (json, text) (default: json)
	Port                int           `yaml:"port" env:"PORT"`                                   // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD"` // Graceful shutdown timeout (default: 10s)
	Metrics             bool          `yaml:"metrics" env:"METRICS"`                             // Serve /metrics (default: true)

	RateLimit httpapi.Limits `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"` // Per endpoint class profiles, zero disables
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Instance:            "registry",
		StoreDriver:         DriverSQLite,
		DatabaseFile:        "registry.db",
		ProofMaxAge:         jwtx.DefaultMaxProofAge,
		ProofLeeway:         10 * time.Second,
		NonceCapacity:       auth.DefaultNonceCapacity,
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		Metrics:             true,
		RateLimit:           httpapi.DefaultLimits(),
	}
}

// LoadConfig builds a Config from defaults, then the YAML file at path (if
// path is not empty), then REGISTRY_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Instance) == "" {
		errs = append(errs, errors.New("instance must not be empty"))
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("database_file is required for the sqlite store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}
	if c.ProofMaxAge <= 0 {
		errs = append(errs, errors.New("proof_max_age must be positive"))
	}
	if c.ProofLeeway < 0 {
		errs = append(errs, errors.New("proof_leeway must not be negative"))
	}
	if c.NonceCapacity < 0 {
		errs = append(errs, errors.New("nonce_capacity must not be negative"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ShutdownGracePeriod < 0 {
		errs = append(errs, errors.New("shutdown_grace_period must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
