package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the SDK, the CLI, and the stub
// server.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
	Stub  StubConfig  `yaml:"stub"`
}

// APIConfig points the clients at the auth API.
type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects the secure store backend. When neither Valkey nor
// Postgres is configured the in-memory store is used.
type StoreConfig struct {
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for the Valkey-backed store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// StubConfig controls the development stub server.
type StubConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	JWTSecret    string          `yaml:"jwtSecret"`
	TokenTTL     time.Duration   `yaml:"tokenTtl"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the OTP request limiter in the stub server.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8080",
			Timeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Valkey: ValkeyConfig{Prefix: "neuronote"},
		},
		Stub: StubConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			JWTSecret:    "dev-only-secret",
			TokenTTL:     time.Hour,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 5,
				Burst:             3,
			},
		},
	}
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = parsed
		}
	}
	if v := os.Getenv("STORE_VALKEY_ENABLED"); v != "" {
		cfg.Store.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("STORE_VALKEY_ADDR"); v != "" {
		cfg.Store.Valkey.Addr = v
	}
	if v := os.Getenv("STORE_VALKEY_PREFIX"); v != "" {
		cfg.Store.Valkey.Prefix = v
	}
	if v := os.Getenv("STORE_POSTGRES_DSN"); v != "" {
		cfg.Store.Postgres.DSN = v
	}
	if v := os.Getenv("STORE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STUB_ADDRESS"); v != "" {
		cfg.Stub.Address = v
	}
	if v := os.Getenv("STUB_JWT_SECRET"); v != "" {
		cfg.Stub.JWTSecret = v
	}
	if v := os.Getenv("STUB_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Stub.TokenTTL = parsed
		}
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.baseUrl cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Store.Valkey.Enabled && strings.TrimSpace(c.Store.Valkey.Addr) == "" {
		return errors.New("store.valkey.addr required when valkey is enabled")
	}
	if strings.TrimSpace(c.Stub.JWTSecret) == "" {
		return errors.New("stub.jwtSecret cannot be empty")
	}
	if c.Stub.TokenTTL <= 0 {
		return errors.New("stub.tokenTtl must be positive")
	}
	return nil
}
