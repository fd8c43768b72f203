package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Predictor PredictorConfig `yaml:"predictor"`
	Session   SessionConfig   `yaml:"session"`
	History   HistoryConfig   `yaml:"history"`
	Stats     StatsConfig     `yaml:"stats"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Admin     AdminConfig     `yaml:"admin"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists origins allowed to call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// PredictorConfig points at the model serving endpoint.
type PredictorConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SessionConfig bounds form session retention.
type SessionConfig struct {
	IdleTTL     time.Duration `yaml:"idleTtl"`
	MaxSessions int           `yaml:"maxSessions"`
}

// HistoryConfig selects where prediction records are kept.
type HistoryConfig struct {
	MemoryLimit int            `yaml:"memoryLimit"`
	Limit       int            `yaml:"limit"`
	Postgres    PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// StatsConfig configures the popularity counters.
type StatsConfig struct {
	PopularLimit int          `yaml:"popularLimit"`
	Valkey       ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for counter storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ArchiveConfig describes the S3-compatible bucket for history archives.
type ArchiveConfig struct {
	Endpoint    string `yaml:"endpoint"`
	AccessKey   string `yaml:"accessKey"`
	SecretKey   string `yaml:"secretKey"`
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Prefix      string `yaml:"prefix"`
	ExportLimit int    `yaml:"exportLimit"`
}

// Enabled reports whether enough settings exist to reach the bucket.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != "" && a.AccessKey != "" && a.SecretKey != ""
}

// AdminConfig protects the history endpoints.
type AdminConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}

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

// loadDotEnv populates the process environment without overriding variables
// that are already set. A missing default .env file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
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
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("PREDICTOR_ENDPOINT"); v != "" {
		cfg.Predictor.Endpoint = v
	}
	if v := os.Getenv("PREDICTOR_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Predictor.Timeout = parsed
		}
	}
	if v := os.Getenv("SESSION_IDLE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.IdleTTL = parsed
		}
	}
	if v := os.Getenv("SESSION_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Session.MaxSessions = parsed
		}
	}
	if v := os.Getenv("HISTORY_MEMORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.MemoryLimit = parsed
		}
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.Postgres.DSN = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("HISTORY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STATS_VALKEY_ENABLED"); v != "" {
		cfg.Stats.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("STATS_VALKEY_ADDR"); v != "" {
		cfg.Stats.Valkey.Addr = v
	}
	if v := os.Getenv("STATS_VALKEY_PREFIX"); v != "" {
		cfg.Stats.Valkey.Prefix = v
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
	if v := os.Getenv("ARCHIVE_PREFIX"); v != "" {
		cfg.Archive.Prefix = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.Secret = v
	}
	if v := os.Getenv("ADMIN_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Admin.TokenTTL = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Predictor: PredictorConfig{
			Endpoint: "https://crop-recommendation-backend-4va0.onrender.com/predict",
			Timeout:  10 * time.Second,
		},
		Session: SessionConfig{
			IdleTTL:     30 * time.Minute,
			MaxSessions: 10000,
		},
		History: HistoryConfig{
			MemoryLimit: 1000,
			Limit:       50,
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Stats: StatsConfig{
			PopularLimit: 5,
			Valkey: ValkeyConfig{
				Addr:   "localhost:6379",
				Prefix: "crop",
			},
		},
		Archive: ArchiveConfig{
			Region:      "auto",
			Prefix:      "exports",
			ExportLimit: 1000,
		},
		Admin: AdminConfig{
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Predictor.Endpoint == "" {
		return errors.New("predictor.endpoint cannot be empty")
	}
	if !strings.HasPrefix(c.Predictor.Endpoint, "http://") && !strings.HasPrefix(c.Predictor.Endpoint, "https://") {
		return errors.New("predictor.endpoint must be an http(s) URL")
	}
	if c.Predictor.Timeout <= 0 {
		return errors.New("predictor.timeout must be positive")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idleTtl must be positive")
	}
	if c.Session.MaxSessions <= 0 {
		return errors.New("session.maxSessions must be positive")
	}
	if c.History.MemoryLimit <= 0 {
		return errors.New("history.memoryLimit must be positive")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	if c.History.Postgres.MaxConns < 0 || c.History.Postgres.MinConns < 0 {
		return errors.New("history.postgres pool sizes cannot be negative")
	}
	if c.History.Postgres.MaxConns > 0 && c.History.Postgres.MinConns > c.History.Postgres.MaxConns {
		return errors.New("history.postgres.minConns cannot exceed maxConns")
	}
	if c.Stats.PopularLimit <= 0 {
		return errors.New("stats.popularLimit must be positive")
	}
	if c.Stats.Valkey.Enabled && c.Stats.Valkey.Addr == "" {
		return errors.New("stats.valkey.addr required when valkey is enabled")
	}
	if c.Archive.ExportLimit <= 0 {
		return errors.New("archive.exportLimit must be positive")
	}
	if c.Admin.Secret != "" && len(c.Admin.Secret) < 16 {
		return errors.New("admin.secret must be at least 16 characters")
	}
	if c.Admin.TokenTTL <= 0 {
		return errors.New("admin.tokenTtl must be positive")
	}
	return nil
}
