// Package config provides application configuration through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	apperrors "github.com/saferoute/vault/internal/errors"
	customValidation "github.com/saferoute/vault/internal/validation"
)

// ErrInvalidConfig indicates a configuration the process cannot start with.
var ErrInvalidConfig = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid configuration")

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the API server binds to.
	ServerHost string
	// ServerPort is the port the API server listens on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MasterKey is the 32-byte vault key, raw or base64 per MasterKeyEncoding, or a
	// base64 KMS ciphertext when KMSKeyURI is set. Never logged.
	MasterKey string
	// MasterKeyEncoding is "raw" or "base64".
	MasterKeyEncoding string
	// KMSProvider names the KMS holding the key that wraps MasterKey (e.g., "aws", "gcp", "localsecrets").
	KMSProvider string
	// KMSKeyURI is the gocloud.dev secrets URL of that key.
	KMSKeyURI string

	// TTL is how long a stored batch stays retrievable.
	TTL time.Duration
	// ReaperInterval is how often expired records are purged.
	ReaperInterval time.Duration
	// Algorithm is the AEAD used to seal records ("aes-gcm" or "chacha20-poly1305").
	Algorithm string
	// StoreShards is the number of shards of the in-memory store.
	StoreShards int

	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the prefix of every exported metric name.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file, then validates it.
// Every returned error wraps ErrInvalidConfig.
func Load() (*Config, error) {
	loadDotEnv()

	ttl, err := secondsFromEnv("TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	reaperInterval, err := secondsFromEnv("REAPER_INTERVAL_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := secondsFromEnv("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8082),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Master key
		MasterKey:         env.GetString("MASTER_KEY", ""),
		MasterKeyEncoding: env.GetString("MASTER_KEY_ENCODING", string(cryptoDomain.KeyEncodingRaw)),
		KMSProvider:       env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:         env.GetString("KMS_KEY_URI", ""),

		// Vault
		TTL:             ttl,
		ReaperInterval:  reaperInterval,
		Algorithm:       env.GetString("VAULT_ALGORITHM", string(cryptoDomain.AESGCM)),
		StoreShards:     env.GetInt("STORE_SHARDS", 32),
		ShutdownTimeout: shutdownTimeout,

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "vault"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8083),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that can be checked without touching a KMS.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.MasterKey, validation.Required),
		validation.Field(&c.MasterKeyEncoding,
			validation.In(string(cryptoDomain.KeyEncodingRaw), string(cryptoDomain.KeyEncodingBase64)),
		),
		validation.Field(&c.KMSProvider, validation.When(c.KMSKeyURI != "", validation.Required)),
		validation.Field(&c.KMSKeyURI, validation.When(c.KMSProvider != "", validation.Required)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ReaperInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Algorithm,
			validation.In(string(cryptoDomain.AESGCM), string(cryptoDomain.ChaCha20)),
		),
		validation.Field(&c.StoreShards, customValidation.PowerOfTwo),
		validation.Field(&c.ShutdownTimeout, validation.Required),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// A raw or base64 key must decode to exactly 32 bytes; a KMS ciphertext is checked at unwrap.
	if c.KMSKeyURI == "" {
		key, err := cryptoDomain.ParseMasterKey(c.MasterKey, cryptoDomain.KeyEncoding(c.MasterKeyEncoding))
		if err != nil {
			return fmt.Errorf("%w: MASTER_KEY: %v", ErrInvalidConfig, err)
		}
		key.Close()
	} else if err := customValidation.Base64.Validate(c.MasterKey); err != nil {
		return fmt.Errorf("%w: MASTER_KEY: %v", ErrInvalidConfig, err)
	}

	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// secondsFromEnv reads a whole number of seconds. Unlike env.GetInt, a value that does not
// parse is an error rather than a silent fallback to the default.
func secondsFromEnv(key string, def int64) (time.Duration, error) {
	raw := strings.TrimSpace(env.GetString(key, ""))
	if raw == "" {
		return time.Duration(def) * time.Second, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidConfig, key, raw)
	}
	return time.Duration(n) * time.Second, nil
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
