package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// StoreFirestore selects the hosted Firestore backend.
	StoreFirestore = "firestore"
	// StoreMemory selects the in-process store, for local runs.
	StoreMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	AppEnv                           string        `mapstructure:"APP_ENV"`
	StoreBackend                     string        `mapstructure:"STORE_BACKEND"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	RedisAddr                        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int           `mapstructure:"REDIS_DB"`
	IdentityCacheTTL                 time.Duration `mapstructure:"IDENTITY_CACHE_TTL"`
	ActivityAsync                    bool          `mapstructure:"ACTIVITY_ASYNC"`
	ActivityWriteTimeout             time.Duration `mapstructure:"ACTIVITY_WRITE_TIMEOUT"`
	ActivityQueueURL                 string        `mapstructure:"ACTIVITY_QUEUE_URL"`
	ActivityQueueName                string        `mapstructure:"ACTIVITY_QUEUE_NAME"`
	ShutdownTimeout                  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	MetricsEnabled                   bool          `mapstructure:"METRICS_ENABLED"`
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"APP_ENV",
	"STORE_BACKEND",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"CLIENT_URL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"IDENTITY_CACHE_TTL",
	"ACTIVITY_ASYNC",
	"ACTIVITY_WRITE_TIMEOUT",
	"ACTIVITY_QUEUE_URL",
	"ACTIVITY_QUEUE_NAME",
	"SHUTDOWN_TIMEOUT",
	"METRICS_ENABLED",
}

// LoadConfig loads configuration from environment variables and, when CONFIG_FILE
// is set, from that file (any format viper understands). Environment wins.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_BACKEND", StoreFirestore)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDENTITY_CACHE_TTL", "5m")
	v.SetDefault("ACTIVITY_ASYNC", true)
	v.SetDefault("ACTIVITY_WRITE_TIMEOUT", "5s")
	v.SetDefault("ACTIVITY_QUEUE_NAME", "user-activity")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("METRICS_ENABLED", true)

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	if err := v.BindEnv("CONFIG_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind env CONFIG_FILE: %w", err)
	}
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations LoadConfig cannot express as defaults.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when STORE_BACKEND is firestore")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	if c.IdentityCacheTTL < 0 {
		return errors.New("IDENTITY_CACHE_TTL cannot be negative")
	}
	if c.ActivityWriteTimeout <= 0 {
		return errors.New("ACTIVITY_WRITE_TIMEOUT must be positive")
	}
	if c.ActivityQueueURL != "" && strings.TrimSpace(c.ActivityQueueName) == "" {
		return errors.New("ACTIVITY_QUEUE_NAME is required when ACTIVITY_QUEUE_URL is set")
	}
	return nil
}

// IsProduction reports whether the process runs with production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
