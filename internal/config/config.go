// Package config resolves runtime settings from flags, CVRGUIDE_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. CVRGUIDE_REDIS_ADDR.
const EnvPrefix = "CVRGUIDE"

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// Keys shared by flags, env and config file.
const (
	KeyConfig        = "config"
	KeyPort          = "port"
	KeyStore         = "store"
	KeyRedisAddr     = "redis-addr"
	KeyRedisPassword = "redis-password"
	KeyRedisDB       = "redis-db"
	KeyRedisPrefix   = "redis-prefix"
	KeySessionTTL    = "session-ttl"
	KeySessionDir    = "session-dir"
	KeyLock          = "distributed-lock"
	KeyLockTTL       = "lock-ttl"
	KeyCatalog       = "catalog"
	KeyLogLevel      = "log-level"
	KeyMaxInputSize  = "max-input-size"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Config struct {
	Port  int
	Store string
	Redis RedisConfig

	SessionTTL time.Duration
	// SessionDir is the file store location.
	SessionDir string

	DistributedLock bool
	LockTTL         time.Duration

	// CatalogFile replaces the embedded catalog when set.
	CatalogFile string

	LogLevel     slog.Level
	MaxInputSize int
}

// RegisterFlags declares every setting on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "Path to config file (yaml, toml or json)")
	fs.Int(KeyPort, 8080, "HTTP port")
	fs.String(KeyStore, StoreMemory, "Session store: memory, redis or file")
	fs.String(KeyRedisAddr, "localhost:6379", "Redis host:port")
	fs.String(KeyRedisPassword, "", "Redis password")
	fs.Int(KeyRedisDB, 0, "Redis database")
	fs.String(KeyRedisPrefix, "cvrguide:session:", "Redis key prefix")
	fs.Duration(KeySessionTTL, 24*time.Hour, "Idle session expiry (0 keeps sessions forever)")
	fs.String(KeySessionDir, ".cvrguide/sessions", "Directory of the file store")
	fs.Bool(KeyLock, false, "Serialize turns across replicas with a Redis lock")
	fs.Duration(KeyLockTTL, 30*time.Second, "Distributed lock expiry")
	fs.String(KeyCatalog, "", "Catalog YAML file (defaults to the embedded INEC catalog)")
	fs.String(KeyLogLevel, "info", "Log level: debug, info, warn or error")
	fs.Int(KeyMaxInputSize, 4096, "Maximum message size in bytes")
}

// Load resolves the configuration. fs must have been populated by RegisterFlags.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	level, err := logging.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:  v.GetInt(KeyPort),
		Store: strings.ToLower(v.GetString(KeyStore)),
		Redis: RedisConfig{
			Addr:     v.GetString(KeyRedisAddr),
			Password: v.GetString(KeyRedisPassword),
			DB:       v.GetInt(KeyRedisDB),
			Prefix:   v.GetString(KeyRedisPrefix),
		},
		SessionTTL:      v.GetDuration(KeySessionTTL),
		SessionDir:      v.GetString(KeySessionDir),
		DistributedLock: v.GetBool(KeyLock),
		LockTTL:         v.GetDuration(KeyLockTTL),
		CatalogFile:     v.GetString(KeyCatalog),
		LogLevel:        level,
		MaxInputSize:    v.GetInt(KeyMaxInputSize),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory, StoreRedis, StoreFile:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DistributedLock && c.Store != StoreRedis {
		errs = append(errs, errors.New("distributed lock requires the redis store"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session ttl must not be negative"))
	}
	if c.DistributedLock && c.LockTTL <= 0 {
		errs = append(errs, errors.New("lock ttl must be positive"))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, errors.New("max input size must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
