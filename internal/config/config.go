// Package config loads the augur command line configuration.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file, AUGUR_* assignments in a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "augur.yaml"

// EnvFile holds optional AUGUR_* assignments, overridden by the real environment.
const EnvFile = ".env"

// Backend selects where run state and reified tuples are kept.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Config is the complete command line configuration.
type Config struct {
	Log         LogConfig     `mapstructure:"log" yaml:"log"`
	Backend     Backend       `mapstructure:"backend" yaml:"backend"`
	StateDir    string        `mapstructure:"state_dir" yaml:"state_dir"`
	CacheSize   int           `mapstructure:"cache_size" yaml:"cache_size"`
	LockTTL     time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	MetricsAddr string        `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	Redis       RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RedisConfig configures the redis backend and lock.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		Backend:  BackendMemory,
		StateDir: ".augur",
		LockTTL:  5 * time.Minute,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "augur:",
		},
	}
}

// envKeys maps environment variables to dotted configuration keys.
var envKeys = map[string]string{
	"AUGUR_LOG_LEVEL":      "log.level",
	"AUGUR_LOG_FORMAT":     "log.format",
	"AUGUR_BACKEND":        "backend",
	"AUGUR_STATE_DIR":      "state_dir",
	"AUGUR_CACHE_SIZE":     "cache_size",
	"AUGUR_LOCK_TTL":       "lock_ttl",
	"AUGUR_METRICS_ADDR":   "metrics_addr",
	"AUGUR_REDIS_ADDR":     "redis.addr",
	"AUGUR_REDIS_PASSWORD": "redis.password",
	"AUGUR_REDIS_DB":       "redis.db",
	"AUGUR_REDIS_PREFIX":   "redis.prefix",
	"AUGUR_REDIS_TTL":      "redis.ttl",
}

// Load reads path over the defaults and applies environment overrides.
// An empty path tries DefaultFile and tolerates its absence.
func Load(path string) (Config, error) {
	dotenv, err := godotenv.Read(EnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", EnvFile, err)
	}
	return load(path, lookupEnv(dotenv))
}

func lookupEnv(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := map[string]any{}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			set(raw, key, v)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// set writes value under a dotted key, creating nested maps as needed.
func set(raw map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Validate checks the decoded values.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("backend must be memory, file or redis, got %q", c.Backend)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}
	if c.Backend == BackendFile && c.StateDir == "" {
		return fmt.Errorf("state_dir is required for the file backend")
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis backend")
	}
	return nil
}
