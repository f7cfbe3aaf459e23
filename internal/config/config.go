package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite = "sqlite" // local database file (default)
	BackendRedis  = "redis"  // shared Redis server
	BackendMemory = "memory" // process-local, nothing survives exit
)

// DirName is the per-directory config folder (mirrors ~/.tasktracker).
const DirName = ".tasktracker"

// Config represents the tasktracker configuration.
type Config struct {
	Version string        `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Key         string `yaml:"key"`                    // key the task collection is stored under
	SQLitePath  string `yaml:"sqlite_path,omitempty"`  // empty = ~/.tasktracker/tasktracker.db
	RedisURL    string `yaml:"redis_url,omitempty"`    // redis://host:port/db
	RedisPrefix string `yaml:"redis_prefix,omitempty"` // key namespace
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			Key:         "tasks",
			RedisPrefix: "tasktracker",
		},
		HTTP: HTTPConfig{Addr: "127.0.0.1:8080"},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ConfigPath returns the config file path under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, DirName, "config.yaml")
}

// LoadConfig reads .tasktracker/config.yaml from the specified directory,
// layered over the defaults. Returns error if no config found.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()
	if err := loadFile(ConfigPath(dir), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.yaml to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective configuration.
// Resolution order: defaults, ~/.tasktracker/config.yaml, ./.tasktracker/config.yaml,
// .env in the working directory, then TASKTRACKER_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(ConfigPath(home), cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if err := loadFile(ConfigPath(cwd), cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the storage settings are usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage backend %q requires redis_url (or TASKTRACKER_REDIS_URL)", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, redis, or memory)", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	cfg.Storage.Backend = getEnv("TASKTRACKER_STORAGE", cfg.Storage.Backend)
	cfg.Storage.Key = getEnv("TASKTRACKER_STORAGE_KEY", cfg.Storage.Key)
	cfg.Storage.SQLitePath = getEnv("TASKTRACKER_SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.RedisURL = getEnv("TASKTRACKER_REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.RedisPrefix = getEnv("TASKTRACKER_REDIS_PREFIX", cfg.Storage.RedisPrefix)
	cfg.HTTP.Addr = getEnv("TASKTRACKER_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Log.Level = getEnv("TASKTRACKER_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("TASKTRACKER_LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
