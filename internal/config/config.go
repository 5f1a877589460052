package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	JournalNone   = "none"
	JournalSQLite = "sqlite"
	JournalMySQL  = "mysql"
)

// Config holds application configuration
type Config struct {
	HTTPAddr         string
	GRPCAddr         string
	RedisAddr        string
	JournalDriver    string
	MySQLDSN         string
	SQLitePath       string
	WorkerCount      int
	QueueSize        int
	MaxCommitRetries int
	RandomSeed       uint64
	LogLevel         string
	LogFormat        string
}

// Load reads an optional .env file from envFile (skipped when empty or
// missing) and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:      getEnv("GRPC_ADDR", ":50051"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		JournalDriver: strings.ToLower(getEnv("JOURNAL_DRIVER", JournalNone)),
		MySQLDSN:      getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/rooms?parseTime=true"),
		SQLitePath:    getEnv("SQLITE_PATH", "bookings.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", 4); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = getEnvInt("QUEUE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.MaxCommitRetries, err = getEnvInt("MAX_COMMIT_RETRIES", 5); err != nil {
		return nil, err
	}
	if cfg.RandomSeed, err = getEnvUint("RANDOM_SEED", 0); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.JournalDriver {
	case JournalNone, JournalSQLite, JournalMySQL:
	default:
		return fmt.Errorf("JOURNAL_DRIVER must be one of none, sqlite, mysql; got %q", c.JournalDriver)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("QUEUE_SIZE must not be negative, got %d", c.QueueSize)
	}
	if c.MaxCommitRetries < 1 {
		return fmt.Errorf("MAX_COMMIT_RETRIES must be positive, got %d", c.MaxCommitRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return n, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an unsigned integer", key, value)
	}
	return n, nil
}
