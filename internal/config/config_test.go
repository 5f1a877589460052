package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_ADDR", "GRPC_ADDR", "REDIS_ADDR", "JOURNAL_DRIVER", "MYSQL_DSN", "SQLITE_PATH",
	"WORKER_COUNT", "QUEUE_SIZE", "MAX_COMMIT_RETRIES", "RANDOM_SEED", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, JournalNone, cfg.JournalDriver)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 1000, cfg.QueueSize)
	assert.Equal(t, 5, cfg.MaxCommitRetries)
	assert.Equal(t, uint64(0), cfg.RandomSeed)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOURNAL_DRIVER", "SQLite")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, JournalSQLite, cfg.JournalDriver)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, so unset them
	for _, k := range configKeys {
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9090\nQUEUE_SIZE=16\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("QUEUE_SIZE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 16, cfg.QueueSize)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad driver":     {"JOURNAL_DRIVER", "postgres"},
		"bad workers":    {"WORKER_COUNT", "many"},
		"zero workers":   {"WORKER_COUNT", "0"},
		"negative seed":  {"RANDOM_SEED", "-1"},
		"zero retries":   {"MAX_COMMIT_RETRIES", "0"},
		"negative queue": {"QUEUE_SIZE", "-5"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
