package environment

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	URL      string        `env:"URL" default:"postgres://localhost"`
	MaxConns int           `env:"MAX_CONNS" default:"25"`
	Limit    int64         `env:"LIMIT"`
	Timeout  time.Duration `env:"TIMEOUT" default:"5s"`
	Debug    bool          `env:"DEBUG" default:"false"`
	Origins  []string      `env:"ORIGINS" separator:"|"`
	Ratio    float64       `env:"RATIO" default:"0.5"`
	Level    slog.Level    `env:"LEVEL" default:"INFO"`
	Skipped  string
	hidden   string `env:"HIDDEN"`

	Pool struct {
		Size uint16 `env:"POOL_SIZE" default:"8"`
	}
}

func TestParseEnvTagsDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, ParseEnvTags("TESTAPP", &cfg))

	require.Equal(t, "postgres://localhost", cfg.URL)
	require.Equal(t, 25, cfg.MaxConns)
	require.Zero(t, cfg.Limit)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.False(t, cfg.Debug)
	require.Nil(t, cfg.Origins)
	require.Equal(t, 0.5, cfg.Ratio)
	require.Equal(t, slog.LevelInfo, cfg.Level)
	require.EqualValues(t, 8, cfg.Pool.Size)
	require.Empty(t, cfg.hidden)
}

func TestParseEnvTagsFromEnv(t *testing.T) {
	t.Setenv("TESTAPP_URL", "postgres://db:5432/eventhub")
	t.Setenv("TESTAPP_MAX_CONNS", "4")
	t.Setenv("TESTAPP_LIMIT", "9000000000")
	t.Setenv("TESTAPP_TIMEOUT", "1m30s")
	t.Setenv("TESTAPP_DEBUG", "true")
	t.Setenv("TESTAPP_ORIGINS", "https://a.example | https://b.example")
	t.Setenv("TESTAPP_LEVEL", "warn")
	t.Setenv("TESTAPP_POOL_SIZE", "2")

	var cfg testConfig
	require.NoError(t, ParseEnvTags("TESTAPP", &cfg))

	require.Equal(t, "postgres://db:5432/eventhub", cfg.URL)
	require.Equal(t, 4, cfg.MaxConns)
	require.EqualValues(t, 9000000000, cfg.Limit)
	require.Equal(t, 90*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	require.Equal(t, slog.LevelWarn, cfg.Level)
	require.EqualValues(t, 2, cfg.Pool.Size)
}

func TestParseEnvTagsErrors(t *testing.T) {
	var cfg testConfig
	require.Error(t, ParseEnvTags("TESTAPP", cfg))

	t.Setenv("TESTAPP_TIMEOUT", "soon")
	t.Setenv("TESTAPP_POOL_SIZE", "-1")
	err := ParseEnvTags("TESTAPP", &cfg)
	require.ErrorContains(t, err, "Timeout (TESTAPP_TIMEOUT)")
	require.ErrorContains(t, err, "Size (TESTAPP_POOL_SIZE)")

	var required struct {
		Key string `env:"KEY" required:"true"`
	}
	require.EqualError(t, ParseEnvTags("TESTAPP", &required), "required environment variable TESTAPP_KEY is not set")

	var unsupported struct {
		Sizes []int `env:"SIZES" default:"1,2"`
	}
	require.ErrorContains(t, ParseEnvTags("TESTAPP", &unsupported), "unsupported slice type")
}

func TestGetEnvKeyPrefix(t *testing.T) {
	require.Equal(t, "EVENTHUB_LOG_LEVEL", GetEnvKeyPrefix("EVENTHUB", "LOG_LEVEL"))
	require.Equal(t, "LOG_LEVEL", GetEnvKeyPrefix("", "LOG_LEVEL"))
}

func TestGetPrefixEnvOrDefault(t *testing.T) {
	require.Equal(t, "fallback", GetPrefixEnvOrDefault("TESTAPP", "UNSET_KEY", "fallback"))

	t.Setenv("TESTAPP_SET_KEY", "")
	require.Equal(t, "", GetPrefixEnvOrDefault("TESTAPP", "SET_KEY", "fallback"))
}

func TestLoadPath(t *testing.T) {
	require.NoError(t, LoadPath(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TESTAPP_FROM_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TESTAPP_FROM_FILE") })

	require.NoError(t, LoadPath(path))
	require.Equal(t, "loaded", os.Getenv("TESTAPP_FROM_FILE"))
}
