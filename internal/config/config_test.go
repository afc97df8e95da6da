package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"draftcoach/internal/cache"
	"draftcoach/internal/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_Defaults tests the values used when nothing is set
func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "26.4", cfg.DefaultPatch)
	assert.Equal(t, "127.0.0.1:3210", cfg.Addr())
	assert.Equal(t, cache.BackendFile, cfg.CacheBackend)
	assert.Equal(t, "build-cache.json", filepath.Base(cfg.CachePath))
	assert.Equal(t, 24*time.Hour, cfg.CacheFresh)
	assert.Equal(t, 3, cfg.Attempts)
	assert.Equal(t, time.Second, cfg.BaseDelay)
	assert.Equal(t, time.Hour, cfg.DDragonVersionTTL)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, resolve.DefaultPolicy(), cfg.ResolvePolicy())
	assert.Equal(t, resolve.DefaultIDPolicy(), cfg.IDPolicy())
	assert.Error(t, cfg.RequireGemini())
}

// TestParse_Overrides tests reading every group from the environment
func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"GEMINI_API_KEY":        "key",
		"BACKEND_PORT":          "8080",
		"CACHE_BACKEND":         "sqlite",
		"CACHE_FRESHNESS":       "12h",
		"GENERATION_ATTEMPTS":   "5",
		"RESOLVE_THRESHOLD":     "0.5",
		"ITEMID_CEILING":        "8000",
		"DDRAGON_LOCALE":        "ko_KR",
		"GENERATION_BASE_DELAY": "250ms",
	})
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireGemini())
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "build-cache.db", filepath.Base(cfg.CachePath))
	assert.Equal(t, 12*time.Hour, cfg.CacheFresh)
	assert.Equal(t, 5, cfg.Attempts)
	assert.Equal(t, 250*time.Millisecond, cfg.BaseDelay)
	assert.Equal(t, 0.5, cfg.ResolvePolicy().Threshold)
	assert.Equal(t, 8000, cfg.IDPolicy().Ceiling)
	assert.Equal(t, "ko_KR", cfg.DDragonLocale)

	opts := cfg.CacheOptions()
	assert.Equal(t, cache.BackendSQLite, opts.Backend)
	assert.Equal(t, cfg.CachePath, opts.Path)
	assert.Equal(t, "key", cfg.Gemini().APIKey)
}

// TestParse_Invalid tests rejected configurations
func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown backend", map[string]string{"CACHE_BACKEND": "redis"}},
		{"turso without url", map[string]string{"CACHE_BACKEND": "turso"}},
		{"postgres without url", map[string]string{"CACHE_BACKEND": "postgres"}},
		{"port", map[string]string{"BACKEND_PORT": "70000"}},
		{"freshness", map[string]string{"CACHE_FRESHNESS": "0s"}},
		{"attempts", map[string]string{"GENERATION_ATTEMPTS": "0"}},
		{"threshold", map[string]string{"RESOLVE_THRESHOLD": "1.5"}},
		{"id lengths", map[string]string{"ITEMID_BASE_LEN": "6"}},
		{"not a duration", map[string]string{"CACHE_FRESHNESS": "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.environ)
			assert.Error(t, err)
		})
	}
}

// TestParse_PostgresWithURL tests that a configured remote backend validates
func TestParse_PostgresWithURL(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"CACHE_BACKEND": "postgres",
		"DATABASE_URL":  "postgres://localhost/draftcoach",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/draftcoach", cfg.CacheOptions().DatabaseURL)
}

// TestLoadDotEnv tests that the first existing file is loaded
func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DRAFTCOACH_TEST_VALUE=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("DRAFTCOACH_TEST_VALUE") })

	loaded := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("DRAFTCOACH_TEST_VALUE"))

	assert.Empty(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
