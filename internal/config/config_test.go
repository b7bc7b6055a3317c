package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "TABLE_PREFIX", "SUPABASE_URL", "JWKS_URL", "DEFAULT_MODEL", "LLM_TEMPERATURE", "TMDB_TIMEOUT", "STORAGE_BACKEND", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, "gpt-3.5-turbo", cfg.DefaultModel)
	assert.InDelta(t, 1.1, cfg.LLMTemperature, 0.0001)
	assert.Equal(t, 8*time.Second, cfg.TMDBTimeout)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_JWKSURL(t *testing.T) {
	tests := []struct {
		name        string
		supabaseURL string
		jwksURL     string
		expected    string
	}{
		{"derived from supabase", "https://x.supabase.co/", "", "https://x.supabase.co/auth/v1/.well-known/jwks.json"},
		{"explicit override", "https://x.supabase.co", "https://auth.example.com/jwks", "https://auth.example.com/jwks"},
		{"none", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", tt.supabaseURL)
			t.Setenv("JWKS_URL", tt.jwksURL)

			cfg := Load()
			assert.Equal(t, tt.expected, cfg.SupabaseJWKSURL)
		})
	}
}

func TestLoad_ProdDisablesDebug(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DEBUG", "")
	t.Setenv("TABLE_PREFIX", "")

	cfg := Load()
	assert.False(t, cfg.Debug)
	assert.Equal(t, "prod_", cfg.TablePrefix)
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"movierec-2024-01-01T00-00-00.log",
		"movierec-2024-01-02T00-00-00.log",
		"movierec-2024-01-03T00-00-00.log",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	left, err := filepath.Glob(filepath.Join(dir, "movierec-*.log"))
	require.NoError(t, err)
	assert.Len(t, left, 2)
	assert.NotContains(t, left, filepath.Join(dir, names[0]))
}
