package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 5000, cfg.PopularMinStudent)
	assert.Equal(t, 8, cfg.PopularLimit)
	assert.Equal(t, 4.5, cfg.FeaturedMinRating)
	assert.Equal(t, 6, cfg.FeaturedLimit)
	assert.True(t, cfg.Discount().Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("POPULAR_LIMIT", "3")
	t.Setenv("DISCOUNT_RATE", "0.1")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.PopularLimit)
	assert.True(t, cfg.Discount().Equal(decimal.RequireFromString("0.1")))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := "STORE_BACKEND=postgres\nLATENCY_MIN_MS=5\nLATENCY_MAX_MS=7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	min, max := cfg.LatencyBounds()
	assert.Equal(t, 5*time.Millisecond, min)
	assert.Equal(t, 7*time.Millisecond, max)
}

func TestOrigins(t *testing.T) {
	cfg := Config{CORSOrigins: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
	assert.Empty(t, Config{}.Origins())
}
