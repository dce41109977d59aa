package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iReady/iReady-Backend/internal/placement"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "POI_SOURCE", "CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/iready")

	cfg := LoadFromEnv()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, POISourceFile, cfg.POISource)
	assert.False(t, cfg.Production())
	assert.Equal(t, defaultOrigins, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("POI_SOURCE", "DB")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg := LoadFromEnv()

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, POISourceDB, cfg.POISource)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Config{Port: "abc", POISource: POISourceFile}

	err := cfg.Validate()

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "POIS_FILE")
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}

func TestLoadFromEnv_UnparsableLimits(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/iready")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_BURST", "1.5")

	cfg := LoadFromEnv()

	assert.Equal(t, float64(DefaultRateLimitRPS), cfg.RateLimitRPS)
	assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst)
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), `RATE_LIMIT_RPS must be a number, got "fast"`)
	assert.Contains(t, err.Error(), `RATE_LIMIT_BURST must be an integer, got "1.5"`)
}

func TestLoadFromEnv_TrustedProxies(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/iready")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg := LoadFromEnv()
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	require.NoError(t, cfg.Validate())

	cfg.TrustedProxies = append(cfg.TrustedProxies, "proxy.internal")
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "proxy.internal")
}

func TestLoadLayout_NoFile(t *testing.T) {
	layout, err := LoadLayout("")
	require.NoError(t, err)
	assert.Equal(t, placement.DefaultLayout(), layout)
}

func TestLoadLayout_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.yaml")
	doc := `
display_count: 12
land:
  min_lat: 14.0
  max_lat: 14.5
  min_lon: 120.5
  max_lon: 121.0
water_keywords: [estero, creek]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	layout, err := LoadLayout(path)

	require.NoError(t, err)
	assert.Equal(t, 12, layout.Count)
	assert.Equal(t, placement.BoundingBox{MinLat: 14.0, MaxLat: 14.5, MinLon: 120.5, MaxLon: 121.0}, layout.Land)
	assert.Equal(t, placement.RegionBox, layout.Region)
	assert.Equal(t, []string{"estero", "creek"}, layout.WaterKeywords)
}

func TestParseLayout_RejectsInvertedBox(t *testing.T) {
	_, err := ParseLayout([]byte("region: {min_lat: 15, max_lat: 14, min_lon: 120, max_lon: 121}"))
	require.ErrorIs(t, err, ErrInvalidBox)
}

func TestParseLayout_RejectsZeroCount(t *testing.T) {
	_, err := ParseLayout([]byte("display_count: 0"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadLayout_MissingFile(t *testing.T) {
	_, err := LoadLayout(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
