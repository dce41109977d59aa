package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
)

// Common errors
var (
	ErrInvalidBox    = errors.New("invalid bounding box")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// POISource selects where points of interest are read from.
type POISource string

const (
	POISourceFile POISource = "file"
	POISourceDB   POISource = "db"
)

// Config holds the server configuration.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	LogLevel  string
	LogFormat string

	// Origins echoed back by the CORS middleware.
	CORSOrigins []string

	PredictionsFile string
	POIsFile        string
	POISource       POISource
	RegionFile      string
	StaticDir       string

	RedisAddr     string
	RedisPassword string

	NominatimURL     string
	GeocodeUserAgent string

	// Inbound per-client limits for the auth and geocode endpoints.
	RateLimitRPS   float64
	RateLimitBurst int

	// Addresses or CIDR ranges whose forwarding headers are believed.
	TrustedProxies []string

	// Values that were set but could not be parsed.
	parseErrs []string
}

// Defaults
const (
	DefaultPort             = "5050"
	DefaultPredictionsFile  = "Data/ToReceive.json"
	DefaultPOIsFile         = "server/data/navotas_pois.json"
	DefaultNominatimURL     = "https://nominatim.openstreetmap.org/search"
	DefaultGeocodeUserAgent = "iReady-App/1.0"
	DefaultRateLimitRPS     = 5
	DefaultRateLimitBurst   = 10
)

var defaultOrigins = []string{
	"http://localhost:5000",
	"http://localhost:5173",
}

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - APP_ENV: "production" turns on Secure cookies
//   - DATABASE_URL: Postgres DSN (required)
//   - LOG_LEVEL, LOG_FORMAT: zap level and "json" or "console"
//   - CORS_ORIGINS: comma separated allow-list
//   - PREDICTIONS_FILE, POIS_FILE: data files
//   - POI_SOURCE: "file" or "db" (default: file)
//   - REGION_FILE: optional YAML layout file
//   - STATIC_DIR: optional frontend build directory
//   - REDIS_ADDR, REDIS_PASSWORD: optional geocode cache
//   - NOMINATIM_URL, GEOCODE_USER_AGENT: geocoding upstream
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST: per-client limits
//   - TRUSTED_PROXIES: comma separated proxy addresses or CIDRs
func LoadFromEnv() Config {
	cfg := Config{
		Port:             envOr("PORT", DefaultPort),
		Env:              strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
		CORSOrigins:      defaultOrigins,
		PredictionsFile:  envOr("PREDICTIONS_FILE", DefaultPredictionsFile),
		POIsFile:         envOr("POIS_FILE", DefaultPOIsFile),
		POISource:        POISourceFile,
		RegionFile:       os.Getenv("REGION_FILE"),
		StaticDir:        os.Getenv("STATIC_DIR"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		NominatimURL:     envOr("NOMINATIM_URL", DefaultNominatimURL),
		GeocodeUserAgent: envOr("GEOCODE_USER_AGENT", DefaultGeocodeUserAgent),
		RateLimitRPS:     DefaultRateLimitRPS,
		RateLimitBurst:   DefaultRateLimitBurst,
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("POI_SOURCE")), string(POISourceDB)) {
		cfg.POISource = POISourceDB
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		} else {
			cfg.parseErrs = append(cfg.parseErrs, fmt.Sprintf("RATE_LIMIT_RPS must be a number, got %q", v))
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		} else {
			cfg.parseErrs = append(cfg.parseErrs, fmt.Sprintf("RATE_LIMIT_BURST must be an integer, got %q", v))
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRUSTED_PROXIES")); v != "" {
		cfg.TrustedProxies = splitList(v)
	}
	return cfg
}

// Production reports whether the server runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	errs := append([]string(nil), c.parseErrs...)

	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be 1-65535, got %q", c.Port))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.PredictionsFile == "" {
		errs = append(errs, "PREDICTIONS_FILE is required")
	}
	if c.POISource == POISourceFile && c.POIsFile == "" {
		errs = append(errs, "POIS_FILE is required when POI_SOURCE=file")
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive")
	}
	for _, p := range c.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an address or CIDR", p))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}

func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
