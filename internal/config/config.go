package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   int

	// Supabase PostgREST endpoint + privileged service role key. Either may
	// be absent: the server still starts and answers every submission with a
	// 500 "server not configured" instead of crashing.
	SupabaseURL        string
	SupabaseServiceKey string
	LeadsTable         string
	DashboardView      string
	SupabaseTimeout    time.Duration

	// CORS allow-list; empty means wildcard.
	CORSAllowedOrigins []string

	// IP geolocation enrichment.
	GeoIPEnabled bool
	GeoIPBaseURL string
	GeoIPTimeout time.Duration

	DashboardLimit int

	// Directory holding the browser attribution script; empty disables the
	// /static/ route.
	StaticDir string

	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.Port = getInt("PORT", 8080)

	cfg.SupabaseURL = getEnv("SUPABASE_URL", "")
	cfg.SupabaseServiceKey = firstNonEmpty(
		os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		os.Getenv("SUPABASE_SERVICE_KEY"),
	)
	cfg.LeadsTable = getEnv("SUPABASE_LEADS_TABLE", "leads")
	cfg.DashboardView = getEnv("SUPABASE_DASHBOARD_VIEW", "leads_dashboard")
	cfg.SupabaseTimeout = getDuration("SUPABASE_TIMEOUT", 10*time.Second)

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" && raw != "*" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	cfg.GeoIPEnabled = getBool("GEOIP_ENABLED", true)
	cfg.GeoIPBaseURL = getEnv("GEOIP_BASE_URL", "")
	cfg.GeoIPTimeout = getDuration("GEOIP_TIMEOUT", 3500*time.Millisecond)

	cfg.DashboardLimit = getInt("DASHBOARD_LIMIT", 200)
	cfg.StaticDir = getEnv("STATIC_DIR", "web/static")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg, nil
}

// StorageConfigured reports whether both storage credentials are present.
func (c *Config) StorageConfigured() bool {
	return strings.TrimSpace(c.SupabaseURL) != "" && strings.TrimSpace(c.SupabaseServiceKey) != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
