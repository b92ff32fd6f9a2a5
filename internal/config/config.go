package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the dashboard API.
type Config struct {
	ListenAddr string
	DBDSN      string

	JWTSecret string

	GeminiAPIKey  string
	ApifyAPIToken string

	// Ordered model fallback list: first entry is tried first.
	ModelFallback      []string
	DefaultStreamModel string

	KeywordXLSXPath string

	AdminEmails     map[string]bool
	ContactEmail    string
	DefaultMaxUsage int
	AdminMaxUsage   int

	ScrapeTimeout   time.Duration
	GenerateTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where sensible and failing with the full list of missing required keys.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		DBDSN:              os.Getenv("DB_DSN"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		ApifyAPIToken:      os.Getenv("APIFY_API_TOKEN"),
		ModelFallback:      splitList(getEnv("GEO_MODEL_FALLBACK", "gemini-3-flash-preview,gemini-2.5-flash,gemini-2.5-pro")),
		DefaultStreamModel: getEnv("DEFAULT_STREAM_MODEL", "gemini-2.5-flash"),
		KeywordXLSXPath:    getEnv("KEYWORD_XLSX_PATH", "data.xlsx"),
		AdminEmails:        emailSet(os.Getenv("ADMIN_EMAILS")),
		ContactEmail:       getEnv("CONTACT_EMAIL", "support@example.com"),
		DefaultMaxUsage:    getInt("DEFAULT_MAX_USAGE", 10),
		AdminMaxUsage:      getInt("ADMIN_MAX_USAGE", 999999),
		ScrapeTimeout:      time.Second * time.Duration(getInt("SCRAPE_TIMEOUT_SECONDS", 120)),
		GenerateTimeout:    time.Second * time.Duration(getInt("GENERATE_TIMEOUT_SECONDS", 120)),
	}

	var missing []string
	if cfg.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	// APIFY_API_TOKEN is deliberately not required at startup: a missing
	// scraping credential surfaces as an external-service error at collect
	// time so the rest of the dashboard keeps working.
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}
	if len(cfg.ModelFallback) == 0 {
		return Config{}, fmt.Errorf("GEO_MODEL_FALLBACK must name at least one model")
	}

	return cfg, nil
}

// IsAdmin reports whether the email belongs to the configured
// administrator allow-list.
func (c Config) IsAdmin(email string) bool {
	return c.AdminEmails[strings.ToLower(strings.TrimSpace(email))]
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func emailSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, email := range splitList(raw) {
		set[strings.ToLower(email)] = true
	}
	return set
}
