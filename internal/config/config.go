package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	DatabaseURL     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// Report schema and page layout overrides (0 keeps the schema value)
	SchemaName                string
	LayoutCharsPerLine        int
	LayoutMaxLines            int
	LayoutMaxLinesWithHeading int
	LayoutRowsPerTablePage    int
	// Object storage for uploaded images
	GCSBucket    string
	GCSCDNDomain string
	// Rendered page cache, disabled when RedisAddr is empty
	RedisAddr    string
	PageCacheTTL time.Duration
	// Log file output, disabled when LogDir is empty
	LogDir      string
	LogMaxFiles int
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	jwksURL := getEnv("JWKS_URL", supabaseURL+"/auth/v1/.well-known/jwks.json")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,

		SchemaName:                getEnv("REPORT_SCHEMA", "internship"),
		LayoutCharsPerLine:        getEnvInt("LAYOUT_CHARS_PER_LINE", 0),
		LayoutMaxLines:            getEnvInt("LAYOUT_MAX_LINES", 0),
		LayoutMaxLinesWithHeading: getEnvInt("LAYOUT_MAX_LINES_WITH_HEADING", 0),
		LayoutRowsPerTablePage:    getEnvInt("LAYOUT_ROWS_PER_TABLE_PAGE", 0),

		GCSBucket:    getEnv("GCS_BUCKET", ""),
		GCSCDNDomain: getEnv("GCS_CDN_DOMAIN", ""),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PageCacheTTL: getEnvDuration("PAGE_CACHE_TTL", 24*time.Hour),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
