// Package config loads process configuration from the environment via small
// typed helpers, matching the rest of this backend's cmd/* binaries: no
// config file format is introduced, just os.Getenv plus a default.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// Config is the full process configuration for the hallucinator-server and
// hallucinator-check binaries.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Validator domain.ValidatorConfig
	Archive   ArchiveConfig
	ResultDB  ResultDBConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ArchiveConfig mirrors app-rs.py's hard-coded archive ingest limits
// (MAX_FILES_IN_ARCHIVE, MAX_EXTRACTED_SIZE_MB), made overridable.
type ArchiveConfig struct {
	MaxFiles          int
	MaxExtractedBytes int64
}

// ResultDBConfig configures the optional Postgres result store. Empty URL
// disables persistence entirely — the server runs stateless.
type ResultDBConfig struct {
	URL     string
	Enabled bool
}

// AdminConfig configures the single-account admin guard in front of
// /admin/watchlist. Empty PasswordHash disables the route entirely.
type AdminConfig struct {
	PasswordHash string
	JWTSecret    string
	TokenExpiry  time.Duration
}

// Load reads configuration from the environment, applying spec.md §3's
// defaults anywhere a variable is unset.
func Load() *Config {
	defaults := domain.DefaultValidatorConfig()
	return &Config{
		Server: ServerConfig{
			Port:         getEnvMulti([]string{"PORT", "SERVER_PORT"}, "8080"),
			ReadTimeout: getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			// Longer than the default analyze timeout (internal/httpapi's
			// defaultAnalyzeTimeout): net/http.Server.WriteTimeout bounds the
			// whole response write, which for /analyze/stream spans the SSE
			// connection's entire lifetime.
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Validator: domain.ValidatorConfig{
			NumWorkers:           getEnvInt("VALIDATOR_WORKERS", defaults.NumWorkers),
			DbTimeout:            getDurationEnv("VALIDATOR_DB_TIMEOUT", defaults.DbTimeout),
			DbTimeoutShort:       getDurationEnv("VALIDATOR_DB_TIMEOUT_SHORT", defaults.DbTimeoutShort),
			DisabledDbs:          parseDisabledDbs(getEnv("VALIDATOR_DISABLED_DBS", "")),
			CheckOpenAlexAuthors: getEnvBool("VALIDATOR_CHECK_OPENALEX_AUTHORS", false),
			OpenAlexKey:          getEnv("OPENALEX_KEY", ""),
			S2ApiKey:             getEnv("S2_API_KEY", ""),
			CrossrefMailto:       getEnv("CROSSREF_MAILTO", ""),
			DblpOfflinePath:      getEnv("DBLP_OFFLINE_PATH", ""),
			AclOfflinePath:       getEnv("ACL_OFFLINE_PATH", ""),
			RetractionListPath:   getEnv("RETRACTION_WATCHLIST_PATH", ""),
			MaxRateLimitRetries:  getEnvInt("VALIDATOR_MAX_RATE_LIMIT_RETRIES", defaults.MaxRateLimitRetries),
		},
		Archive: ArchiveConfig{
			MaxFiles:          getEnvInt("ARCHIVE_MAX_FILES", 50),
			MaxExtractedBytes: int64(getEnvInt("ARCHIVE_MAX_EXTRACTED_MB", 500)) * 1024 * 1024,
		},
		ResultDB: ResultDBConfig{
			URL:     getEnv("RESULT_DATABASE_URL", ""),
			Enabled: getEnv("RESULT_DATABASE_URL", "") != "",
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("ADMIN_JWT_SECRET", "change-me-in-production"),
			TokenExpiry:  getDurationEnv("ADMIN_TOKEN_EXPIRY", time.Hour),
		},
	}
}

func parseDisabledDbs(raw string) map[string]bool {
	disabled := map[string]bool{}
	if raw == "" {
		return disabled
	}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			disabled[name] = true
		}
	}
	return disabled
}

func getEnvMulti(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
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

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
