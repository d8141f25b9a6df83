package config

import (
	"os"
	"strings"
)

type Config struct {
	Env      string // dev|prod
	HTTPAddr string
	LogLevel string

	DBDriver string
	DBDSN    string

	BlobBasePath string
	FilesPrefix  string

	AuthSecret string

	// First-run admin account, created at startup when the username is
	// absent from the users table.
	AdminUser string
	AdminPass string

	SentryDSN   string
	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		Env:          envOr("ENV", "dev"),
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		FilesPrefix:  envOr("FILES_PREFIX", "/files"),
		AuthSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:    envOr("ADMIN_USER", "admin"),
		AdminPass:    envOr("ADMIN_PASS", "adminpass"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
