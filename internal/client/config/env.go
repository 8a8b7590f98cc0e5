package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/safescan/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SAFESCAN_"

// parseEnv overlays cfg with SAFESCAN_* variables. A .env file in the working
// directory is loaded first when present; real environment variables win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.Endpoints = getlist("ENDPOINTS", cfg.Endpoints)
	cfg.RequestTimeout = getdur("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.FallbackOnServerErrors = getbool("FALLBACK_ON_SERVER_ERRORS", cfg.FallbackOnServerErrors)
	cfg.OnlineCheckInterval = getdur("ONLINE_CHECK_INTERVAL", cfg.OnlineCheckInterval)
	cfg.MultiProfile = getbool("MULTI_PROFILE", cfg.MultiProfile)
	cfg.StorageScope = getenv("STORAGE_SCOPE", cfg.StorageScope)
	cfg.StorageBackend = getenv("STORAGE_BACKEND", cfg.StorageBackend)
	cfg.DatabaseDSN = getenv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.S3.Bucket = getenv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getenv("S3_REGION", cfg.S3.Region)
	cfg.S3.BaseEndpoint = getenv("S3_BASE_ENDPOINT", cfg.S3.BaseEndpoint)
	cfg.S3.AccessKey = getenv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getenv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Prefix = getenv("S3_PREFIX", cfg.S3.Prefix)
	cfg.CameraCommand = getenv("CAMERA_COMMAND", cfg.CameraCommand)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok && v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// getdur accepts "3s" style durations and bare integers (seconds).
func getdur(k string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(EnvPrefix + k)
	if !ok || v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func getlist(k string, def []string) []string {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok && v != "" {
		if l := flagx.SplitList(v); len(l) > 0 {
			return l
		}
	}
	return def
}
