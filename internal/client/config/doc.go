// Package config loads runtime configuration for the SafeScan CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with SAFESCAN_ (see parseEnv). A .env
//     file in the working directory is read first if it exists.
//  3. Optional config file selected via -c or -config. Files ending in
//     .toml are decoded as TOML, everything else as JSON (see parseFile).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   comma separated backend base URLs
//	-i int      online status check interval (seconds)
//	-s string   storage scope (session|durable)
//	-d string   database DSN
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "endpoints": ["http://127.0.0.1:8080", "http://localhost:5000"],
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "multi_profile": true,
//	  "storage_scope": "durable",
//	  "storage_backend": "sqlite",
//	  "database_dsn": "safescan.db",
//	  "s3": {"bucket": "safescan", "prefix": "slots"},
//	  "log_level": "debug"
//	}
package config
