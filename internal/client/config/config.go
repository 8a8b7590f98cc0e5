package config

import "time"

// Storage scopes.
const (
	ScopeSession = "session"
	ScopeDurable = "durable"
)

// Durable storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// S3Config holds settings of the S3-compatible slot backend.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
}

// Config holds runtime settings for the SafeScan CLI.
//
// Fields:
//   - Endpoints: backend base URLs, tried in order for every call.
//   - RequestTimeout: bound for a single attempt; zero disables it.
//   - FallbackOnServerErrors: also move to the next endpoint on 5xx.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - MultiProfile: whether the backend supports several profiles.
//   - StorageScope: "session" (in memory) or "durable".
//   - StorageBackend / DatabaseDSN / S3: where durable state lives.
//   - CameraCommand: external decoder used by the scanner.
//   - LogFormat / LogLevel: logger selection.
type Config struct {
	Endpoints              []string
	RequestTimeout         time.Duration
	FallbackOnServerErrors bool
	OnlineCheckInterval    time.Duration
	MultiProfile           bool
	StorageScope           string
	StorageBackend         string
	DatabaseDSN            string
	S3                     S3Config
	CameraCommand          string
	LogFormat              string
	LogLevel               string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Endpoints = []string{"http://127.0.0.1:8080", "http://localhost:5000"}
	c.RequestTimeout = 0
	c.FallbackOnServerErrors = false
	c.OnlineCheckInterval = 3 * time.Second
	c.MultiProfile = true
	c.StorageScope = ScopeDurable
	c.StorageBackend = BackendSQLite
	c.DatabaseDSN = "safescan.db"
	c.S3 = S3Config{
		Bucket:       "safescan",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
		Prefix:       "slots",
	}
	c.CameraCommand = "zbarcam --raw --nodisplay"
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a config file (if given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
