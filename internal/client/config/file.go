package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/safescan/internal/flagx"
	"github.com/dmitrijs2005/safescan/internal/timex"
)

// FileConfig is a DTO used exclusively for file decoding. Pointer fields tell
// "absent" apart from zero values, so a partial file only overrides what it sets.
type FileConfig struct {
	Endpoints              []string        `json:"endpoints" toml:"endpoints"`
	RequestTimeout         *timex.Duration `json:"request_timeout" toml:"request_timeout"`
	FallbackOnServerErrors *bool           `json:"fallback_on_server_errors" toml:"fallback_on_server_errors"`
	OnlineCheckInterval    *timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
	MultiProfile           *bool           `json:"multi_profile" toml:"multi_profile"`
	StorageScope           string          `json:"storage_scope" toml:"storage_scope"`
	StorageBackend         string          `json:"storage_backend" toml:"storage_backend"`
	DatabaseDSN            string          `json:"database_dsn" toml:"database_dsn"`
	S3                     *FileS3Config   `json:"s3" toml:"s3"`
	CameraCommand          string          `json:"camera_command" toml:"camera_command"`
	LogFormat              string          `json:"log_format" toml:"log_format"`
	LogLevel               string          `json:"log_level" toml:"log_level"`
}

type FileS3Config struct {
	Bucket       string `json:"bucket" toml:"bucket"`
	Region       string `json:"region" toml:"region"`
	BaseEndpoint string `json:"base_endpoint" toml:"base_endpoint"`
	AccessKey    string `json:"access_key" toml:"access_key"`
	SecretKey    string `json:"secret_key" toml:"secret_key"`
	Prefix       string `json:"prefix" toml:"prefix"`
}

// parseFile overlays cfg with values from the file named by -c/-config.
// Files ending in .toml are decoded as TOML, anything else as JSON.
// Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	if len(fc.Endpoints) > 0 {
		cfg.Endpoints = fc.Endpoints
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.FallbackOnServerErrors != nil {
		cfg.FallbackOnServerErrors = *fc.FallbackOnServerErrors
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.MultiProfile != nil {
		cfg.MultiProfile = *fc.MultiProfile
	}
	setString(&cfg.StorageScope, fc.StorageScope)
	setString(&cfg.StorageBackend, fc.StorageBackend)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.CameraCommand, fc.CameraCommand)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	if s := fc.S3; s != nil {
		setString(&cfg.S3.Bucket, s.Bucket)
		setString(&cfg.S3.Region, s.Region)
		setString(&cfg.S3.BaseEndpoint, s.BaseEndpoint)
		setString(&cfg.S3.AccessKey, s.AccessKey)
		setString(&cfg.S3.SecretKey, s.SecretKey)
		setString(&cfg.S3.Prefix, s.Prefix)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
