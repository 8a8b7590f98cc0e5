package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("SAFESCAN_ENDPOINTS", "http://a:1, http://b:2,")
	t.Setenv("SAFESCAN_REQUEST_TIMEOUT", "5s")
	t.Setenv("SAFESCAN_ONLINE_CHECK_INTERVAL", "7")
	t.Setenv("SAFESCAN_MULTI_PROFILE", "false")
	t.Setenv("SAFESCAN_FALLBACK_ON_SERVER_ERRORS", "true")
	t.Setenv("SAFESCAN_STORAGE_BACKEND", "s3")
	t.Setenv("SAFESCAN_S3_BUCKET", "scans")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, []string{"http://a:1", "http://b:2"}, c.Endpoints)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, 7*time.Second, c.OnlineCheckInterval)
	assert.False(t, c.MultiProfile)
	assert.True(t, c.FallbackOnServerErrors)
	assert.Equal(t, BackendS3, c.StorageBackend)
	assert.Equal(t, "scans", c.S3.Bucket)
	assert.Equal(t, "us-east-1", c.S3.Region, "unset variables keep defaults")
}

func TestParseEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("SAFESCAN_MULTI_PROFILE", "maybe")
	t.Setenv("SAFESCAN_REQUEST_TIMEOUT", "soon")
	t.Setenv("SAFESCAN_ENDPOINTS", " , ")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.True(t, c.MultiProfile)
	assert.Zero(t, c.RequestTimeout)
	assert.Len(t, c.Endpoints, 2)
}
