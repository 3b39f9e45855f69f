package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":              ":9999",
		"database_dsn":                    "postgres://u:p@db:5432/accounts",
		"environment":                     "production",
		"cors_origin":                     "https://app.example",
		"access_token_secret":             "as",
		"refresh_token_secret":            "rs",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": "72h",
		"s3_bucket":                       "bucket",
	})
	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/accounts", cfg.DatabaseDSN)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "https://app.example", cfg.CORSOrigin)
	assert.Equal(t, "as", cfg.AccessTokenSecret)
	assert.Equal(t, "rs", cfg.RefreshTokenSecret)
	assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "bucket", cfg.S3Bucket)

	// keys absent from the file keep their defaults
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "public/temp", cfg.UploadTempDir)
}

func Test_parseJson_NoConfigFlag_NoChanges(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{EndpointAddrHTTP: ":1234", S3Bucket: "keep"}
	parseJson(cfg)

	assert.Equal(t, ":1234", cfg.EndpointAddrHTTP)
	assert.Equal(t, "keep", cfg.S3Bucket)
}

func Test_parseJson_InvalidFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "missing.json")}

	cfg := &Config{}
	require.Panics(t, func() { parseJson(cfg) })
}
