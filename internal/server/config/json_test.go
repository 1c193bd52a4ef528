package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc":             "www.example:9000",
		"metrics_addr":                   ":9100",
		"database_dsn":                   "postgres://x",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"avatar_url_validity_duration":   "2h",
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
		"log_level":                      "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		want := &Config{
			EndpointAddrGRPC:            "www.example:9000",
			MetricsAddr:                 ":9100",
			DatabaseDSN:                 "postgres://x",
			SecretKey:                   "my_secret_key",
			AccessTokenValidityDuration: time.Minute,
			AvatarURLValidityDuration:   2 * time.Hour,
			S3RootUser:                  "user",
			S3RootPassword:              "password",
			S3Bucket:                    "bucket",
			S3Region:                    "region",
			S3BaseEndpoint:              "base_endpoint",
			LogLevel:                    "warn",
		}
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("no config flag leaves values unchanged", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{SecretKey: "keep"}
		parseJson(cfg)

		assert.Equal(t, "keep", cfg.SecretKey)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
