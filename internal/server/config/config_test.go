package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"server"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.NotEmpty(t, c.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", ":9999", "-d", "postgres://u:p@h/db", "-s", "sk", "-t", "5")

	c := LoadConfig()

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@h/db", c.DatabaseDSN)
	assert.Equal(t, "sk", c.SecretKey)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{
		"endpoint_addr_http": ":7070",
		"database_dsn": "postgres://json/db",
		"secret_key": "json-secret",
		"access_token_validity_duration": "45m"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	withArgs(t, "-c", path)

	c := LoadConfig()

	assert.Equal(t, ":7070", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json/db", c.DatabaseDSN)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoadConfig_FlagsBeatJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_http": ":7070", "access_token_validity_duration": "45m"}`), 0o600))

	withArgs(t, "-c", path, "-a", ":6060")

	c := LoadConfig()
	assert.Equal(t, ":6060", c.EndpointAddrHTTP, "flags are applied after the JSON overlay")
}
