package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.True(t, c.Server.CORS)
	assert.Equal(t, "local", c.Source.Type)
	assert.Equal(t, 300*time.Second, c.Cache.SnapshotTTL)
	assert.Equal(t, 600*time.Second, c.Cache.HistoryTTL)
	assert.Equal(t, 10*time.Second, c.Source.Timeout)
	assert.Equal(t, 30, c.Access.ValidityDays)
	assert.Equal(t, 2, c.Access.PreviewLimit)
	assert.Equal(t, DefaultAccessKeys, c.AllowList())
}

func TestLoadKeepsExplicitFalse(t *testing.T) {
	c, err := Load(writeConfig(t, "server:\n  cors: false\nmetrics:\n  enabled: false\n"))
	require.NoError(t, err)
	assert.False(t, c.Server.CORS)
	assert.False(t, c.Metrics.Enabled)
	assert.Equal(t, "/metrics", c.Metrics.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "source:\n  type: remote\n"))
	assert.Error(t, err, "remote needs a base url")

	_, err = Load(writeConfig(t, "source:\n  type: ftp\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "access:\n  timezone: Mars/Olympus\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)
}

func TestAllowList(t *testing.T) {
	c, err := Load(writeConfig(t, "access_keys:\n  keys: [\" ef-aaaa-11112222 \", \"\", EF-BBBB-33334444]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"EF-AAAA-11112222", "EF-BBBB-33334444"}, c.AllowList())
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EF_SOURCE_TYPE", "remote")
	t.Setenv("EF_SOURCE_BASE_URL", "https://raw.example.com/eigenflow/data")
	t.Setenv("ACCESS_KEYS", "EF-1111-AAAAAAAA, EF-2222-BBBBBBBB")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "remote", c.Source.Type)
	assert.Equal(t, []string{"EF-1111-AAAAAAAA", "EF-2222-BBBBBBBB"}, c.AllowList())
	assert.Equal(t, "cache.internal", c.Cache.Redis.Host)
	assert.Equal(t, 6380, c.Cache.Redis.Port)
}

func TestLocation(t *testing.T) {
	c := Default()
	assert.Equal(t, "Asia/Shanghai", c.Location().String())
}
