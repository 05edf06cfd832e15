package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigName)
	content := `
server = "http://backend:5000"
download_dir = "/data/out"
theme = "light"
cookie_support = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("ELIOT_LOG_LEVEL", "debug")

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000", f.Server)
	assert.Equal(t, "/data/out", f.DownloadDir)
	assert.Equal(t, "light", f.Theme)
	assert.Equal(t, "debug", f.LogLevel)
	require.NotNil(t, f.CookieSupport)
	assert.True(t, *f.CookieSupport)
}

func TestLoadFileEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte(`server = "http://file:1"`), 0o644))
	t.Setenv("ELIOT_SERVER", "http://env:2")

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", f.Server)
}

func TestLoadFileMissing(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Empty(t, f.Server)
	assert.Nil(t, f.CookieSupport)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte("server = = ="), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestFlagsResolve(t *testing.T) {
	dir := t.TempDir()
	content := `
server = "http://file:1"
log_level = "warn"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigName), []byte(content), 0o644))

	f, err := Flags{DataDir: dir, LogLevel: "debug"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://file:1", f.Server, "file value kept without a flag")
	assert.Equal(t, "debug", f.LogLevel, "flag wins over file")
	assert.Equal(t, dir, f.DataDir)

	f, err = Flags{DataDir: dir, Server: "http://flag:2"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://flag:2", f.Server)
}

func TestFlagsResolveExplicitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.toml")
	require.NoError(t, os.WriteFile(path, []byte(`data_dir = "/from/file"`), 0o644))

	f, err := Flags{ConfigPath: path}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/from/file", f.DataDir)
}

func TestSetupLogger(t *testing.T) {
	require.NoError(t, SetupLogger(""))
	require.NoError(t, SetupLogger("DEBUG"))
	assert.Error(t, SetupLogger("loud"))
}
