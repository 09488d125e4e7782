package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "root", cfg.RootName)
	assert.Equal(t, "", cfg.LoggerDirectory)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.HookTimeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hermes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_name: myroot\nlogger_directory: /var/lib/hermes\n"), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "myroot", cfg.RootName)
	assert.Equal(t, "/var/lib/hermes", cfg.LoggerDirectory)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hermes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_name: fromfile\n"), 0o644))

	t.Setenv("HERMES_ROOT_NAME", "fromenv")

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.RootName)
}

func TestRejectsEmptyRootName(t *testing.T) {
	v := viper.New()
	v.Set("root_name", "")
	_, err := Load(v, "")
	require.Error(t, err)
}
