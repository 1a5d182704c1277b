package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Count)
	assert.Nil(t, cfg.Practice.DataFile)
}

func TestLoadConfigPractice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[practice]\ncount = 5\nmax-proficiency = 80\nshuffle = true\ndata-file = \"/tmp/p.json\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Count)
	assert.Equal(t, 5, *cfg.Practice.Count)
	assert.Equal(t, 80, *cfg.Practice.MaxProficiency)
	assert.True(t, *cfg.Practice.Shuffle)
	assert.Equal(t, "/tmp/p.json", *cfg.Practice.DataFile)
	assert.Nil(t, cfg.Practice.NoHistory)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice\ncount = "), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvDataFile+"=/srv/progress.json\n"), 0o644))
	t.Setenv(EnvDataFile, "")
	require.NoError(t, os.Unsetenv(EnvDataFile))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	got := EnvString(EnvDataFile)
	require.NotNil(t, got)
	assert.Equal(t, "/srv/progress.json", *got)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", AppName, "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", AppName, "history.db"), DefaultHistoryPath())
	assert.Equal(t, filepath.Join("data", "learning_data.json"), DefaultDataPath())
}
