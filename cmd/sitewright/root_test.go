package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewright/sitewright/config"
)

// setFlags points the package-level flags at the given config path and
// restores them when the test ends.
func setFlags(t *testing.T, configPath string) {
	t.Helper()

	prevConfig, prevVerbose, prevNoColor := flagConfig, flagVerbose, flagNoColor
	flagConfig = configPath
	flagVerbose = false
	flagNoColor = false
	t.Cleanup(func() {
		flagConfig, flagVerbose, flagNoColor = prevConfig, prevVerbose, prevNoColor
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "build")
	assert.Contains(t, names, "develop")
	assert.Contains(t, names, "clean")
	assert.Contains(t, names, "version")
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	setFlags(t, config.DefaultPath)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigExplicitPathMissing(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitewright.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  title: My Site
  content_dir: src
  output_dir: out
develop:
  debounce: 1s
`), 0o644))
	setFlags(t, path)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "My Site", cfg.Site.Title)
	assert.Equal(t, "src", cfg.Site.ContentDir)
	assert.Equal(t, "out", cfg.Site.OutputDir)
	assert.Equal(t, "1s", cfg.Develop.Debounce.String())
	assert.False(t, cfg.Output.Verbose)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	setFlags(t, config.DefaultPath)
	flagVerbose = true
	flagNoColor = true

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Output.Verbose)
	assert.True(t, cfg.Output.NoColor)
}
