package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewright/sitewright/reporter"
	"github.com/sitewright/sitewright/telemetry"
)

func TestRunClean(t *testing.T) {
	t.Setenv(reporter.ExecutingCommandEnvVar, "")
	t.Setenv(telemetry.DisableEnvVar, "1")

	dir := t.TempDir()
	outputDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<html>"), 0o644))

	configPath := filepath.Join(dir, "sitewright.yaml")
	cfg := fmt.Sprintf("site:\n  content_dir: %s\n  output_dir: %s\n",
		filepath.Join(dir, "content"), outputDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	setFlags(t, configPath)

	require.NoError(t, runClean(cleanCmd, nil))

	assert.NoDirExists(t, outputDir)
}

func TestRunCleanMissingOutputDir(t *testing.T) {
	t.Setenv(reporter.ExecutingCommandEnvVar, "")
	t.Setenv(telemetry.DisableEnvVar, "1")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "sitewright.yaml")
	cfg := fmt.Sprintf("site:\n  content_dir: %s\n  output_dir: %s\n",
		filepath.Join(dir, "content"), filepath.Join(dir, "public"))
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	setFlags(t, configPath)

	// RemoveAll treats a missing directory as success; so does clean.
	require.NoError(t, runClean(cleanCmd, nil))
}
