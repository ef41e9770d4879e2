package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "[Portal Gun]", cfg.Rules.SubsystemMarker)
	assert.Equal(t, "JobUtility.TryStartErrorRecoverJob", cfg.Rules.JobError)
	assert.Equal(t, "TryReuseExistingPortal", cfg.Rules.Recursion)
	assert.Equal(t, 5, cfg.Repetition.Threshold)
	assert.False(t, cfg.Repetition.FlushTrailing)
	assert.Equal(t, 10, cfg.Report.Top)
	assert.Equal(t, 5, cfg.Report.Samples)
	assert.Equal(t, 100, cfg.Report.Truncate)
	assert.Equal(t, 160, cfg.Preview.Lines)
	assert.Equal(t, []string{".xml"}, cfg.Search.Extensions)
	assert.Equal(t, 4, cfg.Search.Context)
}

// chdirTemp isolates a test from config files in the working and home directories
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	return tmpDir
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "text", cfg.Format)
		assert.Empty(t, ConfigFile())
	})

	t.Run("finds config in working directory", func(t *testing.T) {
		dir := chdirTemp(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".logscan.yaml"), []byte("format: ndjson\n"), 0644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ndjson", cfg.Format)
		assert.Equal(t, filepath.Join(dir, ".logscan.yaml"), ConfigFile())
	})

	t.Run("finds config in XDG directory", func(t *testing.T) {
		dir := chdirTemp(t)
		appDir := filepath.Join(dir, ".config", "logscan")
		require.NoError(t, os.MkdirAll(appDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(appDir, "config.yaml"), []byte("repetition:\n  threshold: 9\n"), 0644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Repetition.Threshold)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configContent := `
format: ndjson
log_level: debug
quiet: true
verbose: true
rules:
  subsystem_marker: "[Teleporter]"
  subsystem_warning: Teleporter
  job_warning: JobDriver
  path_follower: Pather
  job_error: JobDriver.Fail
  recursion: TryReuse
repetition:
  threshold: 8
  flush_trailing: true
report:
  path: /tmp/report.txt
  top: 3
  samples: 2
  truncate: 40
  skip: true
source:
  search_paths:
    - ~/logs/Player.log
    - dump.log
  max_line_bytes: 4096
preview:
  lines: 20
search:
  roots:
    - ~/Mods
  extensions:
    - .xml
    - .txt
  context: 2
  workers: 3
`
		configPath := filepath.Join(tmpDir, "logscan.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.Quiet)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, RulesConfig{
			SubsystemMarker:  "[Teleporter]",
			SubsystemWarning: "Teleporter",
			JobWarning:       "JobDriver",
			PathFollower:     "Pather",
			JobError:         "JobDriver.Fail",
			Recursion:        "TryReuse",
		}, cfg.Rules)
		assert.Equal(t, 8, cfg.Repetition.Threshold)
		assert.True(t, cfg.Repetition.FlushTrailing)
		assert.Equal(t, "/tmp/report.txt", cfg.Report.Path)
		assert.Equal(t, 3, cfg.Report.Top)
		assert.Equal(t, 2, cfg.Report.Samples)
		assert.Equal(t, 40, cfg.Report.Truncate)
		assert.True(t, cfg.Report.Skip)
		assert.Equal(t, []string{"~/logs/Player.log", "dump.log"}, cfg.Source.SearchPaths)
		assert.Equal(t, 4096, cfg.Source.MaxLineBytes)
		assert.Equal(t, 20, cfg.Preview.Lines)
		assert.Equal(t, []string{"~/Mods"}, cfg.Search.Roots)
		assert.Equal(t, []string{".xml", ".txt"}, cfg.Search.Extensions)
		assert.Equal(t, 2, cfg.Search.Context)
		assert.Equal(t, 3, cfg.Search.Workers)
	})

	t.Run("keeps defaults for omitted fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "logscan.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("report:\n  top: 4\n"), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Report.Top)
		assert.Equal(t, 5, cfg.Report.Samples)
		assert.Equal(t, "[Portal Gun]", cfg.Rules.SubsystemMarker)
	})
}

func TestConfigEnvironmentVariables(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOGSCAN_FORMAT", "ndjson")
	t.Setenv("LOGSCAN_LOG_LEVEL", "info")
	t.Setenv("LOGSCAN_QUIET", "1")
	t.Setenv("LOGSCAN_THRESHOLD", "12")
	t.Setenv("LOGSCAN_REPORT_PATH", "/tmp/out.txt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ndjson", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, 12, cfg.Repetition.Threshold)
	assert.Equal(t, "/tmp/out.txt", cfg.Report.Path)
}

func TestConfigEnvironmentVariables_IgnoresBadThreshold(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOGSCAN_THRESHOLD", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Repetition.Threshold)
}
