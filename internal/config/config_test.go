package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_ReturnsBuiltInFallbacks(t *testing.T) {
	cfg := Default()
	require.Equal(t, 8080, cfg.DashboardPort)
	require.Equal(t, "info", cfg.LoggingLevel)
	require.False(t, cfg.EnableProfiling)
}

func TestLoad_ParsesRecognizedKeysAndIgnoresCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.conf")
	contents := "# engine settings\n" +
		"\n" +
		"dashboard.port = 9100\n" +
		"risk.max_order_size=2500\n" +
		"logging.level = debug\n" +
		"matching.enable_profiling = true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.DashboardPort)
	require.Equal(t, uint64(2500), cfg.MaxOrderSize)
	require.Equal(t, "debug", cfg.LoggingLevel)
	require.True(t, cfg.EnableProfiling)

	// Keys absent from the file keep their defaults.
	require.Equal(t, 9090, cfg.ServerPort)
}

func TestLoad_FallsBackOnUnparsableValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.conf")
	require.NoError(t, os.WriteFile(path, []byte("dashboard.port = not-a-number\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.DashboardPort, "an unparsable value must fall back rather than error")
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/engine.conf")
	require.Error(t, err)
}

func TestLoad_RawRetainsUnrecognizedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.conf")
	require.NoError(t, os.WriteFile(path, []byte("custom.unused.key = hello\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "hello", cfg.Raw["custom.unused.key"])
}
