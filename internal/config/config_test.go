package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "adb", cfg.ADB.Binary)
	assert.Equal(t, "android.intent.action.RUN", cfg.ADB.BroadcastAction)
	assert.Equal(t, "cmd", cfg.ADB.ExtraKey)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.NotEmpty(t, cfg.Favourites)
	assert.Equal(t, 10*time.Second, cfg.ADBTimeout())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Catalog.Path = "/exports/ConsoleHelp.html"
	cfg.ADB.Timeout = "30s"
	cfg.History.Limit = 10
	require.NoError(t, Save(cfg, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 30*time.Second, loaded.ADBTimeout())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("history:\n  limit: 5\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, "adb", cfg.ADB.Binary)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("history: [unclosed"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("UECMD_ADB_BINARY", "/opt/platform-tools/adb")
	t.Setenv("UECMD_CATALOG_PATH", "/tmp/help.html")
	t.Setenv("UECMD_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/opt/platform-tools/adb", cfg.ADB.Binary)
	assert.Equal(t, "/tmp/help.html", cfg.Catalog.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestADBTimeoutFallsBack(t *testing.T) {
	cfg := Default()
	cfg.ADB.Timeout = "not-a-duration"
	assert.Equal(t, 10*time.Second, cfg.ADBTimeout())
	cfg.ADB.Timeout = "-5s"
	assert.Equal(t, 10*time.Second, cfg.ADBTimeout())
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("x", DatabaseFileName), DatabasePath("x"))
}
