package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, config.Default().JournalDir, cfg.JournalDir)
	assert.Equal(t, "Status.json", cfg.Sidecars.Status)
	assert.Equal(t, 100, cfg.ListenerCap)
}

func TestLoadOverlaysPartialFileOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal_dir: /data/journal\nlistener_cap: 250\n"), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/journal", cfg.JournalDir)
	assert.Equal(t, 250, cfg.ListenerCap)
	// Omitted fields fall back to defaults rather than zero values.
	assert.Equal(t, "Cargo.json", cfg.Sidecars.Cargo)
	assert.Equal(t, 200, cfg.JournalDebounceMs)
}

func TestDebounceHelpersConvertMillisecondsToDuration(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 200*1000*1000, int(cfg.JournalDebounce()))
	assert.Equal(t, 50*1000*1000, int(cfg.SidecarDebounce()))
	assert.Equal(t, 25*1000*1000, int(cfg.StatusDebounce()))
}

func TestSidecarFilesListReturnsStableOrder(t *testing.T) {
	list := config.Default().Sidecars.List()
	assert.Equal(t, []string{
		"Status.json", "Cargo.json", "NavRoute.json", "Market.json",
		"Backpack.json", "ModulesInfo.json", "Shipyard.json", "Outfitting.json",
	}, list)
}
