package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/config"
	"github.com/everforgeworks/frontier-core/internal/core"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition was never satisfied")
}

func TestCoreReplaysOlderJournalsBeforeLiveTailing(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "Journal.2026-07-29T080000.01.log")
	newest := filepath.Join(dir, "Journal.2026-07-30T080000.01.log")

	require.NoError(t, os.WriteFile(older, []byte(
		`{"event":"LoadGame","Commander":"Jameson","Credits":1000,"Ship":"sidewinder"}`+"\n"+
			`{"event":"Materials","Raw":[{"Name":"Iron","Count":3}]}`+"\n",
	), 0o644))
	require.NoError(t, os.WriteFile(newest, []byte(
		`{"event":"FSDJump","StarSystem":"Sol","SystemAddress":10,"StarPos":[0,0,0],"JumpDist":10,"FuelUsed":1}`+"\n",
	), 0o644))

	cfg := config.Default()
	cfg.JournalDir = dir
	cfg.SessionTick = 50 * time.Millisecond

	c := core.New(cfg)
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	// The older file's LoadGame/Materials must be reconstructed even though
	// the tailer only ever reads the newest file directly.
	waitUntil(t, 2*time.Second, func() bool { return c.Commander().Name == "Jameson" })
	assert.Equal(t, "Jameson", c.Commander().Name)
	require.Len(t, c.MaterialsSnapshot().Raw, 1)
	assert.Equal(t, "iron", c.MaterialsSnapshot().Raw[0].Name)

	// The newest file's own FSDJump must count exactly once, not twice.
	waitUntil(t, 2*time.Second, func() bool { return c.SessionSnapshot().Jumps > 0 })
	assert.Equal(t, 1, c.SessionSnapshot().Jumps)
}

func TestCoreSessionTickerAdvancesElapsedSeconds(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.JournalDir = dir
	cfg.SessionTick = 20 * time.Millisecond

	c := core.New(cfg)
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	waitUntil(t, 2*time.Second, func() bool { return c.SessionSnapshot().ElapsedSeconds > 0 })
}
