package sidecar_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/config"
	"github.com/everforgeworks/frontier-core/internal/sidecar"
)

func waitForUpdate(t *testing.T, ch <-chan sidecar.Update, timeout time.Duration) sidecar.Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(timeout):
		t.Fatal("timed out waiting for sidecar update")
		return sidecar.Update{}
	}
}

func TestWatcherPublishesInitialCargoContentsOnStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.json"),
		[]byte(`{"Count":2,"Inventory":[]}`), 0o644))

	b := bus.New(100)
	ch := make(chan sidecar.Update, 8)
	b.Subscribe("sidecar:cargo", func(payload any) { ch <- payload.(sidecar.Update) })

	w := sidecar.NewWatcher(b)
	defer w.Stop()
	require.NoError(t, w.Start(dir, config.Default().Sidecars, 10*time.Millisecond, 10*time.Millisecond))

	u := waitForUpdate(t, ch, time.Second)
	assert.Equal(t, "cargo", u.Name)
	assert.Nil(t, u.Flags)
}

func TestWatcherDecodesStatusFlagsAndDedupsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	statusPath := filepath.Join(dir, "Status.json")
	require.NoError(t, os.WriteFile(statusPath, []byte(`{"Flags":1}`), 0o644))

	b := bus.New(100)
	ch := make(chan sidecar.Update, 8)
	b.Subscribe("sidecar:status", func(payload any) { ch <- payload.(sidecar.Update) })

	w := sidecar.NewWatcher(b)
	defer w.Stop()
	require.NoError(t, w.Start(dir, config.Default().Sidecars, 10*time.Millisecond, 10*time.Millisecond))

	first := waitForUpdate(t, ch, time.Second)
	require.NotNil(t, first.Flags)
	assert.True(t, first.Flags.Docked)

	// Rewriting the exact same content should not republish: Write-triggered
	// reprocessing dedups on unchanged text (spec.md §8 sidecar dedup case).
	require.NoError(t, os.WriteFile(statusPath, []byte(`{"Flags":1}`), 0o644))
	select {
	case u := <-ch:
		t.Fatalf("unexpected republish of unchanged content: %+v", u)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(statusPath, []byte(`{"Flags":2}`), 0o644))
	second := waitForUpdate(t, ch, time.Second)
	assert.False(t, second.Flags.Docked)
	assert.True(t, second.Flags.Landed)
}
