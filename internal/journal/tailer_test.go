package journal_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/journal"
)

// eventCollector accumulates every wildcard-journal event published on b,
// for tests that need to observe events arriving progressively.
type eventCollector struct {
	ch  chan *journal.Event
	got []*journal.Event
}

func newEventCollector(b *bus.Bus) *eventCollector {
	c := &eventCollector{ch: make(chan *journal.Event, 64)}
	b.Subscribe(journal.WildcardJournal, func(payload any) {
		c.ch <- payload.(*journal.Event)
	})
	return c
}

func (c *eventCollector) waitFor(t *testing.T, want int, timeout time.Duration) []*journal.Event {
	t.Helper()
	deadline := time.After(timeout)
	for len(c.got) < want {
		select {
		case ev := <-c.ch:
			c.got = append(c.got, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, got %d", want, len(c.got))
		}
	}
	return c.got
}

func TestTailerReplaysExistingFileOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2026-07-30T090000.01.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"event":"LoadGame","Commander":"Jameson"}`+"\n"), 0o644))

	b := bus.New(100)
	collector := newEventCollector(b)
	tailer := journal.NewTailer(b, 10*time.Millisecond)
	defer tailer.Stop()

	require.NoError(t, tailer.Start(dir))

	events := collector.waitFor(t, 1, time.Second)
	assert.Equal(t, "LoadGame", events[0].Kind)
	assert.Equal(t, int64(1), tailer.EventsProcessed())
}

func TestTailerFollowsAppendsAndHoldsPartialLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2026-07-30T090000.01.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"event":"LoadGame"}`+"\n"), 0o644))

	b := bus.New(100)
	collector := newEventCollector(b)
	tailer := journal.NewTailer(b, 10*time.Millisecond)
	defer tailer.Stop()
	require.NoError(t, tailer.Start(dir))
	collector.waitFor(t, 1, time.Second)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	// Write a complete event followed by an in-progress partial line with
	// no trailing newline yet: only the complete line should be published.
	_, err = f.WriteString(`{"event":"FSDJump","StarSystem":"Sol"}` + "\n" + `{"event":"Docked"`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events := collector.waitFor(t, 2, 2*time.Second)
	assert.Equal(t, "FSDJump", events[1].Kind)
	assert.Equal(t, int64(2), tailer.EventsProcessed())

	// Finish the partial line; it should now be picked up as its own event.
	f, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`,"DockingAllowed":true}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events = collector.waitFor(t, 3, 2*time.Second)
	assert.Equal(t, "Docked", events[2].Kind)
}

func TestStartTwiceReturnsErrAlreadyWatching(t *testing.T) {
	dir := t.TempDir()
	b := bus.New(100)
	tailer := journal.NewTailer(b, 10*time.Millisecond)
	defer tailer.Stop()

	require.NoError(t, tailer.Start(dir))
	assert.ErrorIs(t, tailer.Start(dir), journal.ErrAlreadyWatching)
}
