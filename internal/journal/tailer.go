/*
Package journal
File: tailer.go
Description:
    The tail-following watch layer. Converts fsnotify directory events into
    an ordered stream of parsed Events published on the event bus, tracking
    a per-file byte cursor and partial-line remainder across reads.

    A single goroutine (loop) owns all cursor state and performs every
    read+parse+publish; fsnotify's own goroutine only feeds it events. This
    mirrors the teacher's single Hub-loop-owns-the-map discipline in
    internal/api/hub.go, generalized from a client registry to a cursor map.
*/
package journal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// ErrAlreadyWatching is returned by Start when called on a Tailer that is
// already watching a directory.
var ErrAlreadyWatching = errors.New("journal: tailer already watching")

type fileCursor struct {
	offset    int64
	remainder string
}

// Tailer watches a journal directory and publishes parsed events to a Bus.
type Tailer struct {
	bus      *bus.Bus
	debounce time.Duration
	log      zerolog.Logger

	watcher   *fsnotify.Watcher
	cursors   map[string]*fileCursor
	current   string
	retrigger chan string
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool

	processed atomic.Int64
}

// NewTailer constructs a Tailer. debounce is the "let the writer finish"
// pause applied after a new journal file is detected, before it is first
// read (spec default ~200ms).
func NewTailer(b *bus.Bus, debounce time.Duration) *Tailer {
	return &Tailer{
		bus:      b,
		debounce: debounce,
		log:      telemetrylog.Component("journal-tailer"),
		cursors:  make(map[string]*fileCursor),
	}
}

// Start begins watching dir: it replays the newest existing journal file in
// full, then installs a directory watch for subsequent changes. Start is
// idempotent; calling it twice returns ErrAlreadyWatching.
func (t *Tailer) Start(dir string) error {
	if t.started {
		return ErrAlreadyWatching
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsJournalName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names) // stabilize SortByDate's tie-breaking input
	names = SortByDate(names)

	if len(names) > 0 {
		path := filepath.Join(dir, names[0])
		t.cursors[path] = &fileCursor{}
		t.readAndPublish(path)
		t.current = path
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}
	t.watcher = watcher
	t.retrigger = make(chan string, 16)
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	t.started = true

	go t.loop(dir)

	t.bus.Publish(bus.TopicWatcherStarted, map[string]any{"component": "journal", "dir": dir})
	return nil
}

// Stop closes the directory watch and waits for the consumer loop to exit,
// then emits a "stopped" lifecycle event. Any partial line held in a
// remainder is discarded, never parsed.
func (t *Tailer) Stop() {
	if !t.started {
		return
	}
	close(t.stopCh)
	_ = t.watcher.Close()
	<-t.doneCh
	t.started = false
	t.bus.Publish(bus.TopicWatcherStopped, map[string]any{"component": "journal"})
}

// EventsProcessed returns the running count of events published so far.
func (t *Tailer) EventsProcessed() int64 {
	return t.processed.Load()
}

func (t *Tailer) loop(dir string) {
	defer close(t.doneCh)
	for {
		select {
		case <-t.stopCh:
			return
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handleFSEvent(ev)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Error().Err(err).Msg("journal watcher error")
			t.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "journal", "error": err.Error()})
		case path, ok := <-t.retrigger:
			if !ok {
				return
			}
			t.readAndPublish(path)
			t.current = path
		}
	}
}

func (t *Tailer) handleFSEvent(ev fsnotify.Event) {
	base := filepath.Base(ev.Name)
	if !IsJournalName(base) {
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		t.cursors[ev.Name] = &fileCursor{}
		path := ev.Name
		go func() {
			timer := time.NewTimer(t.debounce)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-t.stopCh:
				return
			}
			select {
			case t.retrigger <- path:
			case <-t.stopCh:
			}
		}()

	case ev.Op&(fsnotify.Write|fsnotify.Chmod) != 0:
		t.readAndPublish(ev.Name)

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// Rotated or removed out from under us: the next Create for a
		// replacement file re-registers a cursor. Nothing to clean up now.
	}
}

// readAndPublish reads [cursor, size) of path, combines it with any stored
// remainder, publishes every complete line as an Event, and stores the
// trailing partial line (if any) back as the new remainder.
func (t *Tailer) readAndPublish(path string) {
	cur, ok := t.cursors[path]
	if !ok {
		cur = &fileCursor{}
		t.cursors[path] = cur
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.log.Error().Err(err).Str("path", path).Msg("stat failed")
		t.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "journal", "path": path, "error": err.Error()})
		return
	}

	size := info.Size()
	if size <= cur.offset {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.log.Error().Err(err).Str("path", path).Msg("open failed")
		t.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "journal", "path": path, "error": err.Error()})
		return
	}
	defer f.Close()

	if _, err := f.Seek(cur.offset, io.SeekStart); err != nil {
		t.log.Error().Err(err).Str("path", path).Msg("seek failed")
		return
	}

	buf := make([]byte, size-cur.offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		if os.IsNotExist(err) {
			return
		}
		t.log.Error().Err(err).Str("path", path).Msg("read failed")
		t.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "journal", "path": path, "error": err.Error()})
		return
	}

	combined := cur.remainder + string(buf[:n])
	complete, remainder := splitTail(combined)

	for _, line := range complete {
		ev := ParseLine(line)
		if ev == nil {
			continue
		}
		t.processed.Add(1)
		t.bus.Publish(WildcardJournal, ev)
		t.bus.Publish("journal:"+ev.Kind, ev)
	}

	cur.offset = cur.offset + int64(n)
	cur.remainder = remainder
}

// WildcardJournal re-exports bus.WildcardJournal for readability at call
// sites within this package.
const WildcardJournal = bus.WildcardJournal

// splitTail splits combined text on newlines. If combined ends with a
// terminator, every piece is a complete line. Otherwise the final piece is
// an incomplete line held back as the new remainder.
func splitTail(combined string) (complete []string, remainder string) {
	if combined == "" {
		return nil, ""
	}
	parts := strings.Split(combined, "\n")
	if strings.HasSuffix(combined, "\n") {
		for _, p := range parts[:len(parts)-1] {
			complete = append(complete, strings.TrimSuffix(p, "\r"))
		}
		return complete, ""
	}
	for _, p := range parts[:len(parts)-1] {
		complete = append(complete, strings.TrimSuffix(p, "\r"))
	}
	remainder = parts[len(parts)-1]
	return complete, remainder
}
