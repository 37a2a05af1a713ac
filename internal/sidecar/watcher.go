/*
Package sidecar
File: watcher.go
Description:
    Watches the fixed set of whole-file JSON sidecars (ship status, cargo,
    nav-route, market, backpack, modules, shipyard, outfitting) and
    publishes a per-file Update to the event bus whenever the content
    meaningfully changes. Tolerates mid-write reads (empty or invalid JSON)
    by skipping them silently -- the next change notification retries.
*/
package sidecar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/config"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// Update is the payload published on a sidecar's topic and on the
// companion:* wildcard. Data is the whole decoded document. For the
// live-status file, Flags holds the decoded named booleans from §3/§4.3;
// for every other sidecar Flags is nil.
type Update struct {
	Name  string
	Path  string
	Data  map[string]any
	Flags *StatusFlags
}

// Topic returns the per-file bus topic for this update, e.g. "sidecar:cargo".
func (u Update) Topic() string { return "sidecar:" + u.Name }

type fileState struct {
	path         string
	logicalName  string
	lastContent  string
	debounce     time.Duration
	isLiveStatus bool
}

// Watcher watches the files named by a config.SidecarFiles and publishes
// decoded Updates to a Bus.
type Watcher struct {
	bus         *bus.Bus
	log         zerolog.Logger
	byPath      map[string]*fileState
	watcher     *fsnotify.Watcher
	retriggerCh chan string
	stopCh      chan struct{}
	doneCh      chan struct{}
	started     bool
}

// NewWatcher constructs a sidecar Watcher.
func NewWatcher(b *bus.Bus) *Watcher {
	return &Watcher{
		bus:    b,
		log:    telemetrylog.Component("sidecar-watcher"),
		byPath: make(map[string]*fileState),
	}
}

// Start watches dir for the sidecar files named in files, reading and
// publishing the initial contents of any that already exist, then
// installing the directory watch.
func (w *Watcher) Start(dir string, files config.SidecarFiles, sidecarDebounce, statusDebounce time.Duration) error {
	named := []struct {
		logical string
		file    string
	}{
		{"status", files.Status},
		{"cargo", files.Cargo},
		{"navroute", files.NavRoute},
		{"market", files.Market},
		{"backpack", files.Backpack},
		{"modules", files.Modules},
		{"shipyard", files.Shipyard},
		{"outfitting", files.Outfitting},
	}

	for _, n := range named {
		path := filepath.Join(dir, n.file)
		debounce := sidecarDebounce
		if n.logical == "status" {
			debounce = statusDebounce
		}
		w.byPath[path] = &fileState{
			path:         path,
			logicalName:  n.logical,
			debounce:     debounce,
			isLiveStatus: n.logical == "status",
		}
		w.process(w.byPath[path])
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}
	w.watcher = watcher
	w.retriggerCh = make(chan string, 16)
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.started = true

	go w.loop()

	w.bus.Publish(bus.TopicWatcherStarted, map[string]any{"component": "sidecar", "dir": dir})
	return nil
}

// Stop closes the directory watch and waits for the consumer loop to exit.
func (w *Watcher) Stop() {
	if !w.started {
		return
	}
	close(w.stopCh)
	_ = w.watcher.Close()
	<-w.doneCh
	w.started = false
	w.bus.Publish(bus.TopicWatcherStopped, map[string]any{"component": "sidecar"})
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			st, tracked := w.byPath[ev.Name]
			if !tracked {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) == 0 {
				continue
			}
			path := ev.Name
			go func(st *fileState) {
				timer := time.NewTimer(st.debounce)
				defer timer.Stop()
				select {
				case <-timer.C:
				case <-w.stopCh:
					return
				}
				select {
				case w.retriggerCh <- path:
				case <-w.stopCh:
				}
			}(st)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("sidecar watcher error")
			w.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "sidecar", "error": err.Error()})
		case path := <-w.retriggerCh:
			if st, ok := w.byPath[path]; ok {
				w.process(st)
			}
		}
	}
}

func (w *Watcher) process(st *fileState) {
	raw, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		w.log.Error().Err(err).Str("path", st.path).Msg("read failed")
		w.bus.Publish(bus.TopicWatcherError, map[string]any{"component": "sidecar", "path": st.path, "error": err.Error()})
		return
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return
	}
	if text == st.lastContent {
		return
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		// Producer may be mid-write; retry on the next notification.
		return
	}
	st.lastContent = text

	update := Update{Name: st.logicalName, Path: st.path, Data: data}
	if st.isLiveStatus {
		flags := DecodeStatusFlags(data)
		update.Flags = &flags
	}

	w.bus.Publish(update.Topic(), update)
	w.bus.Publish(bus.WildcardCompanion, update)
}
