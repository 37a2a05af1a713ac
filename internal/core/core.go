/*
Package core
File: core.go
Description:
    The composition root: wires the journal tailer, sidecar watcher, event
    bus, state projector, and broadcast fabric together, replays journal
    history on startup (spec.md §4.6), and exposes the external sync API
    surface (spec.md §6.5). Mirrors main.go's orchestration role in the
    teacher, generalized into a reusable type so cmd/telemetryd stays a
    thin entry point.
*/
package core

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/frontier-core/internal/broadcast"
	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/config"
	"github.com/everforgeworks/frontier-core/internal/journal"
	"github.com/everforgeworks/frontier-core/internal/sidecar"
	"github.com/everforgeworks/frontier-core/internal/state"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// Core owns every long-lived component of one telemetry session.
type Core struct {
	cfg config.Telemetry
	log zerolog.Logger

	bus       *bus.Bus
	fabric    *broadcast.Fabric
	projector *state.Projector
	tailer    *journal.Tailer
	sidecars  *sidecar.Watcher

	tickStop chan struct{}
	tickDone chan struct{}
}

// New constructs a Core from cfg without starting anything.
func New(cfg config.Telemetry) *Core {
	b := bus.New(cfg.ListenerCap)
	fabric := broadcast.New(cfg.SubscriberBuffer)
	return &Core{
		cfg:       cfg,
		log:       telemetrylog.Component("core"),
		bus:       b,
		fabric:    fabric,
		projector: state.NewProjector(b, fabric),
		tailer:    journal.NewTailer(b, cfg.JournalDebounce()),
		sidecars:  sidecar.NewWatcher(b),
	}
}

// Start replays journal history older than the live file, then brings up
// the projector, sidecar watcher, journal tailer, and the 1Hz session
// ticker, in that order. Replay must finish before the tailer starts, or
// the live file's own Start-time replay could race a stale history write;
// the sidecar watcher and tailer startup themselves run concurrently
// since they watch disjoint files.
func (c *Core) Start(ctx context.Context) error {
	c.projector.Start()

	if err := c.replayHistory(); err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.sidecars.Start(c.cfg.JournalDir, c.cfg.Sidecars, c.cfg.SidecarDebounce(), c.cfg.StatusDebounce())
	})
	g.Go(func() error {
		return c.tailer.Start(c.cfg.JournalDir)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.tickStop = make(chan struct{})
	c.tickDone = make(chan struct{})
	go c.runSessionTicker()
	return nil
}

func (c *Core) runSessionTicker() {
	defer close(c.tickDone)
	ticker := time.NewTicker(c.cfg.SessionTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.projector.TickElapsed()
		case <-c.tickStop:
			return
		}
	}
}

// Stop shuts down every owned component.
func (c *Core) Stop() {
	if c.tickStop != nil {
		close(c.tickStop)
		<-c.tickDone
	}
	c.tailer.Stop()
	c.sidecars.Stop()
	c.projector.Stop()
	c.fabric.Stop()
}

// replayHistory feeds every journal file older than the newest one through
// the bus, oldest first, so the projector rebuilds state from the full
// session history before live tailing begins. The newest file is left
// untouched: Tailer.Start replays it itself, and replaying it here too
// would double-publish its events.
func (c *Core) replayHistory() error {
	entries, err := os.ReadDir(c.cfg.JournalDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && journal.IsJournalName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= 1 {
		return nil
	}
	sort.Strings(names)
	newestFirst := journal.SortByDate(names)
	older := newestFirst[1:]
	for i, j := 0, len(older)-1; i < j; i, j = i+1, j-1 {
		older[i], older[j] = older[j], older[i]
	}

	for _, name := range older {
		path := filepath.Join(c.cfg.JournalDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("replay read failed")
			continue
		}
		for _, ev := range journal.ParseFile(string(raw)) {
			c.bus.Publish(journal.WildcardJournal, ev)
			c.bus.Publish("journal:"+ev.Kind, ev)
		}
	}
	return nil
}

// --- external sync API surface (spec.md §6.5) --------------------------

func (c *Core) GetState() state.Root               { return c.projector.GetState() }
func (c *Core) Commander() state.Commander         { return c.projector.Commander() }
func (c *Core) ShipSnapshot() state.Ship           { return c.projector.ShipSnapshot() }
func (c *Core) LocationSnapshot() state.Location   { return c.projector.LocationSnapshot() }
func (c *Core) MaterialsSnapshot() state.Materials { return c.projector.MaterialsSnapshot() }
func (c *Core) MissionsSnapshot() state.Missions   { return c.projector.MissionsSnapshot() }
func (c *Core) SessionSnapshot() state.Session     { return c.projector.SessionSnapshot() }
func (c *Core) CarrierSnapshot() *state.Carrier    { return c.projector.CarrierSnapshot() }
func (c *Core) OnFootSnapshot() state.OnFoot       { return c.projector.OnFootSnapshot() }
func (c *Core) IsInitialized() bool                { return c.projector.IsInitialized() }
func (c *Core) ResetSession()                      { c.projector.ResetSession() }
func (c *Core) EventsProcessed() int64             { return c.tailer.EventsProcessed() }
func (c *Core) Fabric() *broadcast.Fabric          { return c.fabric }

func (c *Core) SubscribeJournal(kind string, handler func(*journal.Event)) bus.Token {
	return c.projector.SubscribeJournal(kind, handler)
}

func (c *Core) SubscribeCompanion(file string, handler func(sidecar.Update)) bus.Token {
	return c.projector.SubscribeCompanion(file, handler)
}

func (c *Core) SubscribeStateChange(handler func(state.GamestateChange)) bus.Token {
	return c.projector.SubscribeStateChange(handler)
}

func (c *Core) Unsubscribe(token bus.Token) {
	c.projector.Unsubscribe(token)
}
