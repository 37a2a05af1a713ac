/*
Package state
File: projector.go
Description:
    The state projector: the single logical owner of the Root document.
    Every mutation is funneled through one actor goroutine (ops channel) so
    that concurrent feeders -- the journal tailer's consumer loop, the
    sidecar watcher's consumer loop, and the 1Hz session ticker -- never
    race on Root, without needing a read-write mutex over the whole state
    (spec.md §9 Design Notes). External reads take the same round trip, so
    they always observe a point-in-time-consistent Root.
*/
package state

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/journal"
	"github.com/everforgeworks/frontier-core/internal/sidecar"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// Fabric is the narrow slice of the broadcast fabric the projector needs:
// pushing a state:<slice> envelope to external subscribers. Kept as an
// interface here so state never imports the broadcast package.
type Fabric interface {
	Broadcast(topic string, payload any)
}

// GamestateChange is the payload published on bus.TopicGamestateChange.
type GamestateChange struct {
	Section   string
	Data      any
	Timestamp time.Time
}

type eventHandler func(r *Root, ev *journal.Event)

// Projector owns Root and folds the journal/sidecar stream into it.
type Projector struct {
	bus    *bus.Bus
	fabric Fabric
	log    zerolog.Logger

	root     *Root
	handlers map[string]eventHandler

	ops     chan func(*Root)
	quit    chan struct{}
	done    chan struct{}
	started bool

	subs []bus.Token
}

// NewProjector constructs a Projector with all zeroed slices and registers
// its per-event handlers, but does not yet subscribe to the bus or start
// the actor goroutine -- call Start for that.
func NewProjector(b *bus.Bus, fabric Fabric) *Projector {
	p := &Projector{
		bus:      b,
		fabric:   fabric,
		log:      telemetrylog.Component("state-projector"),
		root:     NewRoot(),
		handlers: make(map[string]eventHandler),
		ops:      make(chan func(*Root), 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	registerCommanderHandlers(p)
	registerShipHandlers(p)
	registerLocationHandlers(p)
	registerMaterialsHandlers(p)
	registerMissionsHandlers(p)
	registerSessionHandlers(p)
	registerCarrierHandlers(p)
	registerOnFootHandlers(p)
	return p
}

// on registers a handler for a single journal event kind.
func (p *Projector) on(kind string, h eventHandler) {
	p.handlers[kind] = h
}

// Start subscribes the projector to the bus and launches its actor
// goroutine. It must be called before any journal/sidecar events arrive.
func (p *Projector) Start() {
	if p.started {
		return
	}
	p.started = true

	p.subs = append(p.subs, p.bus.Subscribe(bus.WildcardJournal, func(payload any) {
		ev, ok := payload.(*journal.Event)
		if !ok {
			return
		}
		p.dispatchEvent(ev)
	}))

	p.subs = append(p.subs, p.bus.Subscribe("sidecar:status", func(payload any) {
		u, ok := payload.(sidecar.Update)
		if !ok {
			return
		}
		p.mutate(func(r *Root) { handleStatusSidecar(p, r, u) })
	}))
	p.subs = append(p.subs, p.bus.Subscribe("sidecar:cargo", func(payload any) {
		u, ok := payload.(sidecar.Update)
		if !ok {
			return
		}
		p.mutate(func(r *Root) { handleCargoSidecar(p, r, u) })
	}))

	go p.loop()
}

// Stop signals the actor goroutine to exit and waits for it; operations
// still queued are not run. Bus subscriptions are left in
// place (Unsubscribe is cheap; a restart is not a supported lifecycle).
func (p *Projector) Stop() {
	if !p.started {
		return
	}
	close(p.quit)
	<-p.done
	p.started = false
}

func (p *Projector) loop() {
	defer close(p.done)
	for {
		select {
		case op := <-p.ops:
			op(p.root)
		case <-p.quit:
			return
		}
	}
}

// mutate runs fn against Root on the actor goroutine and blocks the caller
// until it completes, giving the caller a happens-before relationship with
// every prior and subsequent mutation without taking a lock itself.
func (p *Projector) mutate(fn func(*Root)) {
	done := make(chan struct{})
	select {
	case p.ops <- func(r *Root) { fn(r); close(done) }:
	case <-p.quit:
		return
	}
	select {
	case <-done:
	case <-p.quit:
	}
}

func (p *Projector) dispatchEvent(ev *journal.Event) {
	h, ok := p.handlers[ev.Kind]
	if !ok {
		return // unknown/unprojected kind: routed on the bus, ignored here.
	}
	p.mutate(func(r *Root) {
		p.log.Debug().Str("event", ev.Kind).Msg("projecting event")
		h(r, ev)
	})
}

// broadcastSlice stamps Meta.LastUpdated, pushes a state:<slice> envelope on
// the fabric, and emits a gamestate:change bus event, in that order. The
// gamestate:change payload carries the same timestamp as Meta.LastUpdated.
// The fabric stamps its envelope with its own clock reading when Broadcast
// is called, so the state:<slice> envelope's timestamp is not that value.
func (p *Projector) broadcastSlice(r *Root, slice string, snapshot any) {
	now := time.Now().UTC()
	r.Meta.LastUpdated = now
	p.fabric.Broadcast("state:"+slice, snapshot)
	p.bus.Publish(bus.TopicGamestateChange, GamestateChange{Section: slice, Data: snapshot, Timestamp: now})
}

// --- external sync API (spec.md §6.5) ---------------------------------

// GetState returns a structural copy of the whole Root, safe for the
// caller to read and mutate without affecting projector state.
func (p *Projector) GetState() Root {
	var out Root
	p.mutate(func(r *Root) { out = copyRoot(r) })
	return out
}

// Commander returns a copy of the commander slice.
func (p *Projector) Commander() Commander {
	var out Commander
	p.mutate(func(r *Root) { out = r.Commander })
	return out
}

// ShipSnapshot returns a copy of the ship slice.
func (p *Projector) ShipSnapshot() Ship {
	var out Ship
	p.mutate(func(r *Root) { out = copyShip(r.Ship) })
	return out
}

// LocationSnapshot returns a copy of the location slice.
func (p *Projector) LocationSnapshot() Location {
	var out Location
	p.mutate(func(r *Root) { out = copyLocation(r.Location) })
	return out
}

// MaterialsSnapshot returns a copy of the materials slice.
func (p *Projector) MaterialsSnapshot() Materials {
	var out Materials
	p.mutate(func(r *Root) { out = copyMaterials(r.Materials) })
	return out
}

// MissionsSnapshot returns a copy of the missions slice.
func (p *Projector) MissionsSnapshot() Missions {
	var out Missions
	p.mutate(func(r *Root) { out = copyMissions(r.Missions) })
	return out
}

// SessionSnapshot returns a copy of the session slice.
func (p *Projector) SessionSnapshot() Session {
	var out Session
	p.mutate(func(r *Root) { out = r.Session })
	return out
}

// CarrierSnapshot returns a copy of the carrier slice, or nil if no
// CarrierStats event has been observed yet.
func (p *Projector) CarrierSnapshot() *Carrier {
	var out *Carrier
	p.mutate(func(r *Root) { out = copyCarrier(r.Carrier) })
	return out
}

// OnFootSnapshot returns a copy of the on-foot slice.
func (p *Projector) OnFootSnapshot() OnFoot {
	var out OnFoot
	p.mutate(func(r *Root) { out = copyOnFoot(r.OnFoot) })
	return out
}

// IsInitialized reports whether the meta.initialized flag has flipped true.
func (p *Projector) IsInitialized() bool {
	var out bool
	p.mutate(func(r *Root) { out = r.Meta.Initialized })
	return out
}

// ResetSession zeroes the session slice exactly as LoadGame does, and
// broadcasts the result.
func (p *Projector) ResetSession() {
	p.mutate(func(r *Root) {
		r.Session = newSession()
		p.broadcastSlice(r, "session", r.Session)
	})
}

// SubscribeJournal subscribes handler to a single event kind, or every kind
// when kind is "*".
func (p *Projector) SubscribeJournal(kind string, handler func(*journal.Event)) bus.Token {
	topic := bus.WildcardJournal
	if kind != "*" {
		topic = "journal:" + kind
	}
	return p.bus.Subscribe(topic, func(payload any) {
		if ev, ok := payload.(*journal.Event); ok {
			handler(ev)
		}
	})
}

// SubscribeCompanion subscribes handler to a single sidecar file's updates,
// or every sidecar when file is "*".
func (p *Projector) SubscribeCompanion(file string, handler func(sidecar.Update)) bus.Token {
	topic := bus.WildcardCompanion
	if file != "*" {
		topic = "sidecar:" + file
	}
	return p.bus.Subscribe(topic, func(payload any) {
		if u, ok := payload.(sidecar.Update); ok {
			handler(u)
		}
	})
}

// SubscribeStateChange subscribes handler to every slice-change notification.
func (p *Projector) SubscribeStateChange(handler func(GamestateChange)) bus.Token {
	return p.bus.Subscribe(bus.TopicGamestateChange, func(payload any) {
		if c, ok := payload.(GamestateChange); ok {
			handler(c)
		}
	})
}

// Unsubscribe removes a subscription returned by any Subscribe* method.
func (p *Projector) Unsubscribe(token bus.Token) {
	p.bus.Unsubscribe(token)
}
