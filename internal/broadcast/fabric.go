/*
Package broadcast
File: fabric.go
Description:
    The backpressure-aware broadcast fabric external subscribers read from
    (spec.md §4.6, §5). Generalizes the teacher's Hub (internal/api/hub.go:
    register/unregister/broadcast channels drained by one loop goroutine)
    from a single shared client set into per-subscriber topic-filtered
    channels, and replaces the teacher's "drop the whole client" overflow
    policy with drop-oldest-undelivered, since a telemetry feed should skip
    stale envelopes rather than sever a slow subscriber.
*/
package broadcast

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// Token identifies a subscription for later Unsubscribe.
type Token uuid.UUID

// Envelope is one published item: a topic plus its payload and the
// publish-time timestamp.
type Envelope struct {
	Topic     string
	Payload   any
	Timestamp time.Time
}

// LagNotice is synthesized onto a subscriber's own channel the first time
// a backpressure drop interrupts it, so the subscriber can tell "missed
// something" apart from "nothing happened" (spec.md §9 Open Questions).
type LagNotice struct {
	Subscriber Token
	Timestamp  time.Time
}

type subscriber struct {
	id         Token
	topics     map[string]bool // empty set means "every topic"
	ch         chan Envelope
	dropStreak int
}

func (s *subscriber) matches(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	return s.topics[topic]
}

// Fabric is the single owner of the subscriber registry; register,
// unregister, and deliver all run on its one actor goroutine, so a
// subscriber's channel is never closed concurrently with a send to it.
type Fabric struct {
	bufferSize int
	log        zerolog.Logger

	subs map[Token]*subscriber

	register   chan *subscriber
	unregister chan Token
	broadcast  chan Envelope
	quit       chan struct{}
	done       chan struct{}
}

// New constructs a Fabric and starts its actor goroutine. bufferSize is
// the per-subscriber channel depth (spec default 256).
func New(bufferSize int) *Fabric {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	f := &Fabric{
		bufferSize: bufferSize,
		log:        telemetrylog.Component("broadcast-fabric"),
		subs:       make(map[Token]*subscriber),
		register:   make(chan *subscriber),
		unregister: make(chan Token),
		broadcast:  make(chan Envelope, 256),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *Fabric) run() {
	defer close(f.done)
	for {
		select {
		case s := <-f.register:
			f.subs[s.id] = s
		case id := <-f.unregister:
			if s, ok := f.subs[id]; ok {
				close(s.ch)
				delete(f.subs, id)
			}
		case env := <-f.broadcast:
			for _, s := range f.subs {
				if s.matches(env.Topic) {
					f.deliver(s, env)
				}
			}
		case <-f.quit:
			return
		}
	}
}

// deliver tries a non-blocking send; on a full channel it evicts the
// oldest queued envelope and sends in its place, and on the first drop of
// a new streak also pushes a LagNotice so the subscriber can detect the
// gap (spec.md §5 backpressure policy). Evicting a queued LagNotice starts
// a new streak, so a fresh one is pushed and the gap stays visible.
func (f *Fabric) deliver(s *subscriber, env Envelope) {
	select {
	case s.ch <- env:
		s.dropStreak = 0
		return
	default:
	}

	select {
	case old := <-s.ch:
		if old.Topic == "fabric:lag" {
			s.dropStreak = 0
		}
	default:
	}
	select {
	case s.ch <- env:
	default:
	}

	s.dropStreak++
	if s.dropStreak == 1 {
		lag := Envelope{Topic: "fabric:lag", Payload: LagNotice{Subscriber: s.id, Timestamp: env.Timestamp}, Timestamp: env.Timestamp}
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- lag:
		default:
		}
	}
}

// Subscribe registers a new subscriber interested in topics (an empty
// slice subscribes to everything) and returns its token and read-only
// delivery channel.
func (f *Fabric) Subscribe(topics []string) (Token, <-chan Envelope) {
	id := Token(uuid.New())
	topicSet := make(map[string]bool, len(topics))
	for _, t := range topics {
		topicSet[t] = true
	}
	ch := make(chan Envelope, f.bufferSize)
	s := &subscriber{id: id, topics: topicSet, ch: ch}

	select {
	case f.register <- s:
	case <-f.quit:
	}
	return id, ch
}

// Unsubscribe removes a subscription and closes its delivery channel.
func (f *Fabric) Unsubscribe(token Token) {
	select {
	case f.unregister <- token:
	case <-f.quit:
	}
}

// Broadcast publishes payload under topic to every matching subscriber.
// It implements state.Fabric.
func (f *Fabric) Broadcast(topic string, payload any) {
	env := Envelope{Topic: topic, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case f.broadcast <- env:
	case <-f.quit:
	}
}

// Stop signals the actor goroutine to exit and waits for it. Envelopes
// still queued for broadcast are not delivered.
func (f *Fabric) Stop() {
	close(f.quit)
	<-f.done
}
