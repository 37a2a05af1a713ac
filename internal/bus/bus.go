/*
Package bus
File: bus.go
Description:
    A typed in-process publish/subscribe bus. Generalizes the teacher's
    websocket Hub (register/unregister/broadcast over a single channel) into
    a multi-topic registry: journal:*, journal:<EventName>, one topic per
    sidecar file, companion:*, gamestate:change, and watcher:started|stopped|error.

    Delivery is synchronous: Publish runs every subscriber registered for a
    topic, in registration order, before returning. This is what lets the
    state projector observe per-file event order deterministically.
*/
package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

// WildcardJournal is the topic every parsed journal event is published to,
// regardless of its kind.
const WildcardJournal = "journal:*"

// WildcardCompanion is the topic every sidecar update is published to,
// regardless of file.
const WildcardCompanion = "companion:*"

// Topic name constants for the fixed lifecycle and gamestate topics.
const (
	TopicGamestateChange = "gamestate:change"
	TopicWatcherStarted  = "watcher:started"
	TopicWatcherStopped  = "watcher:stopped"
	TopicWatcherError    = "watcher:error"
)

// Handler receives a published payload. Handlers must not block
// indefinitely; schedule further work on a goroutine if it's heavy.
type Handler func(payload any)

// Token identifies a subscription for later Unsubscribe.
type Token uuid.UUID

type subscription struct {
	id      Token
	topic   string
	handler Handler
}

// Bus is a multi-topic synchronous pub/sub registry.
type Bus struct {
	mu          sync.RWMutex
	subsByTopic map[string][]subscription
	listenerCap int
	log         zerolog.Logger
}

// New constructs a Bus. listenerCap guards against subscription leaks: once
// a topic holds that many subscribers, further Subscribe calls still
// succeed but log a warning. Per spec.md §4.4 the cap must be >= 100.
func New(listenerCap int) *Bus {
	if listenerCap < 100 {
		listenerCap = 100
	}
	return &Bus{
		subsByTopic: make(map[string][]subscription),
		listenerCap: listenerCap,
		log:         telemetrylog.Component("event-bus"),
	}
}

// Subscribe registers handler for topic and returns a token usable with
// Unsubscribe. Subscribing to the wildcard topics ("journal:*",
// "companion:*") only ever receives payloads explicitly published to that
// literal topic string — fan-out to the wildcard is the publisher's job.
func (b *Bus) Subscribe(topic string, handler Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := Token(uuid.New())
	b.subsByTopic[topic] = append(b.subsByTopic[topic], subscription{id: id, topic: topic, handler: handler})

	if n := len(b.subsByTopic[topic]); n > b.listenerCap {
		b.log.Warn().Str("topic", topic).Int("count", n).Msg("listener cap exceeded")
	}
	return id
}

// Unsubscribe removes a previously registered handler. It is safe to call
// from inside a handler invocation: the in-progress dispatch already holds
// its own snapshot of the subscriber list.
func (b *Bus) Unsubscribe(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, subs := range b.subsByTopic {
		for i, s := range subs {
			if s.id == token {
				b.subsByTopic[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish synchronously invokes every subscriber currently registered for
// topic, in registration order, using a point-in-time snapshot so that
// subscriptions added or removed during dispatch never affect it.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subsByTopic[topic]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(payload)
	}
}
