package broadcast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/broadcast"
)

func TestBroadcastDeliversToMatchingTopicOnly(t *testing.T) {
	f := broadcast.New(8)
	defer f.Stop()

	_, recv := f.Subscribe([]string{"state:ship"})

	f.Broadcast("state:ship", "hull-ok")
	f.Broadcast("state:location", "ignored")

	select {
	case env := <-recv:
		assert.Equal(t, "state:ship", env.Topic)
		assert.Equal(t, "hull-ok", env.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected envelope was not delivered")
	}

	select {
	case env := <-recv:
		t.Fatalf("unexpected second envelope: %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeWithNoTopicsReceivesEverything(t *testing.T) {
	f := broadcast.New(8)
	defer f.Stop()

	_, recv := f.Subscribe(nil)
	f.Broadcast("anything:at:all", 1)

	select {
	case env := <-recv:
		assert.Equal(t, "anything:at:all", env.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected envelope was not delivered")
	}
}

func TestUnsubscribeClosesDeliveryChannel(t *testing.T) {
	f := broadcast.New(8)
	defer f.Stop()

	token, recv := f.Subscribe(nil)
	f.Unsubscribe(token)

	select {
	case _, ok := <-recv:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel was never closed")
	}
}

func TestOverflowDropsOldestAndNotifiesWithLagNotice(t *testing.T) {
	f := broadcast.New(2)
	defer f.Stop()

	_, recv := f.Subscribe([]string{"flood"})

	for i := 0; i < 5; i++ {
		f.Broadcast("flood", i)
	}
	time.Sleep(100 * time.Millisecond)

	var envelopes []broadcast.Envelope
	drain := true
	for drain {
		select {
		case env := <-recv:
			envelopes = append(envelopes, env)
		default:
			drain = false
		}
	}

	require.NotEmpty(t, envelopes)
	foundLag := false
	for _, env := range envelopes {
		if env.Topic == "fabric:lag" {
			foundLag = true
			_, ok := env.Payload.(broadcast.LagNotice)
			assert.True(t, ok)
		}
	}
	assert.True(t, foundLag, "expected a fabric:lag notice after an overflow")
}
