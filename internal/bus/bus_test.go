package bus_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
)

func TestPublishDeliversToAllSubscribersInOrder(t *testing.T) {
	b := bus.New(100)
	var order []int

	b.Subscribe("topic", func(payload any) { order = append(order, 1) })
	b.Subscribe("topic", func(payload any) { order = append(order, 2) })
	b.Subscribe("other", func(payload any) { order = append(order, 99) })

	b.Publish("topic", "hello")

	require.Equal(t, []int{1, 2}, order)
}

func TestUnsubscribeStopsFurtherDelivery(t *testing.T) {
	b := bus.New(100)
	calls := 0
	token := b.Subscribe("topic", func(payload any) { calls++ })

	b.Publish("topic", nil)
	b.Unsubscribe(token)
	b.Publish("topic", nil)

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeInsideHandlerDoesNotDeadlock(t *testing.T) {
	b := bus.New(100)
	var token bus.Token
	called := false
	token = b.Subscribe("topic", func(payload any) {
		called = true
		b.Unsubscribe(token)
	})

	b.Publish("topic", nil)
	assert.True(t, called)

	calls := 0
	b.Subscribe("topic", func(payload any) { calls++ })
	b.Publish("topic", nil)
	assert.Equal(t, 1, calls)
}

func TestNewClampsListenerCapToMinimum(t *testing.T) {
	var logs bytes.Buffer
	telemetrylog.Configure(zerolog.WarnLevel, &logs)
	defer telemetrylog.Configure(zerolog.InfoLevel, nil)

	b := bus.New(1)
	for i := 0; i < 5; i++ {
		b.Subscribe("topic", func(payload any) {})
	}
	// Below the spec.md §4.4 minimum of 100, New should have raised the cap
	// rather than warning on every subscription past 1.
	calls := 0
	b.Subscribe("topic", func(payload any) { calls++ })
	b.Publish("topic", nil)
	assert.Equal(t, 1, calls)
	assert.NotContains(t, logs.String(), "listener cap exceeded")
}
