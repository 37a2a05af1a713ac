package sidecar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/sidecar"
)

func TestDecodeStatusFlagsDecodesKnownBits(t *testing.T) {
	data := map[string]any{
		"Flags":  float64(sidecar.FlagDocked | sidecar.FlagShieldsUp | sidecar.FlagSilentRunning),
		"Flags2": float64(sidecar.Flag2OnFoot),
	}

	flags := sidecar.DecodeStatusFlags(data)

	assert.True(t, flags.Docked)
	assert.True(t, flags.ShieldsUp)
	assert.True(t, flags.SilentRunning)
	assert.True(t, flags.OnFoot)
	assert.False(t, flags.Landed)
	assert.False(t, flags.InTaxi)
}

func TestDecodeStatusFlagsMissingMaskDecodesAllFalse(t *testing.T) {
	flags := sidecar.DecodeStatusFlags(map[string]any{})

	assert.False(t, flags.Docked)
	assert.False(t, flags.Landed)
	assert.False(t, flags.HasSurface)
	assert.Equal(t, [3]int{0, 0, 0}, flags.Pips)
}

func TestDecodeStatusFlagsSurfaceFieldsOnlySetWhenLatitudePresent(t *testing.T) {
	onSurface := sidecar.DecodeStatusFlags(map[string]any{
		"Flags":    float64(sidecar.FlagLanded),
		"Latitude": 12.5,
	})
	require.True(t, onSurface.HasSurface)
	assert.Equal(t, 12.5, onSurface.Latitude)

	offSurface := sidecar.DecodeStatusFlags(map[string]any{"Flags": float64(0)})
	assert.False(t, offSurface.HasSurface)
}

func TestDecodeStatusFlagsFuelAndDestination(t *testing.T) {
	data := map[string]any{
		"Fuel": map[string]any{
			"FuelMain":      float64(12),
			"FuelReservoir": float64(0.5),
		},
		"Destination": map[string]any{
			"System": "Sol",
			"Body":   float64(3),
			"Name":   "Earth",
		},
	}

	flags := sidecar.DecodeStatusFlags(data)

	assert.Equal(t, 12.0, flags.FuelMain)
	assert.Equal(t, 0.5, flags.FuelReserve)
	require.NotNil(t, flags.Destination)
	assert.Equal(t, "Sol", flags.Destination.System)
	assert.Equal(t, 3, flags.Destination.Body)
}
