package state_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/bus"
	"github.com/everforgeworks/frontier-core/internal/journal"
	"github.com/everforgeworks/frontier-core/internal/state"
)

// recordingFabric satisfies state.Fabric and records every broadcast, so
// tests can assert a slice update actually fired.
type recordingFabric struct {
	topics []string
}

func (f *recordingFabric) Broadcast(topic string, payload any) {
	f.topics = append(f.topics, topic)
}

func newTestProjector(t *testing.T) (*bus.Bus, *state.Projector, *recordingFabric) {
	t.Helper()
	b := bus.New(100)
	fabric := &recordingFabric{}
	p := state.NewProjector(b, fabric)
	p.Start()
	t.Cleanup(p.Stop)
	return b, p, fabric
}

func publish(b *bus.Bus, kind string, fields map[string]any) {
	fields["event"] = kind
	ev := &journal.Event{Kind: kind, Fields: fields, Timestamp: time.Now()}
	b.Publish(bus.WildcardJournal, ev)
}

func TestLoadGameSeedsCommanderShipAndResetsSession(t *testing.T) {
	b, p, fabric := newTestProjector(t)

	publish(b, "LoadGame", map[string]any{
		"FID": "F123", "Commander": "Jameson", "Credits": float64(1000),
		"GameMode": "Open", "Ship": "sidewinder", "ShipID": float64(1),
		"ShipName": "Beagle", "ShipIdent": "CMDR-1",
		"FuelLevel": 2.0, "FuelCapacity": 2.0,
	})

	cmdr := p.Commander()
	assert.Equal(t, "F123", cmdr.FID)
	assert.Equal(t, "Jameson", cmdr.Name)
	assert.Equal(t, int64(1000), cmdr.Credits)

	ship := p.ShipSnapshot()
	assert.Equal(t, "sidewinder", ship.ShipType)
	assert.Equal(t, "Beagle", ship.Name)

	require.True(t, p.IsInitialized())
	assert.Equal(t, 0, p.SessionSnapshot().Jumps)
	assert.Contains(t, fabric.topics, "state:commander")
}

func TestFSDJumpIncrementsSessionCountersAndUniqueSystems(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "FSDJump", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0}, "JumpDist": 10.5, "FuelUsed": 2.5,
	})
	publish(b, "FSDJump", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0}, "JumpDist": 5.0, "FuelUsed": 1.0,
	})
	publish(b, "FSDJump", map[string]any{
		"StarSystem": "Alioth", "SystemAddress": float64(20),
		"StarPos": []any{1.0, 1.0, 1.0}, "JumpDist": 3.0, "FuelUsed": 0.5,
	})

	session := p.SessionSnapshot()
	assert.Equal(t, 3, session.Jumps)
	assert.Equal(t, 3, session.SystemsVisited)
	assert.Equal(t, 18.5, session.TotalDistance)
	assert.ElementsMatch(t, []string{"Sol", "Alioth"}, session.UniqueSystemsVisited)

	loc := p.LocationSnapshot()
	assert.Equal(t, "Alioth", loc.SystemName)
}

func TestCarrierJumpNeverAllocatesCarrierWithoutStats(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "CarrierJump", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0},
	})

	assert.Nil(t, p.CarrierSnapshot())
	// The ship's own session jump counter must be untouched by a carrier jump.
	assert.Equal(t, 0, p.SessionSnapshot().Jumps)
}

func TestCarrierStatsSeedsCarrierThenJumpUpdatesLocation(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "CarrierStats", map[string]any{
		"CarrierID": float64(555), "Callsign": "XYZ-123", "Name": "Wanderer",
	})
	require.NotNil(t, p.CarrierSnapshot())
	assert.Equal(t, int64(555), p.CarrierSnapshot().ID)

	publish(b, "CarrierJump", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0}, "BodyID": float64(1), "Body": "Sol A",
		"CarrierID": float64(555),
	})

	carrier := p.CarrierSnapshot()
	require.NotNil(t, carrier)
	assert.Equal(t, "Sol", carrier.CurrentSystem)
}

func TestMaterialCollectedThenDiscardedRespectsGradeCap(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "MaterialCollected", map[string]any{
		"Category": "Raw", "Name": "Iron", "Count": float64(3),
	})
	mats := p.MaterialsSnapshot()
	require.Len(t, mats.Raw, 1)
	assert.Equal(t, "iron", mats.Raw[0].Name)
	assert.Equal(t, 3, mats.Raw[0].Count)
	assert.Equal(t, state.GradeCap(1), mats.Raw[0].Maximum)

	publish(b, "MaterialDiscarded", map[string]any{
		"Category": "Raw", "Name": "Iron", "Count": float64(1),
	})
	mats = p.MaterialsSnapshot()
	require.Len(t, mats.Raw, 1)
	assert.Equal(t, 2, mats.Raw[0].Count)

	// materialsCollected tracks the cumulative Count across events, not the
	// number of MaterialCollected events observed.
	assert.Equal(t, 3, p.SessionSnapshot().MaterialsCollected)
}

func TestLocationEventInitializesSessionAndRecordsVisitWithoutLoadGame(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "Location", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0}, "Docked": false,
	})

	assert.True(t, p.IsInitialized())
	session := p.SessionSnapshot()
	assert.Equal(t, 1, session.SystemsVisited)
	assert.Contains(t, session.UniqueSystemsVisited, "Sol")
}

func TestRedeemVoucherCreditsBountyEarningsOnlyForBountyOrCombatBond(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "RedeemVoucher", map[string]any{
		"Type": "bounty", "Amount": float64(1000),
	})
	session := p.SessionSnapshot()
	assert.Equal(t, int64(1000), session.CreditsEarned)
	assert.Equal(t, int64(1000), session.BountyEarnings)

	publish(b, "RedeemVoucher", map[string]any{
		"Type": "trade", "Amount": float64(500),
	})
	session = p.SessionSnapshot()
	assert.Equal(t, int64(1500), session.CreditsEarned)
	assert.Equal(t, int64(1000), session.BountyEarnings, "non-bounty voucher types must not add to bounty earnings")
}

func TestDisembarkPopulatesStationWhenPresent(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "Disembark", map[string]any{
		"StationName": "Jameson Memorial", "StationType": "Orbis", "MarketID": float64(128666762),
	})

	loc := p.LocationSnapshot()
	require.True(t, loc.OnFoot)
	require.NotNil(t, loc.Station)
	assert.Equal(t, "Jameson Memorial", loc.Station.Name)
	assert.Equal(t, int64(128666762), loc.Station.MarketID)
}

func TestMissionAcceptedThenCompletedCreditsRewardAndRemovesMission(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "MissionAccepted", map[string]any{
		"MissionID": float64(42), "Name": "Mission_Delivery", "Faction": "Fed",
		"Reward": float64(5000),
	})
	require.Len(t, p.MissionsSnapshot().Active, 1)

	publish(b, "MissionCompleted", map[string]any{
		"MissionID": float64(42), "Reward": float64(5000),
	})

	missions := p.MissionsSnapshot()
	assert.Empty(t, missions.Active)
	session := p.SessionSnapshot()
	assert.Equal(t, 1, session.MissionsCompleted)
	assert.Equal(t, int64(5000), session.CreditsEarned)
}

func TestSuitLoadoutActivatesOnFootAndUpsertsSavedLoadout(t *testing.T) {
	b, p, _ := newTestProjector(t)

	publish(b, "SuitLoadout", map[string]any{
		"SuitName": "utilitysuit_class1", "LoadoutName": "Maverick Explorer",
		"Modules": []any{
			map[string]any{"SlotName": "PrimaryWeapon", "ModuleName": "wpn_m_assaultrifle_plasma_fauto", "Class": float64(2)},
		},
	})

	onFoot := p.OnFootSnapshot()
	assert.True(t, onFoot.Active)
	assert.Equal(t, "Utility Suit", onFoot.CurrentLoadout.SuitType)
	require.Len(t, onFoot.SavedLoadouts, 1)
	assert.Equal(t, "Maverick Explorer", onFoot.SavedLoadouts[0].LoadoutName)
}

func TestResetSessionZeroesCountersWithoutTouchingOtherSlices(t *testing.T) {
	b, p, _ := newTestProjector(t)
	publish(b, "FSDJump", map[string]any{
		"StarSystem": "Sol", "SystemAddress": float64(10),
		"StarPos": []any{0.0, 0.0, 0.0}, "JumpDist": 10.0, "FuelUsed": 1.0,
	})
	require.Equal(t, 1, p.SessionSnapshot().Jumps)

	p.ResetSession()

	assert.Equal(t, 0, p.SessionSnapshot().Jumps)
	assert.Equal(t, "Sol", p.LocationSnapshot().SystemName)
}
