/*
Package state
File: location.go
Description:
    Handlers for the current-position slice: system/body identity, the
    docked/landed/supercruise/crew-seat flags, and the session's
    system-visit counters (spec.md §4.5 Location slice).
*/
package state

import (
	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerLocationHandlers(p *Projector) {
	p.on("Location", handleLocationEvent(p))
	p.on("FSDJump", handleFSDJump(p))
	p.on("CarrierJump", handleCarrierJump(p))
	p.on("SupercruiseEntry", handleSupercruiseEntry(p))
	p.on("SupercruiseExit", handleSupercruiseExit(p))
	p.on("Docked", handleDocked(p))
	p.on("Undocked", handleUndocked(p))
	p.on("Touchdown", handleTouchdown(p))
	p.on("Liftoff", handleLiftoff(p))
	p.on("Embark", handleEmbark(p))
	p.on("Disembark", handleDisembark(p))
	p.on("LaunchSRV", handleLaunchSRV(p))
	p.on("DockSRV", handleDockSRV(p))
	p.on("LaunchFighter", handleLaunchFighter(p))
	p.on("DockFighter", handleDockFighter(p))
}

func applyStarPos(loc *Location, ev *journal.Event) {
	sp := ev.Slice("StarPos")
	if len(sp) != 3 {
		return
	}
	for i, v := range sp {
		if f, ok := v.(float64); ok {
			loc.StarPos[i] = f
		}
	}
}

func applySystemFields(loc *Location, ev *journal.Event) {
	loc.SystemName = ev.Str("StarSystem")
	loc.SystemAddress = ev.Int64("SystemAddress")
	applyStarPos(loc, ev)
	loc.SystemAllegiance = ev.Str("SystemAllegiance")
	loc.SystemEconomy = ev.Str("SystemEconomy")
	loc.SystemGovernment = ev.Str("SystemGovernment")
	loc.SystemSecurity = ev.Str("SystemSecurity")
	loc.Population = ev.Int64("Population")
}

func applyStationFields(loc *Location, ev *journal.Event) {
	if !ev.Bool("Docked") {
		loc.Station = nil
		return
	}
	loc.Station = &Station{
		Name:     ev.Str("StationName"),
		Type:     ev.Str("StationType"),
		MarketID: ev.Int64("MarketID"),
	}
}

// handleLocationEvent applies the startup/instantaneous full snapshot. It
// does not count as a jump (Jumps, TotalDistance and FuelUsed are left
// alone) but it does record a system visit.
func handleLocationEvent(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		applySystemFields(&r.Location, ev)
		r.Location.Body = ev.Str("Body")
		r.Location.BodyID = ev.Int("BodyID")
		r.Location.BodyType = ev.Str("BodyType")
		r.Location.Docked = ev.Bool("Docked")
		r.Location.DistFromStarLS = ev.Float("DistFromStarLS")
		applyStationFields(&r.Location, ev)
		r.Meta.Initialized = true
		r.Session.recordSystemVisit(r.Location.SystemName)
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleFSDJump(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		applySystemFields(&r.Location, ev)
		r.Location.Body = ev.Str("Body")
		r.Location.BodyID = ev.Int("BodyID")
		r.Location.BodyType = ev.Str("BodyType")
		r.Location.Docked = false
		r.Location.Landed = false
		r.Location.Supercruise = true
		r.Location.Station = nil
		r.Location.DistFromStarLS = ev.Float("DistFromStarLS")

		r.Session.Jumps++
		r.Session.TotalDistance += ev.Float("JumpDist")
		r.Session.FuelUsed += ev.Float("FuelUsed")
		r.Session.recordSystemVisit(r.Location.SystemName)
		if ev.Has("FuelLevel") {
			r.Ship.Fuel.Main = ev.Float("FuelLevel")
		}

		p.broadcastSlice(r, "location", copyLocation(r.Location))
		p.broadcastSlice(r, "session", r.Session)
	}
}

// handleCarrierJump applies the arrival system and body like FSDJump, but
// takes the docked flag and station from the event instead of entering
// supercruise, and never touches the ship's own jump/fuel counters -- the
// carrier, not the player's ship, performed the jump. It does record a
// system visit. The carrier slice is only updated if
// it already exists (spec.md §9 Open Questions: CarrierJump never
// allocates the carrier slice on its own).
func handleCarrierJump(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		applySystemFields(&r.Location, ev)
		r.Location.Body = ev.Str("Body")
		r.Location.BodyID = ev.Int("BodyID")
		r.Location.BodyType = ev.Str("BodyType")
		r.Location.Docked = ev.Bool("Docked")
		applyStationFields(&r.Location, ev)
		r.Session.recordSystemVisit(r.Location.SystemName)

		if r.Carrier != nil {
			r.Carrier.CurrentSystem = r.Location.SystemName
			r.Carrier.CurrentBody = r.Location.Body
			p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
		}
		p.broadcastSlice(r, "location", copyLocation(r.Location))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleSupercruiseEntry(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.Supercruise = true
		r.Location.Docked = false
		r.Location.Station = nil
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleSupercruiseExit(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.Supercruise = false
		r.Location.Body = ev.Str("Body")
		r.Location.BodyID = ev.Int("BodyID")
		r.Location.BodyType = ev.Str("BodyType")
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleDocked(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.Docked = true
		applySystemFields(&r.Location, ev)
		r.Location.Station = &Station{
			Name:     ev.Str("StationName"),
			Type:     ev.Str("StationType"),
			MarketID: ev.Int64("MarketID"),
		}
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleUndocked(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.Docked = false
		r.Location.Station = nil
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleTouchdown(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !ev.Bool("PlayerControlled") {
			return
		}
		r.Location.Landed = true
		r.Location.Surface = &Surface{
			Latitude:  ev.Float("Latitude"),
			Longitude: ev.Float("Longitude"),
		}
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleLiftoff(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !ev.Bool("PlayerControlled") {
			return
		}
		r.Location.Landed = false
		r.Location.Surface = nil
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleEmbark(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.OnFoot = false
		r.Location.InSRV = ev.Bool("SRV")
		r.Location.InTaxi = ev.Bool("Taxi")
		r.Location.InMulticrew = ev.Bool("Multicrew")
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleDisembark(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.OnFoot = true
		r.Location.InSRV = false
		r.Location.InTaxi = false
		r.Location.InMulticrew = false
		if name := ev.Str("StationName"); name != "" {
			r.Location.Station = &Station{
				Name:     name,
				Type:     ev.Str("StationType"),
				MarketID: ev.Int64("MarketID"),
			}
		}
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleLaunchSRV(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.InSRV = true
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleDockSRV(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.InSRV = false
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleLaunchFighter(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.InFighter = ev.Bool("PlayerControlled")
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}

func handleDockFighter(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Location.InFighter = false
		p.broadcastSlice(r, "location", copyLocation(r.Location))
	}
}
