/*
Package state
File: sidecars.go
Description:
    Folds sidecar.Updates into Root. The live-status file is the
    authoritative source for the ship/location boolean flags and fuel
    levels between journal events (spec.md §4.3, §6.4); the cargo sidecar
    mirrors the journal's own Cargo event for the ship vessel.
*/
package state

import (
	"github.com/everforgeworks/frontier-core/internal/sidecar"
)

// handleStatusSidecar applies the decoded live-status flags to the ship
// and location slices and republishes the decoded flags themselves on
// status:flags, for subscribers that want the raw bitmask decode rather
// than the merged slices (spec.md §6.4).
func handleStatusSidecar(p *Projector, r *Root, u sidecar.Update) {
	if u.Flags == nil {
		return
	}
	f := *u.Flags

	r.Ship.HardpointsDeployed = f.HardpointsDeployed
	r.Ship.LandingGearDown = f.LandingGearDown
	r.Ship.ShieldsUp = f.ShieldsUp
	r.Ship.CargoScoopOpen = f.CargoScoopOpen
	r.Ship.LightsOn = f.LightsOn
	r.Ship.FsdCharging = f.FsdCharging
	r.Ship.FsdCooldown = f.FsdCooldown
	r.Ship.FsdMassLocked = f.FsdMassLocked
	r.Ship.SilentRunning = f.SilentRunning
	r.Ship.NightVision = f.NightVision
	r.Ship.Fuel.Main = f.FuelMain
	r.Ship.Fuel.Reserve = f.FuelReserve

	r.Location.Docked = f.Docked
	r.Location.Landed = f.Landed
	r.Location.Supercruise = f.Supercruise
	r.Location.OnFoot = f.OnFoot
	r.Location.InSRV = f.InSRV
	r.Location.InFighter = f.InFighter
	r.Location.InTaxi = f.InTaxi
	r.Location.InMulticrew = f.InMulticrew
	if f.HasSurface {
		r.Location.Surface = &Surface{
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
			Altitude:  f.Altitude,
			Heading:   f.Heading,
		}
	} else {
		r.Location.Surface = nil
	}
	if f.BodyName != "" {
		r.Location.Body = f.BodyName
	}

	p.broadcastSlice(r, "ship", copyShip(r.Ship))
	p.broadcastSlice(r, "location", copyLocation(r.Location))
	p.fabric.Broadcast("status:flags", f)
}

// handleCargoSidecar mirrors the journal's Cargo event for the ship
// vessel; SRV and fighter cargo snapshots (if the sidecar ever reports
// them) are ignored here, same as the journal-event handler.
func handleCargoSidecar(p *Projector, r *Root, u sidecar.Update) {
	if v, ok := u.Data["Vessel"].(string); ok && v != "" && v != "Ship" {
		return
	}
	var inv []any
	if v, ok := u.Data["Inventory"].([]any); ok {
		inv = v
	}
	r.Ship.Cargo = parseCargoInventory(inv)
	r.Ship.CargoCount = mapInt(u.Data, "Count")
	p.broadcastSlice(r, "ship", copyShip(r.Ship))
}
