/*
Package sidecar
File: status.go
Description:
    Decodes the bitmask-encoded live-status sidecar (spec.md §4.5, §6.3)
    into named booleans. Missing flags are treated as 0; since the
    live-status file is always a full snapshot, a decoded "false" is
    authoritative, never "unchanged" (spec.md §9).
*/
package sidecar

// Primary flags bitmask (spec.md §4.5/§6.3).
const (
	FlagDocked             = 0x01
	FlagLanded             = 0x02
	FlagLandingGearDown    = 0x04
	FlagShieldsUp          = 0x08
	FlagSupercruise        = 0x10
	FlagHardpointsDeployed = 0x40
	FlagLightsOn           = 0x100
	FlagCargoScoopOpen     = 0x200
	FlagSilentRunning      = 0x1000
	FlagFsdMassLocked      = 0x10000
	FlagFsdCharging        = 0x20000
	FlagFsdCooldown        = 0x40000
	FlagInFighter          = 0x2000000
	FlagInSRV              = 0x4000000
	FlagInMulticrew        = 0x8000000
	FlagNightVision        = 0x10000000
)

// Secondary flags bitmask.
const (
	Flag2OnFoot = 0x01
	Flag2InTaxi = 0x04
)

// StatusFlags is the decoded form of the live-status sidecar's Flags and
// Flags2 bitmasks, plus the ancillary fields needed to build the derived
// "live status" envelope the projector broadcasts alongside ship/location.
type StatusFlags struct {
	Docked             bool
	Landed             bool
	LandingGearDown    bool
	ShieldsUp          bool
	Supercruise        bool
	HardpointsDeployed bool
	LightsOn           bool
	CargoScoopOpen     bool
	SilentRunning      bool
	FsdMassLocked      bool
	FsdCharging        bool
	FsdCooldown        bool
	InFighter          bool
	InSRV              bool
	InMulticrew        bool
	NightVision        bool
	OnFoot             bool
	InTaxi             bool

	Pips         [3]int
	FireGroup    int
	GuiFocus     int
	FuelMain     float64
	FuelReserve  float64
	Cargo        float64
	LegalState   string
	Latitude     float64
	Longitude    float64
	Altitude     float64
	Heading      float64
	BodyName     string
	PlanetRadius float64
	HasSurface   bool
	Destination  *Destination
}

// Destination is the live-status file's optional selected-destination pointer.
type Destination struct {
	System string
	Body   int
	Name   string
}

// DecodeStatusFlags decodes a live-status document's bitmasks and
// ancillary fields. A missing "Flags"/"Flags2" key decodes as 0 (every
// boolean false), matching the source of truth: the sidecar is a full
// snapshot, so false is never "unchanged".
func DecodeStatusFlags(data map[string]any) StatusFlags {
	flags := int64(numberField(data, "Flags"))
	flags2 := int64(numberField(data, "Flags2"))

	out := StatusFlags{
		Docked:             flags&FlagDocked != 0,
		Landed:             flags&FlagLanded != 0,
		LandingGearDown:    flags&FlagLandingGearDown != 0,
		ShieldsUp:          flags&FlagShieldsUp != 0,
		Supercruise:        flags&FlagSupercruise != 0,
		HardpointsDeployed: flags&FlagHardpointsDeployed != 0,
		LightsOn:           flags&FlagLightsOn != 0,
		CargoScoopOpen:     flags&FlagCargoScoopOpen != 0,
		SilentRunning:      flags&FlagSilentRunning != 0,
		FsdMassLocked:      flags&FlagFsdMassLocked != 0,
		FsdCharging:        flags&FlagFsdCharging != 0,
		FsdCooldown:        flags&FlagFsdCooldown != 0,
		InFighter:          flags&FlagInFighter != 0,
		InSRV:              flags&FlagInSRV != 0,
		InMulticrew:        flags&FlagInMulticrew != 0,
		NightVision:        flags&FlagNightVision != 0,
		OnFoot:             flags2&Flag2OnFoot != 0,
		InTaxi:             flags2&Flag2InTaxi != 0,
	}

	if pips, ok := data["Pips"].([]any); ok && len(pips) == 3 {
		for i, p := range pips {
			if f, ok := p.(float64); ok {
				out.Pips[i] = int(f)
			}
		}
	}
	out.FireGroup = int(numberField(data, "FireGroup"))
	out.GuiFocus = int(numberField(data, "GuiFocus"))

	if fuel, ok := data["Fuel"].(map[string]any); ok {
		out.FuelMain = numberField(fuel, "FuelMain")
		out.FuelReserve = numberField(fuel, "FuelReservoir")
	}

	out.Cargo = numberField(data, "Cargo")
	out.LegalState, _ = data["LegalState"].(string)

	if lat, ok := data["Latitude"]; ok {
		out.HasSurface = true
		out.Latitude = numberField(data, "Latitude")
		_ = lat
	}
	out.Longitude = numberField(data, "Longitude")
	out.Altitude = numberField(data, "Altitude")
	out.Heading = numberField(data, "Heading")
	out.BodyName, _ = data["BodyName"].(string)
	out.PlanetRadius = numberField(data, "PlanetRadius")

	if dest, ok := data["Destination"].(map[string]any); ok {
		d := &Destination{}
		d.System, _ = dest["System"].(string)
		d.Body = int(numberField(dest, "Body"))
		d.Name, _ = dest["Name"].(string)
		out.Destination = d
	}

	return out
}

func numberField(data map[string]any, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}
