/*
Package state
File: copy.go
Description:
    Slice-level structural copies used when handing state out to external
    readers, so a caller mutating its copy can never corrupt the
    projector's Root (spec.md §9: "slice-level copying on broadcast is
    cheap relative to parse cost").
*/
package state

func copyRoot(r *Root) Root {
	out := *r
	out.Ship = copyShip(r.Ship)
	out.Location = copyLocation(r.Location)
	out.Materials = copyMaterials(r.Materials)
	out.Missions = copyMissions(r.Missions)
	out.Carrier = copyCarrier(r.Carrier)
	out.OnFoot = copyOnFoot(r.OnFoot)
	out.Session.UniqueSystemsVisited = append([]string(nil), r.Session.UniqueSystemsVisited...)
	return out
}

func copyShip(s Ship) Ship {
	out := s
	out.Modules = append([]Module(nil), s.Modules...)
	out.Cargo = append([]CargoItem(nil), s.Cargo...)
	return out
}

func copyLocation(l Location) Location {
	out := l
	if l.Station != nil {
		st := *l.Station
		out.Station = &st
	}
	if l.Surface != nil {
		sf := *l.Surface
		out.Surface = &sf
	}
	return out
}

func copyMaterials(m Materials) Materials {
	return Materials{
		Raw:          append([]Material(nil), m.Raw...),
		Manufactured: append([]Material(nil), m.Manufactured...),
		Encoded:      append([]Material(nil), m.Encoded...),
	}
}

func copyMissions(m Missions) Missions {
	return Missions{Active: append([]Mission(nil), m.Active...)}
}

func copyCarrier(c *Carrier) *Carrier {
	if c == nil {
		return nil
	}
	out := *c
	out.Services = append([]CarrierService(nil), c.Services...)
	out.ShipPacks = append([]string(nil), c.ShipPacks...)
	out.ModulePacks = append([]string(nil), c.ModulePacks...)
	out.TradeOrders = append([]CarrierTradeOrder(nil), c.TradeOrders...)
	out.JumpHistory = append([]string(nil), c.JumpHistory...)
	return &out
}

func copyOnFoot(o OnFoot) OnFoot {
	out := o
	out.Suits = append([]string(nil), o.Suits...)
	out.SavedLoadouts = append([]SuitLoadout(nil), o.SavedLoadouts...)
	out.Items = append([]BackpackItem(nil), o.Items...)
	out.Components = append([]BackpackItem(nil), o.Components...)
	out.Consumables = append([]BackpackItem(nil), o.Consumables...)
	out.Data = append([]BackpackItem(nil), o.Data...)
	out.ActiveScans = append([]OrganicScan(nil), o.ActiveScans...)
	out.CurrentLoadout.Weapons = append([]SuitWeapon(nil), o.CurrentLoadout.Weapons...)
	return out
}
