/*
Package state
File: onfoot.go
Description:
    Handlers for the on-foot/exobiology slice: suit loadouts, the backpack
    inventory, and in-progress organic scan sequences (spec.md §4.5 On-foot
    slice).
*/
package state

import (
	"strings"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerOnFootHandlers(p *Projector) {
	p.on("SuitLoadout", handleSuitLoadout(p))
	p.on("SwitchSuitLoadout", handleSuitLoadout(p))
	p.on("Backpack", handleBackpack(p))
	p.on("BackpackChange", handleBackpackChange(p))
	p.on("ScanOrganic", handleScanOrganic(p))
}

// classifySuitType buckets a raw suit name into one of the four broad
// on-foot roles by substring, since the journal reports only the suit's
// internal item name.
func classifySuitType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "combat"):
		return "Combat Suit"
	case strings.Contains(lower, "utility"):
		return "Utility Suit"
	case strings.Contains(lower, "explorer"):
		return "Explorer Suit"
	default:
		return "Flight Suit"
	}
}

func handleSuitLoadout(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		suitName := ev.Str("SuitName")
		loadout := SuitLoadout{
			LoadoutName: ev.Str("LoadoutName"),
			SuitName:    suitName,
			SuitType:    classifySuitType(suitName),
		}
		for _, raw := range ev.Slice("Modules") {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			loadout.Weapons = append(loadout.Weapons, SuitWeapon{
				Slot:  mapStr(m, "SlotName"),
				Name:  mapStr(m, "ModuleName"),
				Class: mapInt(m, "Class"),
			})
		}
		r.OnFoot.CurrentLoadout = loadout
		r.OnFoot.Active = true

		upserted := false
		for i, l := range r.OnFoot.SavedLoadouts {
			if l.LoadoutName == loadout.LoadoutName {
				r.OnFoot.SavedLoadouts[i] = loadout
				upserted = true
				break
			}
		}
		if !upserted {
			r.OnFoot.SavedLoadouts = append(r.OnFoot.SavedLoadouts, loadout)
		}
		p.broadcastSlice(r, "onFoot", copyOnFoot(r.OnFoot))
	}
}

func parseBackpackList(raw []any, typ string) []BackpackItem {
	out := make([]BackpackItem, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, BackpackItem{Name: mapStr(m, "Name"), Type: typ, Count: mapInt(m, "Count")})
	}
	return out
}

func handleBackpack(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.OnFoot.Items = parseBackpackList(ev.Slice("Items"), "Item")
		r.OnFoot.Components = parseBackpackList(ev.Slice("Components"), "Component")
		r.OnFoot.Consumables = parseBackpackList(ev.Slice("Consumables"), "Consumable")
		r.OnFoot.Data = parseBackpackList(ev.Slice("Data"), "Data")
		p.broadcastSlice(r, "onFoot", copyOnFoot(r.OnFoot))
	}
}

func backpackListPtr(r *Root, typ string) *[]BackpackItem {
	switch typ {
	case "Item":
		return &r.OnFoot.Items
	case "Component":
		return &r.OnFoot.Components
	case "Consumable":
		return &r.OnFoot.Consumables
	case "Data":
		return &r.OnFoot.Data
	default:
		return nil
	}
}

func applyBackpackDelta(r *Root, raw []any, sign int) {
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		list := backpackListPtr(r, mapStr(m, "Type"))
		if list == nil {
			continue
		}
		name := mapStr(m, "Name")
		delta := mapInt(m, "Count") * sign
		found := false
		for i := range *list {
			if (*list)[i].Name == name {
				(*list)[i].Count += delta
				found = true
				break
			}
		}
		if !found && delta > 0 {
			*list = append(*list, BackpackItem{Name: name, Type: mapStr(m, "Type"), Count: delta})
		}
	}
}

// handleBackpackChange applies the incremental Added/Removed deltas and
// then drops any entry whose count fell to zero or below.
func handleBackpackChange(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		applyBackpackDelta(r, ev.Slice("Added"), 1)
		applyBackpackDelta(r, ev.Slice("Removed"), -1)

		for _, typ := range [...]string{"Item", "Component", "Consumable", "Data"} {
			list := backpackListPtr(r, typ)
			kept := (*list)[:0]
			for _, it := range *list {
				if it.Count > 0 {
					kept = append(kept, it)
				}
			}
			*list = kept
		}
		p.broadcastSlice(r, "onFoot", copyOnFoot(r.OnFoot))
	}
}

// handleScanOrganic upserts the in-progress scan sequence for a species on
// a body, and finalizes (removes the in-progress record, increments
// SpeciesAnalysed) once the analyse stage completes it.
func handleScanOrganic(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		species := ev.Str("Species")
		systemAddress := ev.Int64("SystemAddress")
		bodyID := ev.Int("Body")

		idx := -1
		for i, s := range r.OnFoot.ActiveScans {
			if s.Species == species && s.SystemAddress == systemAddress && s.BodyID == bodyID {
				idx = i
				break
			}
		}
		if idx < 0 {
			r.OnFoot.ActiveScans = append(r.OnFoot.ActiveScans, OrganicScan{
				Species:       species,
				SystemAddress: systemAddress,
				BodyID:        bodyID,
			})
			idx = len(r.OnFoot.ActiveScans) - 1
		}
		r.OnFoot.ActiveScans[idx].ScanCount++

		if ev.Str("ScanType") == "Analyse" {
			r.OnFoot.SpeciesAnalysed++
			r.OnFoot.ActiveScans = append(r.OnFoot.ActiveScans[:idx], r.OnFoot.ActiveScans[idx+1:]...)
		}
		p.broadcastSlice(r, "onFoot", copyOnFoot(r.OnFoot))
	}
}
