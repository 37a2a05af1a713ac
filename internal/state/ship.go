/*
Package state
File: ship.go
Description:
    Handlers for the current-vessel slice: Loadout is authoritative for
    ship identity, hull/module values, mass, jump range, and the full
    module list; the rest of the handlers here apply the narrower deltas
    a flight session produces on top of that baseline (spec.md §4.5 Ship
    slice).
*/
package state

import (
	"strings"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerShipHandlers(p *Projector) {
	p.on("Loadout", handleLoadout(p))
	p.on("ShipyardSwap", handleShipyardSwap(p))
	p.on("ShipyardBuy", handleShipyardBuy(p))
	p.on("SetUserShipName", handleSetUserShipName(p))
	p.on("ModuleBuy", handleModuleBuy(p))
	p.on("ModuleSell", handleModuleSell(p))
	p.on("ModuleStore", handleModuleStore(p))
	p.on("ModuleRetrieve", handleModuleRetrieve(p))
	p.on("ModuleSwap", handleModuleSwap(p))
	p.on("HullDamage", handleHullDamage(p))
	p.on("FuelScoop", handleFuelScoop(p))
	p.on("RefuelAll", handleRefuelAll(p))
	p.on("RefuelPartial", handleRefuelPartial(p))
	p.on("RepairAll", handleRepairAll(p))
	p.on("Repair", handleRepair(p))
	p.on("RepairDrone", handleRepairDrone(p))
	p.on("AfmuRepairs", handleAfmuRepairs(p))
	p.on("EngineerCraft", handleEngineerCraft(p))
	p.on("Cargo", handleShipCargo(p))
}

func parseModules(raw []any) []Module {
	out := make([]Module, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		mod := Module{
			Slot:         mapStr(m, "Slot"),
			Item:         mapStr(m, "Item"),
			On:           mapBool(m, "On"),
			Priority:     mapInt(m, "Priority"),
			Health:       mapFloat(m, "Health"),
			Value:        mapInt64(m, "Value"),
			AmmoInClip:   mapInt(m, "AmmoInClip"),
			AmmoInHopper: mapInt(m, "AmmoInHopper"),
		}
		if eng, ok := m["Engineering"].(map[string]any); ok {
			mod.Engineering = parseEngineering(eng)
		}
		if idx, dup := seen[mod.Slot]; dup {
			out[idx] = mod
			continue
		}
		seen[mod.Slot] = len(out)
		out = append(out, mod)
	}
	return out
}

func parseEngineering(eng map[string]any) *Engineering {
	e := &Engineering{
		BlueprintName:      mapStr(eng, "BlueprintName"),
		Level:              mapInt(eng, "Level"),
		Quality:            mapFloat(eng, "Quality"),
		ExperimentalEffect: mapStr(eng, "ExperimentalEffect"),
	}
	if mods, ok := eng["Modifiers"].([]any); ok {
		for _, raw := range mods {
			mm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			e.Modifiers = append(e.Modifiers, EngineeringModifier{
				Label:         mapStr(mm, "Label"),
				Value:         mapFloat(mm, "Value"),
				OriginalValue: mapFloat(mm, "OriginalValue"),
				LessIsGood:    mapBool(mm, "LessIsGood"),
			})
		}
	}
	return e
}

func setModuleAtSlot(modules []Module, slot string, mod Module) []Module {
	for i, m := range modules {
		if m.Slot == slot {
			modules[i] = mod
			return modules
		}
	}
	return append(modules, mod)
}

func removeModuleAtSlot(modules []Module, slot string) []Module {
	for i, m := range modules {
		if m.Slot == slot {
			return append(modules[:i], modules[i+1:]...)
		}
	}
	return modules
}

// swapModuleSlots exchanges whatever is installed at slotA and slotB,
// preserving both slot strings as valid positions in the list.
func swapModuleSlots(modules []Module, slotA, slotB string) []Module {
	idxA, idxB := -1, -1
	for i, m := range modules {
		switch m.Slot {
		case slotA:
			idxA = i
		case slotB:
			idxB = i
		}
	}
	switch {
	case idxA >= 0 && idxB >= 0:
		contentA, contentB := modules[idxA], modules[idxB]
		contentA.Slot, contentB.Slot = slotB, slotA
		modules[idxA], modules[idxB] = contentB, contentA
	case idxA >= 0:
		modules[idxA].Slot = slotB
	case idxB >= 0:
		modules[idxB].Slot = slotA
	}
	return modules
}

func findModuleIndex(modules []Module, name string) int {
	lower := strings.ToLower(name)
	for i, m := range modules {
		if strings.ToLower(m.Item) == lower || strings.ToLower(m.Slot) == lower {
			return i
		}
	}
	return -1
}

func parseCargoInventory(raw []any) []CargoItem {
	out := make([]CargoItem, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, CargoItem{
			Name:   mapStr(m, "Name"),
			Count:  mapInt(m, "Count"),
			Stolen: mapInt(m, "Stolen"),
		})
	}
	return out
}

func handleLoadout(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.ShipID = ev.Int64("ShipID")
		r.Ship.ShipType = ev.Str("Ship")
		r.Ship.Name = ev.Str("ShipName")
		r.Ship.Ident = ev.Str("ShipIdent")
		r.Ship.HullValue = ev.Int64("HullValue")
		r.Ship.ModulesValue = ev.Int64("ModulesValue")
		r.Ship.Rebuy = ev.Int64("Rebuy")
		r.Ship.HullHealth = ev.Float("HullHealth")
		r.Ship.UnladenMass = ev.Float("UnladenMass")
		r.Ship.CargoCapacity = ev.Int("CargoCapacity")
		r.Ship.MaxJumpRange = ev.Float("MaxJumpRange")
		if fc := ev.Map("FuelCapacity"); fc != nil {
			r.Ship.Fuel.MainCapacity = mapFloat(fc, "Main")
			r.Ship.Fuel.ReserveCapacity = mapFloat(fc, "Reserve")
		}
		r.Ship.Modules = parseModules(ev.Slice("Modules"))
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

// handleShipyardSwap changes the active ship and clears its module list;
// the list is re-populated once the matching Loadout event arrives.
func handleShipyardSwap(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.ShipID = ev.Int64("ShipID")
		r.Ship.ShipType = ev.Str("ShipType")
		r.Ship.Modules = nil
		r.Ship.Cargo = nil
		r.Ship.CargoCount = 0
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleShipyardBuy(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.ShipType = ev.Str("ShipType")
		r.Ship.Modules = nil
		r.Ship.HullHealth = 1.0
		r.Session.CreditsSpent += ev.Int64("ShipPrice")
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleSetUserShipName(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if ev.Int64("ShipID") != r.Ship.ShipID {
			return
		}
		r.Ship.Name = ev.Str("ShipName")
		r.Ship.Ident = ev.Str("ShipIdent")
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleModuleBuy(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		slot := ev.Str("Slot")
		r.Ship.Modules = setModuleAtSlot(r.Ship.Modules, slot, Module{
			Slot:   slot,
			Item:   ev.Str("BuyItem"),
			On:     true,
			Health: 1.0,
		})
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleModuleSell(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.Modules = removeModuleAtSlot(r.Ship.Modules, ev.Str("Slot"))
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleModuleStore(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		slot := ev.Str("Slot")
		if repl := ev.Str("ReplacementItem"); repl != "" {
			r.Ship.Modules = setModuleAtSlot(r.Ship.Modules, slot, Module{
				Slot:   slot,
				Item:   repl,
				On:     true,
				Health: 1.0,
			})
		} else {
			r.Ship.Modules = removeModuleAtSlot(r.Ship.Modules, slot)
		}
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleModuleRetrieve(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		slot := ev.Str("Slot")
		r.Ship.Modules = setModuleAtSlot(r.Ship.Modules, slot, Module{
			Slot:   slot,
			Item:   ev.Str("RetrievedItem"),
			On:     true,
			Health: 1.0,
		})
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleModuleSwap(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.Modules = swapModuleSlots(r.Ship.Modules, ev.Str("FromSlot"), ev.Str("ToSlot"))
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

// handleHullDamage applies only when the commander's own ship, under its
// own control, took the damage -- not a fighter or an NPC crew member's
// vessel (spec.md §4.5 edge cases).
func handleHullDamage(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !ev.Bool("PlayerPilot") || ev.Bool("Fighter") {
			return
		}
		r.Ship.HullHealth = ev.Float("Health")
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleFuelScoop(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.Fuel.Main = ev.Float("Total")
		r.Session.FuelScoops++
		r.Session.FuelScooped += ev.Float("Scooped")
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleRefuelAll(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.Fuel.Main = r.Ship.Fuel.MainCapacity
		r.Session.CreditsSpent += ev.Int64("Cost")
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleRefuelPartial(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.Fuel.Main = clampFloat(r.Ship.Fuel.Main+ev.Float("Amount"), 0, r.Ship.Fuel.MainCapacity)
		r.Session.CreditsSpent += ev.Int64("Cost")
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleRepairAll(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.HullHealth = 1.0
		for i := range r.Ship.Modules {
			r.Ship.Modules[i].Health = 1.0
		}
		r.Session.CreditsSpent += ev.Int64("Cost")
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

// handleRepair restores either the hull (an empty or "Wear" item name) or
// a single matched module to full health, matching case-insensitively by
// item or slot name.
func handleRepair(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		item := ev.Str("Item")
		if item == "" || strings.EqualFold(item, "Wear") {
			r.Ship.HullHealth = 1.0
		} else if idx := findModuleIndex(r.Ship.Modules, item); idx >= 0 {
			r.Ship.Modules[idx].Health = 1.0
		}
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleRepairDrone(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Ship.HullHealth = clampFloat(r.Ship.HullHealth+ev.Float("HullRepaired"), 0, 1.0)
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

func handleAfmuRepairs(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if idx := findModuleIndex(r.Ship.Modules, ev.Str("Module")); idx >= 0 {
			r.Ship.Modules[idx].Health = ev.Float("Health")
		}
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}

// handleEngineerCraft replaces the target slot's engineering block and
// subtracts the consumed ingredients from the materials slice.
func handleEngineerCraft(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		slot := ev.Str("Slot")
		eng := &Engineering{
			BlueprintName:      ev.Str("BlueprintName"),
			Level:              ev.Int("Level"),
			Quality:            ev.Float("Quality"),
			ExperimentalEffect: ev.Str("ExperimentalEffect"),
		}
		if mods := ev.Slice("Modifiers"); mods != nil {
			for _, raw := range mods {
				mm, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				eng.Modifiers = append(eng.Modifiers, EngineeringModifier{
					Label:         mapStr(mm, "Label"),
					Value:         mapFloat(mm, "Value"),
					OriginalValue: mapFloat(mm, "OriginalValue"),
					LessIsGood:    mapBool(mm, "LessIsGood"),
				})
			}
		}
		for i, m := range r.Ship.Modules {
			if m.Slot == slot {
				r.Ship.Modules[i].Engineering = eng
				break
			}
		}
		materialsChanged := false
		if ings := ev.Slice("Ingredients"); ings != nil {
			for _, raw := range ings {
				im, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				subtractIngredient(p, r, mapStr(im, "Name"), mapStr(im, "Category"), mapInt(im, "Count"))
				materialsChanged = true
			}
		}
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		if materialsChanged {
			p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
		}
	}
}

// handleShipCargo replaces the ship's cargo hold; a Cargo event for the
// SRV or fighter vessel is ignored, as it is by handleCargoSidecar.
func handleShipCargo(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if v := ev.Str("Vessel"); v != "" && v != "Ship" {
			return
		}
		r.Ship.Cargo = parseCargoInventory(ev.Slice("Inventory"))
		r.Ship.CargoCount = ev.Int("Count")
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
	}
}
