/*
Package state
File: carrier.go
Description:
    Handlers for the fleet-carrier slice. The slice stays nil until the
    first CarrierStats event is observed (spec.md §9 Open Questions); every
    other carrier event is gated on the event's CarrierID matching the
    carrier already on file, so a second owned carrier (or a foreign
    carrier's broadcast event) can never cross-contaminate state.
*/
package state

import (
	"fmt"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerCarrierHandlers(p *Projector) {
	p.on("CarrierStats", handleCarrierStats(p))
	p.on("CarrierDepositFuel", handleCarrierDepositFuel(p))
	p.on("CarrierFinance", handleCarrierFinance(p))
	p.on("CarrierBankTransfer", handleCarrierBankTransfer(p))
	p.on("CarrierNameChanged", handleCarrierNameChanged(p))
	p.on("CarrierDockingPermission", handleCarrierDockingPermission(p))
	p.on("CarrierTradeOrder", handleCarrierTradeOrder(p))
	p.on("CarrierCrewServices", handleCarrierCrewServices(p))
	p.on("CarrierModulePack", handleCarrierModulePack(p))
}

func carrierMatches(r *Root, id int64) bool {
	return r.Carrier != nil && r.Carrier.ID == id
}

// handleCarrierStats replaces the whole carrier block, but preserves the
// trade orders, jump history, and current position this core has already
// accumulated for the same carrier -- CarrierStats doesn't report them.
func handleCarrierStats(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		id := ev.Int64("CarrierID")
		c := &Carrier{
			ID:                  id,
			Callsign:            ev.Str("Callsign"),
			Name:                ev.Str("Name"),
			DockingAccess:       ev.Str("DockingAccess"),
			AllowNotorious:      ev.Bool("AllowNotorious"),
			FuelLevel:           ev.Int("FuelLevel"),
			JumpRangeCurrent:    ev.Float("JumpRangeCurrent"),
			JumpRangeMax:        ev.Float("JumpRangeMax"),
			PendingDecommission: ev.Bool("PendingDecommission"),
		}
		if sp := ev.Map("SpaceUsage"); sp != nil {
			c.SpaceUsage = CarrierSpaceUsage{
				TotalCapacity:      mapInt(sp, "TotalCapacity"),
				Crew:               mapInt(sp, "Crew"),
				Cargo:              mapInt(sp, "Cargo"),
				CargoSpaceReserved: mapInt(sp, "CargoSpaceReserved"),
				ShipPacks:          mapInt(sp, "ShipPacks"),
				ModulePacks:        mapInt(sp, "ModulePacks"),
				FreeSpace:          mapInt(sp, "FreeSpace"),
			}
		}
		if fin := ev.Map("Finance"); fin != nil {
			c.Finance = CarrierFinance{
				CarrierBalance:       mapInt64(fin, "CarrierBalance"),
				ReserveBalance:       mapInt64(fin, "ReserveBalance"),
				AvailableBalance:     mapInt64(fin, "AvailableBalance"),
				TaxRateRearm:         mapFloat(fin, "TaxRateRearm"),
				TaxRateRefuel:        mapFloat(fin, "TaxRateRefuel"),
				TaxRateRepair:        mapFloat(fin, "TaxRateRepair"),
				TaxRateShipyard:      mapFloat(fin, "TaxRateShipyard"),
				TaxRateOutfitting:    mapFloat(fin, "TaxRateOutfitting"),
				TaxRateEstablishment: mapFloat(fin, "TaxRateEstablishment"),
			}
		}
		for _, raw := range ev.Slice("Services") {
			sm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			c.Services = append(c.Services, CarrierService{
				Name:      mapStr(sm, "Name"),
				Activated: mapBool(sm, "Activated"),
				Enabled:   mapBool(sm, "Enabled"),
				CrewName:  mapStr(sm, "CrewName"),
			})
		}
		if carrierMatches(r, id) {
			c.TradeOrders = r.Carrier.TradeOrders
			c.JumpHistory = r.Carrier.JumpHistory
			c.CurrentSystem = r.Carrier.CurrentSystem
			c.CurrentBody = r.Carrier.CurrentBody
		}
		r.Carrier = c
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierDepositFuel(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		r.Carrier.FuelLevel = ev.Int("Total")
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierFinance(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		r.Carrier.Finance = CarrierFinance{
			CarrierBalance:       ev.Int64("CarrierBalance"),
			ReserveBalance:       ev.Int64("ReserveBalance"),
			AvailableBalance:     ev.Int64("AvailableBalance"),
			TaxRateRearm:         ev.Float("TaxRateRearm"),
			TaxRateRefuel:        ev.Float("TaxRateRefuel"),
			TaxRateRepair:        ev.Float("TaxRateRepair"),
			TaxRateShipyard:      ev.Float("TaxRateShipyard"),
			TaxRateOutfitting:    ev.Float("TaxRateOutfitting"),
			TaxRateEstablishment: ev.Float("TaxRateEstablishment"),
		}
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

// handleCarrierBankTransfer moves credits between the carrier's balance
// and the commander's personal wallet, in the direction the event reports.
func handleCarrierBankTransfer(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		amount := ev.Int64("Amount")
		switch ev.Str("Direction") {
		case "Deposit":
			r.Carrier.Finance.CarrierBalance += amount
			r.Commander.Credits -= amount
		case "Withdraw":
			r.Carrier.Finance.CarrierBalance -= amount
			r.Commander.Credits += amount
		}
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleCarrierNameChanged(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		r.Carrier.Callsign = ev.Str("Callsign")
		r.Carrier.Name = ev.Str("Name")
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierDockingPermission(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		r.Carrier.DockingAccess = ev.Str("DockingAccess")
		r.Carrier.AllowNotorious = ev.Bool("AllowNotorious")
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierTradeOrder(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		commodity := ev.Str("Commodity")
		blackMarket := ev.Bool("BlackMarket")
		idx := -1
		for i, o := range r.Carrier.TradeOrders {
			if o.Commodity == commodity && o.BlackMarket == blackMarket {
				idx = i
				break
			}
		}
		if ev.Bool("CancelTrade") {
			if idx >= 0 {
				r.Carrier.TradeOrders = append(r.Carrier.TradeOrders[:idx], r.Carrier.TradeOrders[idx+1:]...)
			}
			p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
			return
		}
		order := CarrierTradeOrder{
			Commodity:     commodity,
			BlackMarket:   blackMarket,
			PurchaseOrder: ev.Int64("PurchaseOrder"),
			SaleOrder:     ev.Int64("SaleOrder"),
			Price:         ev.Int64("Price"),
		}
		if idx >= 0 {
			r.Carrier.TradeOrders[idx] = order
		} else {
			r.Carrier.TradeOrders = append(r.Carrier.TradeOrders, order)
		}
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierCrewServices(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		name := ev.Str("CrewRole")
		idx := -1
		for i, s := range r.Carrier.Services {
			if s.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			r.Carrier.Services = append(r.Carrier.Services, CarrierService{Name: name})
			idx = len(r.Carrier.Services) - 1
		}
		switch ev.Str("Operation") {
		case "Activate":
			r.Carrier.Services[idx].Activated = true
			r.Carrier.Services[idx].Enabled = true
			r.Carrier.Services[idx].CrewName = ev.Str("CrewName")
		case "Deactivate":
			r.Carrier.Services[idx].Activated = false
			r.Carrier.Services[idx].Enabled = false
		case "Pause":
			r.Carrier.Services[idx].Enabled = false
		case "Resume":
			r.Carrier.Services[idx].Enabled = true
		}
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}

func handleCarrierModulePack(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if !carrierMatches(r, ev.Int64("CarrierID")) {
			return
		}
		pack := fmt.Sprintf("%s-%d", ev.Str("PackTheme"), ev.Int("PackTier"))
		if ev.Bool("BuyPack") {
			r.Carrier.ModulePacks = append(r.Carrier.ModulePacks, pack)
		} else {
			for i, mp := range r.Carrier.ModulePacks {
				if mp == pack {
					r.Carrier.ModulePacks = append(r.Carrier.ModulePacks[:i], r.Carrier.ModulePacks[i+1:]...)
					break
				}
			}
		}
		p.broadcastSlice(r, "carrier", copyCarrier(r.Carrier))
	}
}
