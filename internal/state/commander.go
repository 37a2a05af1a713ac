/*
Package state
File: commander.go
Description:
    Handlers for the commander/career slice: identity, credits, ranks,
    reputation, game-mode metadata, squadron membership, and powerplay
    standing. LoadGame additionally seeds the ship-identity scaffolding and
    resets the session slice (spec.md §3 Lifecycle, §4.5 Commander slice).
*/
package state

import (
	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerCommanderHandlers(p *Projector) {
	p.on("Commander", handleCommanderEvent(p))
	p.on("LoadGame", handleLoadGame(p))
	p.on("Rank", handleRank(p))
	p.on("Progress", handleProgress(p))
	p.on("Promotion", handlePromotion(p))
	p.on("Reputation", handleReputation(p))
	p.on("Fileheader", handleFileheader(p))
	p.on("JoinedSquadron", handleSquadronJoin(p))
	p.on("LeftSquadron", handleSquadronLeave(p))
	p.on("KickedFromSquadron", handleSquadronLeave(p))
	p.on("PowerplayJoin", handlePowerplayJoin(p))
	p.on("PowerplayLeave", handlePowerplayLeave(p))
	p.on("PowerplayDefect", handlePowerplayDefect(p))
	p.on("Powerplay", handlePowerplaySnapshot(p))
}

func handleCommanderEvent(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.FID = ev.Str("FID")
		r.Commander.Name = ev.Str("Name")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleLoadGame(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.FID = ev.Str("FID")
		r.Commander.Name = ev.Str("Commander")
		r.Commander.Credits = ev.Int64("Credits")
		r.Commander.Loan = ev.Int64("Loan")
		r.Commander.GameMode = ev.Str("GameMode")
		r.Commander.Group = ev.Str("Group")
		r.Commander.Language = ev.Str("language")
		r.Commander.Version = ev.Str("gameversion")
		r.Commander.Odyssey = ev.Bool("Odyssey")
		r.Commander.Horizons = ev.Bool("Horizons")

		r.Ship.ShipType = ev.Str("Ship")
		r.Ship.ShipID = ev.Int64("ShipID")
		r.Ship.Name = ev.Str("ShipName")
		r.Ship.Ident = ev.Str("ShipIdent")
		r.Ship.Fuel.Main = ev.Float("FuelLevel")
		r.Ship.Fuel.MainCapacity = ev.Float("FuelCapacity")

		r.Meta.Initialized = true
		r.Session = newSession()

		p.broadcastSlice(r, "commander", r.Commander)
		p.broadcastSlice(r, "ship", copyShip(r.Ship))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleRank(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Ranks.Combat.Rank = ev.Int("Combat")
		r.Commander.Ranks.Trade.Rank = ev.Int("Trade")
		r.Commander.Ranks.Explore.Rank = ev.Int("Explore")
		r.Commander.Ranks.Soldier.Rank = ev.Int("Soldier")
		r.Commander.Ranks.Exobiologist.Rank = ev.Int("Exobiologist")
		r.Commander.Ranks.Empire.Rank = ev.Int("Empire")
		r.Commander.Ranks.Federation.Rank = ev.Int("Federation")
		r.Commander.Ranks.CQC.Rank = ev.Int("CQC")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleProgress(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Ranks.Combat.Progress = ev.Int("Combat")
		r.Commander.Ranks.Trade.Progress = ev.Int("Trade")
		r.Commander.Ranks.Explore.Progress = ev.Int("Explore")
		r.Commander.Ranks.Soldier.Progress = ev.Int("Soldier")
		r.Commander.Ranks.Exobiologist.Progress = ev.Int("Exobiologist")
		r.Commander.Ranks.Empire.Progress = ev.Int("Empire")
		r.Commander.Ranks.Federation.Progress = ev.Int("Federation")
		r.Commander.Ranks.CQC.Progress = ev.Int("CQC")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

// handlePromotion overwrites only the rank categories present in the
// payload, leaving the rest (and every Progress value) untouched.
func handlePromotion(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		apply := func(has bool, dst *int, val int) {
			if has {
				*dst = val
			}
		}
		apply(ev.Has("Combat"), &r.Commander.Ranks.Combat.Rank, ev.Int("Combat"))
		apply(ev.Has("Trade"), &r.Commander.Ranks.Trade.Rank, ev.Int("Trade"))
		apply(ev.Has("Explore"), &r.Commander.Ranks.Explore.Rank, ev.Int("Explore"))
		apply(ev.Has("Soldier"), &r.Commander.Ranks.Soldier.Rank, ev.Int("Soldier"))
		apply(ev.Has("Exobiologist"), &r.Commander.Ranks.Exobiologist.Rank, ev.Int("Exobiologist"))
		apply(ev.Has("Empire"), &r.Commander.Ranks.Empire.Rank, ev.Int("Empire"))
		apply(ev.Has("Federation"), &r.Commander.Ranks.Federation.Rank, ev.Int("Federation"))
		apply(ev.Has("CQC"), &r.Commander.Ranks.CQC.Rank, ev.Int("CQC"))
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleReputation(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Reputation = Reputation{
			Federation:  ev.Float("Federation"),
			Empire:      ev.Float("Empire"),
			Alliance:    ev.Float("Alliance"),
			Independent: ev.Float("Independent"),
		}
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleFileheader(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Odyssey = ev.Bool("Odyssey")
		r.Commander.Version = ev.Str("gameversion")
		r.Commander.Language = ev.Str("language")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleSquadronJoin(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Squadron = ev.Str("SquadronName")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handleSquadronLeave(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Squadron = ""
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handlePowerplayJoin(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Power = ev.Str("Power")
		r.Commander.PowerplayMerits = 0
		r.Commander.PowerplayRank = 0
		r.Commander.TimePledged = 0
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handlePowerplayLeave(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Power = ""
		r.Commander.PowerplayMerits = 0
		r.Commander.PowerplayRank = 0
		r.Commander.TimePledged = 0
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handlePowerplayDefect(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Power = ev.Str("ToPower")
		r.Commander.PowerplayMerits = 0
		r.Commander.PowerplayRank = 0
		r.Commander.TimePledged = 0
		p.broadcastSlice(r, "commander", r.Commander)
	}
}

func handlePowerplaySnapshot(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Commander.Power = ev.Str("Power")
		r.Commander.PowerplayMerits = ev.Int("Merits")
		r.Commander.PowerplayRank = ev.Int("Rank")
		r.Commander.TimePledged = ev.Int64("TimePledged")
		p.broadcastSlice(r, "commander", r.Commander)
	}
}
