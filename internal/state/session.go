/*
Package state
File: session.go
Description:
    Handlers for the per-game-load metrics slice: every trading, combat,
    exploration, and misc-earning event folds into Session's running
    totals (spec.md §4.5 Session slice). The wall-clock elapsed-seconds
    counter is driven by TickElapsed, called once a second by the
    composition root's session timer rather than by a journal event.
*/
package state

import (
	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerSessionHandlers(p *Projector) {
	p.on("MarketSell", handleMarketSell(p))
	p.on("MarketBuy", handleMarketBuy(p))
	p.on("RedeemVoucher", handleRedeemVoucher(p))
	p.on("Bounty", handleBounty(p))
	p.on("MultiSellExplorationData", handleSellExplorationData(p))
	p.on("SellExplorationData", handleSellExplorationData(p))
	p.on("Scan", handleScan(p))
	p.on("SAAScanComplete", handleScan(p))
	p.on("MiningRefined", handleMiningRefined(p))
	p.on("Died", handleDied(p))
	p.on("Resurrect", handleResurrect(p))
	p.on("PayFines", handlePayFines(p))
	p.on("NpcCrewPaidWage", handleNpcCrewPaidWage(p))
	p.on("CrewHire", handleCrewHire(p))
	p.on("BuyTradeData", handleBuyTradeData(p))
	p.on("BuyAmmo", handleBuyAmmo(p))
	p.on("BuyDrones", handleBuyDrones(p))
	p.on("SellDrones", handleSellDrones(p))
	p.on("SearchAndRescue", handleSearchAndRescue(p))
	p.on("PowerplaySalary", handlePowerplaySalary(p))
}

func addEarnings(r *Root, amount int64) {
	r.Session.CreditsEarned += amount
	r.Session.recomputeNetProfit()
}

func addSpending(r *Root, amount int64) {
	r.Session.CreditsSpent += amount
	r.Session.recomputeNetProfit()
}

func handleMarketSell(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		total := ev.Int64("TotalSale")
		addEarnings(r, total)
		r.Session.CargoTraded += ev.Int("Count")
		r.Session.TradeProfit += total - int64(ev.Int("Count"))*ev.Int64("AvgPricePaid")
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleMarketBuy(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("TotalCost"))
		r.Session.CargoTraded += ev.Int("Count")
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleRedeemVoucher(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		amount := ev.Int64("Amount")
		addEarnings(r, amount)
		switch ev.Str("Type") {
		case "bounty", "CombatBond":
			r.Session.BountyEarnings += amount
		}
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleBounty(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		reward := ev.Int64("TotalReward")
		if reward == 0 {
			reward = ev.Int64("Reward")
		}
		r.Session.BountiesCollected++
		r.Session.BountyEarnings += reward
		addEarnings(r, reward)
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleSellExplorationData(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		earnings := ev.Int64("TotalEarnings")
		if earnings == 0 {
			earnings = ev.Int64("BaseValue") + ev.Int64("Bonus")
		}
		r.Session.ExplorationEarnings += earnings
		addEarnings(r, earnings)
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleScan(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Session.BodiesScanned++
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleMiningRefined(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Session.MiningRefined++
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleDied(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Session.Deaths++
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleResurrect(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Cost"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handlePayFines(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Amount"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleNpcCrewPaidWage(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Amount"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleCrewHire(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Cost"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleBuyTradeData(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Cost"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleBuyAmmo(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("Cost"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleBuyDrones(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addSpending(r, ev.Int64("TotalCost"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleSellDrones(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addEarnings(r, ev.Int64("TotalSale"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleSearchAndRescue(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addEarnings(r, ev.Int64("Reward"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handlePowerplaySalary(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		addEarnings(r, ev.Int64("Amount"))
		p.broadcastSlice(r, "session", r.Session)
	}
}

// TickElapsed increments the wall-clock session timer by one second. It is
// driven by the composition root's 1Hz ticker goroutine, not by a journal
// event, and deliberately does not broadcast: a per-second envelope for a
// field nobody diffs on would just add fabric noise.
func (p *Projector) TickElapsed() {
	p.mutate(func(r *Root) { r.Session.ElapsedSeconds++ })
}
