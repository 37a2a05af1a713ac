/*
Package state
File: missions.go
Description:
    Handlers for the active-missions slice. The startup Missions event only
    seeds minimal stub records; MissionAccepted supplies (or replaces a
    stub with) the full record (spec.md §4.5 Missions slice).
*/
package state

import (
	"time"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerMissionsHandlers(p *Projector) {
	p.on("Missions", handleMissionsStub(p))
	p.on("MissionAccepted", handleMissionAccepted(p))
	p.on("MissionCompleted", handleMissionCompleted(p))
	p.on("MissionAbandoned", handleMissionFailure(p))
	p.on("MissionFailed", handleMissionFailure(p))
	p.on("MissionRedirected", handleMissionRedirected(p))
}

func findMissionIndex(r *Root, id int64) int {
	for i, m := range r.Missions.Active {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func removeMissionByID(r *Root, id int64) {
	if idx := findMissionIndex(r, id); idx >= 0 {
		r.Missions.Active = append(r.Missions.Active[:idx], r.Missions.Active[idx+1:]...)
	}
}

func parseExpiry(ev *journal.Event) time.Time {
	s, ok := ev.Fields["Expiry"].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// handleMissionsStub seeds a minimal placeholder for every mission the
// startup replay reports as active, without overwriting any record a
// later MissionAccepted has already filled in.
func handleMissionsStub(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		for _, raw := range ev.Slice("Active") {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id := mapInt64(m, "MissionID")
			if findMissionIndex(r, id) >= 0 {
				continue
			}
			r.Missions.Active = append(r.Missions.Active, Mission{ID: id, Name: mapStr(m, "Name")})
		}
		p.broadcastSlice(r, "missions", copyMissions(r.Missions))
	}
}

func handleMissionAccepted(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		mission := Mission{
			ID:                 ev.Int64("MissionID"),
			Name:               ev.Str("Name"),
			Faction:            ev.Str("Faction"),
			Expiry:             parseExpiry(ev),
			DestinationSystem:  ev.Str("DestinationSystem"),
			DestinationStation: ev.Str("DestinationStation"),
			TargetFaction:      ev.Str("TargetFaction"),
			Target:             ev.Str("Target"),
			Commodity:          ev.Str("Commodity"),
			Count:              ev.Int("Count"),
			KillCount:          ev.Int("KillCount"),
			Reward:             ev.Int64("Reward"),
			Influence:          ev.Str("Influence"),
			ReputationGain:     ev.Str("Reputation"),
			Wing:               ev.Bool("Wing"),
			Passengers:         ev.Bool("PassengerMission"),
		}
		if idx := findMissionIndex(r, mission.ID); idx >= 0 {
			r.Missions.Active[idx] = mission
		} else {
			r.Missions.Active = append(r.Missions.Active, mission)
		}
		p.broadcastSlice(r, "missions", copyMissions(r.Missions))
	}
}

func handleMissionCompleted(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		removeMissionByID(r, ev.Int64("MissionID"))
		r.Session.CreditsEarned += ev.Int64("Reward")
		r.Session.MissionsCompleted++
		r.Session.recomputeNetProfit()

		materialsChanged := false
		for _, raw := range ev.Slice("MaterialsReward") {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			category := mapStr(m, "Category")
			addMaterialToSlice(materialSlicePtr(r, category), category, mapStr(m, "Name"), mapInt(m, "Count"))
			materialsChanged = true
		}

		p.broadcastSlice(r, "missions", copyMissions(r.Missions))
		p.broadcastSlice(r, "session", r.Session)
		if materialsChanged {
			p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
		}
	}
}

func handleMissionFailure(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		removeMissionByID(r, ev.Int64("MissionID"))
		r.Session.CreditsSpent += ev.Int64("Fine")
		r.Session.MissionsFailed++
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "missions", copyMissions(r.Missions))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleMissionRedirected(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		idx := findMissionIndex(r, ev.Int64("MissionID"))
		if idx < 0 {
			return
		}
		r.Missions.Active[idx].DestinationSystem = ev.Str("NewDestinationSystem")
		r.Missions.Active[idx].DestinationStation = ev.Str("NewDestinationStation")
		p.broadcastSlice(r, "missions", copyMissions(r.Missions))
	}
}
