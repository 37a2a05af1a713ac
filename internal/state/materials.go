/*
Package state
File: materials.go
Description:
    Handlers for the three-category materials inventory slice, plus the
    shared ingredient-subtraction helper used by engineering, synthesis,
    and the technology broker (spec.md §4.5 Materials slice).
*/
package state

import (
	"strings"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func registerMaterialsHandlers(p *Projector) {
	p.on("Materials", handleMaterials(p))
	p.on("MaterialCollected", handleMaterialCollected(p))
	p.on("MaterialDiscarded", handleMaterialDiscarded(p))
	p.on("MaterialTrade", handleMaterialTrade(p))
	p.on("Synthesis", handleSynthesis(p))
	p.on("TechnologyBroker", handleTechnologyBroker(p))
	p.on("ScientificResearch", handleScientificResearch(p))
}

func parseMaterialList(raw []any, category string) []Material {
	out := make([]Material, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		grade := mapInt(m, "Grade")
		if grade == 0 {
			grade = 1
		}
		out = append(out, Material{
			Name:      strings.ToLower(mapStr(m, "Name")),
			Localized: mapStr(m, "Name_Localised"),
			Category:  category,
			Grade:     grade,
			Count:     mapInt(m, "Count"),
			Maximum:   GradeCap(grade),
		})
	}
	return out
}

func handleMaterials(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		r.Materials = Materials{
			Raw:          parseMaterialList(ev.Slice("Raw"), "Raw"),
			Manufactured: parseMaterialList(ev.Slice("Manufactured"), "Manufactured"),
			Encoded:      parseMaterialList(ev.Slice("Encoded"), "Encoded"),
		}
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
	}
}

func materialSlicePtr(r *Root, category string) *[]Material {
	switch strings.ToLower(category) {
	case "raw":
		return &r.Materials.Raw
	case "manufactured":
		return &r.Materials.Manufactured
	case "encoded":
		return &r.Materials.Encoded
	default:
		return nil
	}
}

func addMaterialToSlice(slice *[]Material, category, name string, count int) {
	name = strings.ToLower(name)
	for i := range *slice {
		if (*slice)[i].Name == name {
			(*slice)[i].Count = clampInt((*slice)[i].Count+count, 0, (*slice)[i].Maximum)
			return
		}
	}
	*slice = append(*slice, Material{
		Name:     name,
		Category: category,
		Grade:    1,
		Count:    clampInt(count, 0, GradeCap(1)),
		Maximum:  GradeCap(1),
	})
}

func removeMaterialFromSlice(slice *[]Material, name string, count int) bool {
	name = strings.ToLower(name)
	for i := range *slice {
		if (*slice)[i].Name == name {
			(*slice)[i].Count = clampInt((*slice)[i].Count-count, 0, (*slice)[i].Maximum)
			return true
		}
	}
	return false
}

// subtractIngredient consumes count of name from the materials inventory.
// When category is known it's tried first; otherwise Raw, then
// Manufactured, then Encoded are searched in order (spec.md §4.5). A
// name found in none of them is logged and otherwise ignored.
func subtractIngredient(p *Projector, r *Root, name, category string, count int) {
	if slice := materialSlicePtr(r, category); slice != nil && removeMaterialFromSlice(slice, name, count) {
		return
	}
	for _, cat := range [...]string{"Raw", "Manufactured", "Encoded"} {
		if removeMaterialFromSlice(materialSlicePtr(r, cat), name, count) {
			return
		}
	}
	p.log.Warn().Str("material", name).Msg("ingredient not found in materials inventory")
}

func handleMaterialCollected(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		category := ev.Str("Category")
		addMaterialToSlice(materialSlicePtr(r, category), category, ev.Str("Name"), ev.Int("Count"))
		r.Session.MaterialsCollected += ev.Int("Count")
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleMaterialDiscarded(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		category := ev.Str("Category")
		removeMaterialFromSlice(materialSlicePtr(r, category), ev.Str("Name"), ev.Int("Count"))
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
	}
}

func handleMaterialTrade(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		if paid := ev.Map("Paid"); paid != nil {
			category := mapStr(paid, "Category")
			removeMaterialFromSlice(materialSlicePtr(r, category), mapStr(paid, "Material"), mapInt(paid, "Quantity"))
		}
		if received := ev.Map("Received"); received != nil {
			category := mapStr(received, "Category")
			addMaterialToSlice(materialSlicePtr(r, category), category, mapStr(received, "Material"), mapInt(received, "Quantity"))
		}
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
	}
}

func handleSynthesis(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		for _, raw := range ev.Slice("Materials") {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			subtractIngredient(p, r, mapStr(m, "Name"), mapStr(m, "Category"), mapInt(m, "Count"))
		}
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
	}
}

func handleTechnologyBroker(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		for _, raw := range ev.Slice("Materials") {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			subtractIngredient(p, r, mapStr(m, "Name"), mapStr(m, "Category"), mapInt(m, "Count"))
		}
		r.Session.CreditsSpent += ev.Int64("Cost")
		r.Session.recomputeNetProfit()
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
		p.broadcastSlice(r, "session", r.Session)
	}
}

func handleScientificResearch(p *Projector) eventHandler {
	return func(r *Root, ev *journal.Event) {
		subtractIngredient(p, r, ev.Str("Name"), ev.Str("Category"), ev.Int("Count"))
		p.broadcastSlice(r, "materials", copyMaterials(r.Materials))
	}
}
