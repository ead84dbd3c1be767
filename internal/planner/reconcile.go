package planner

import (
	"strings"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

// AllowedEquipmentIDs builds the permitted id set for a pattern: the pattern's
// allow-list when non-empty, otherwise every id in the resolved equipment list.
func AllowedEquipmentIDs(pattern domain.TrainingPattern, equipment []domain.Equipment) map[string]struct{} {
	allowed := make(map[string]struct{})
	if len(pattern.AllowedEquipmentIDs) > 0 {
		for _, id := range pattern.AllowedEquipmentIDs {
			allowed[id] = struct{}{}
		}
		return allowed
	}
	for _, e := range equipment {
		allowed[e.ID] = struct{}{}
	}
	return allowed
}

// ReconcileEquipment validates every item's equipment reference against the
// permitted set. Invalid references are cleared; items without a reference get
// the first permitted equipment whose name is a case-insensitive substring of
// the item name. Equipment is scanned in catalog order so the first-match rule
// is deterministic. The result never references equipment outside the
// permitted set, and nothing is ever fabricated.
func ReconcileEquipment(items []domain.PlanItem, equipment []domain.Equipment, allowed map[string]struct{}) []domain.PlanItem {
	out := make([]domain.PlanItem, len(items))
	for i, item := range items {
		if item.EquipmentID != nil {
			if _, ok := allowed[*item.EquipmentID]; !ok {
				item.EquipmentID = nil
			}
		}

		if item.EquipmentID == nil && item.Name != "" {
			lowerName := strings.ToLower(item.Name)
			for _, e := range equipment {
				candidate := strings.ToLower(e.Name)
				if candidate != "" && strings.Contains(lowerName, candidate) {
					id := e.ID
					item.EquipmentID = &id
					break
				}
			}
		}

		if item.EquipmentID != nil {
			if _, ok := allowed[*item.EquipmentID]; !ok {
				item.EquipmentID = nil
			}
		}

		out[i] = item
	}
	return out
}
