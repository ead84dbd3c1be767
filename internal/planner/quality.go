package planner

import (
	"encoding/json"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

// minPlanItems is the smallest item count the gate accepts.
const minPlanItems = 3

// EvaluatePlan applies the minimum acceptance criteria: items must decode to
// a list of at least three entries, and at least one entry must carry a
// quantity (reps, sets, or durationMin). A plan of bare exercise names is
// rejected. On success the decoded items are returned.
func EvaluatePlan(plan *ParsedPlan) ([]domain.PlanItem, bool) {
	if plan == nil || len(plan.Items) == 0 {
		return nil, false
	}

	var items []domain.PlanItem
	if err := json.Unmarshal(plan.Items, &items); err != nil {
		return nil, false
	}
	if len(items) < minPlanItems {
		return items, false
	}

	for _, item := range items {
		if item.Reps != nil || item.Sets != nil || item.DurationMin != nil {
			return items, true
		}
	}
	return items, false
}
