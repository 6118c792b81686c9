package report

import (
	"github.com/pageza/glucolog/backend/internal/model"
)

// PreviousIntake is what was eaten and taken in the last completed window.
type PreviousIntake struct {
	Nutrition   []model.NutritionEventView   `json:"nutrition"`
	Supplements []model.SupplementIntakeView `json:"supplements"`
}

// BuildPreviousIntake keeps the intakes inside w, joined with master names.
// Both lists are non-nil so they encode as [] rather than null.
func BuildPreviousIntake(w Window, ds Dataset) PreviousIntake {
	out := PreviousIntake{
		Nutrition:   []model.NutritionEventView{},
		Supplements: []model.SupplementIntakeView{},
	}

	for _, n := range sortedIntake(ds.Intake) {
		if !w.Contains(n.Timestamp.Time) {
			continue
		}
		name := UnknownNutrition(n.NutritionID)
		if item, ok := ds.Nutrition[n.NutritionID]; ok {
			name = item.Name
		}
		out.Nutrition = append(out.Nutrition, model.NutritionEventView{NutritionEvent: n, NutritionName: name})
	}

	for _, s := range sortedSupplementIntake(ds.SupplementIntake) {
		if !w.Contains(s.Timestamp.Time) {
			continue
		}
		name := UnknownSupplement(s.SupplementID)
		if item, ok := ds.Supplements[s.SupplementID]; ok {
			name = item.Name
		}
		out.Supplements = append(out.Supplements, model.SupplementIntakeView{SupplementIntakeEvent: s, SupplementName: name})
	}

	return out
}
