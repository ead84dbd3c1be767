package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

func strPtr(s string) *string { return &s }

var reconcileEquipment = []domain.Equipment{
	{ID: "eq-press", Name: "Leg Press", Unit: domain.UnitKg},
	{ID: "eq-band", Name: "Band", Unit: domain.UnitLevel},
}

func TestReconcileClearsUnknownReference(t *testing.T) {
	allowed := AllowedEquipmentIDs(domain.TrainingPattern{}, reconcileEquipment)
	items := []domain.PlanItem{{Name: "Mystery machine", EquipmentID: strPtr("eq-unknown")}}

	out := ReconcileEquipment(items, reconcileEquipment, allowed)
	require.Nil(t, out[0].EquipmentID)
}

func TestReconcileAssignsByNameContainment(t *testing.T) {
	allowed := AllowedEquipmentIDs(domain.TrainingPattern{}, reconcileEquipment)
	items := []domain.PlanItem{{Name: "Heavy leg press 3x10"}}

	out := ReconcileEquipment(items, reconcileEquipment, allowed)
	require.NotNil(t, out[0].EquipmentID)
	require.Equal(t, "eq-press", *out[0].EquipmentID)
}

func TestReconcileFirstMatchInCatalogOrder(t *testing.T) {
	catalog := []domain.Equipment{
		{ID: "eq-a", Name: "press"},
		{ID: "eq-b", Name: "leg press"},
	}
	allowed := AllowedEquipmentIDs(domain.TrainingPattern{}, catalog)
	items := []domain.PlanItem{{Name: "Leg Press"}}

	out := ReconcileEquipment(items, catalog, allowed)
	require.Equal(t, "eq-a", *out[0].EquipmentID)
}

func TestReconcileRespectsPatternAllowList(t *testing.T) {
	pattern := domain.TrainingPattern{AllowedEquipmentIDs: []string{"eq-band"}}
	allowed := AllowedEquipmentIDs(pattern, reconcileEquipment)

	items := []domain.PlanItem{
		{Name: "Leg press", EquipmentID: strPtr("eq-press")}, // not in allow-list
		{Name: "Band pull-apart"},
	}

	out := ReconcileEquipment(items, reconcileEquipment, allowed)
	// Cleared, then name-matched to Leg Press which is still outside the
	// allow-list, so the re-validation clears it again.
	require.Nil(t, out[0].EquipmentID)
	require.Equal(t, "eq-band", *out[1].EquipmentID)
}

func TestReconcileNeverEscapesPermittedSet(t *testing.T) {
	pattern := domain.TrainingPattern{AllowedEquipmentIDs: []string{"eq-press", "ghost-id"}}
	allowed := AllowedEquipmentIDs(pattern, reconcileEquipment)

	items := []domain.PlanItem{
		{Name: "Leg press", EquipmentID: strPtr("eq-press")},
		{Name: "Band stretch", EquipmentID: strPtr("eq-band")},
		{Name: "Unrelated cardio"},
		{Name: "Row", EquipmentID: strPtr("nope")},
	}

	out := ReconcileEquipment(items, reconcileEquipment, allowed)
	for _, item := range out {
		if item.EquipmentID == nil {
			continue
		}
		_, ok := allowed[*item.EquipmentID]
		require.True(t, ok, "item %q escaped the permitted set", item.Name)
	}
}

func TestReconcileKeepsOtherFields(t *testing.T) {
	allowed := AllowedEquipmentIDs(domain.TrainingPattern{}, reconcileEquipment)
	weight := 80.0
	items := []domain.PlanItem{{Name: "Leg press", Weight: &weight, EquipmentID: strPtr("bogus")}}

	out := ReconcileEquipment(items, reconcileEquipment, allowed)
	require.Equal(t, 80.0, *out[0].Weight)
	require.Equal(t, "eq-press", *out[0].EquipmentID)
}
