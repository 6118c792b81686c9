//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/service"
	"github.com/pageza/glucolog/backend/internal/store"
	"github.com/pageza/glucolog/backend/internal/testdb"
)

func ts(s string) model.Timestamp {
	return model.MustTimestamp(s)
}

// TestSummaryOnPostgres runs the full summary path against the SQL migrations.
func TestSummaryOnPostgres(t *testing.T) {
	ctx := context.Background()
	s := store.New(testdb.Postgres(t))

	rice := model.NutritionItem{Name: "Rice", Kcal: 130, Weight: 100}
	require.NoError(t, s.CreateNutrition(ctx, &rice))
	vitamin := model.Supplement{Name: "Vitamin D", DefaultAmount: 1}
	require.NoError(t, s.CreateSupplement(ctx, &vitamin))

	require.NoError(t, s.CreateInsulin(ctx, &model.InsulinDose{Timestamp: ts("2024-03-04 19:00:00"), Level: 3.5}))
	require.NoError(t, s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: ts("2024-03-04 18:40:00"), Level: 130}))
	require.NoError(t, s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: ts("2024-03-04 21:15:00"), Level: 170}))
	require.NoError(t, s.CreateIntake(ctx, &model.NutritionEvent{NutritionID: rice.ID, Timestamp: ts("2024-03-04 19:10:00"), AmountGrams: 100}))
	require.NoError(t, s.CreateSupplementIntake(ctx, &model.SupplementIntakeEvent{SupplementID: vitamin.ID, Timestamp: ts("2024-03-04 19:11:00"), Amount: 1}))

	svc := service.NewDashboardService(s, zap.NewNop(), time.UTC, report.Options{}).
		WithClock(func() time.Time { return time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC) })

	rows, err := svc.Summary(ctx, "2024-03-04", "2024-03-04")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0])

	pm := rows[1]
	require.NotNil(t, pm)
	assert.Equal(t, "Rice", pm.Nutrition)
	assert.InDelta(t, 130.0, pm.KcalIntake, 1e-9)
	assert.Equal(t, "Vitamin D", pm.GroupedSupplements)
	before, ok := pm.GlucoseLevels.Get("before")
	require.True(t, ok)
	assert.Equal(t, 130, before)
	plus3, ok := pm.GlucoseLevels.Get("+3hr")
	require.True(t, ok)
	assert.Equal(t, 170, plus3)

	prev, err := svc.PreviousIntake(ctx)
	require.NoError(t, err)
	assert.Len(t, prev.Nutrition, 1)
	assert.Len(t, prev.Supplements, 1)

	require.NoError(t, s.DeleteNutrition(ctx, rice.ID))
	strict := service.NewDashboardService(s, zap.NewNop(), time.UTC, report.Options{StrictReferences: true})
	_, err = strict.Summary(ctx, "2024-03-04", "2024-03-04")
	assert.ErrorIs(t, err, report.ErrOrphanReference)
}
