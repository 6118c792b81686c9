package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/testdb"
)

func newStore(t *testing.T) *Store {
	return New(testdb.SQLite(t))
}

func ts(s string) model.Timestamp {
	return model.MustTimestamp(s)
}

func TestListGlucoseByRange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, g := range []model.GlucoseReading{
		{Timestamp: ts("2024-03-04 23:59:59"), Level: 140},
		{Timestamp: ts("2024-03-03 23:59:59"), Level: 90},
		{Timestamp: ts("2024-03-04 00:00:00"), Level: 100},
		{Timestamp: ts("2024-03-05 00:00:00"), Level: 120},
	} {
		g := g
		require.NoError(t, s.CreateGlucose(ctx, &g))
	}

	r, err := report.ParseRange("2024-03-04", "2024-03-04")
	require.NoError(t, err)

	rows, err := s.ListGlucose(ctx, &r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 100, rows[0].Level)
	assert.Equal(t, 140, rows[1].Level)
	assert.Equal(t, "2024-03-04 23:59:59", rows[1].Timestamp.String())

	all, err := s.ListGlucose(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCreateIntakeSnapshotsKcal(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rice := model.NutritionItem{Name: "Rice", Kcal: 130, Weight: 100}
	require.NoError(t, s.CreateNutrition(ctx, &rice))

	intake := model.NutritionEvent{NutritionID: rice.ID, Timestamp: ts("2024-03-04 08:10:00"), AmountGrams: 200}
	require.NoError(t, s.CreateIntake(ctx, &intake))
	assert.InDelta(t, 260.0, intake.Kcal, 1e-9)

	got, err := s.GetIntake(ctx, intake.ID)
	require.NoError(t, err)
	assert.InDelta(t, 260.0, got.Kcal, 1e-9)

	err = s.CreateIntake(ctx, &model.NutritionEvent{NutritionID: 99, Timestamp: ts("2024-03-04 08:10:00"), AmountGrams: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateNutritionRejectsZeroWeight(t *testing.T) {
	s := newStore(t)
	err := s.CreateNutrition(context.Background(), &model.NutritionItem{Name: "Water", Kcal: 0, Weight: 0})
	assert.ErrorIs(t, err, model.ErrInvalidWeight)
}

func TestDeleteMasterKeepsIntakes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	vitamin := model.Supplement{Name: "Vitamin D", DefaultAmount: 2}
	require.NoError(t, s.CreateSupplement(ctx, &vitamin))
	taken := model.SupplementIntakeEvent{SupplementID: vitamin.ID, Timestamp: ts("2024-03-04 07:00:00"), Amount: 2}
	require.NoError(t, s.CreateSupplementIntake(ctx, &taken))

	require.NoError(t, s.DeleteSupplement(ctx, vitamin.ID))
	assert.ErrorIs(t, s.DeleteSupplement(ctx, vitamin.ID), ErrNotFound)

	_, err := s.GetSupplement(ctx, vitamin.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := s.ListSupplementIntake(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, vitamin.ID, rows[0].SupplementID)

	err = s.CreateSupplementIntake(ctx, &model.SupplementIntakeEvent{SupplementID: vitamin.ID, Timestamp: ts("2024-03-04 08:00:00"), Amount: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatasetFeedsSummary(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	apple := model.NutritionItem{Name: "Apple", Kcal: 52, Weight: 100}
	require.NoError(t, s.CreateNutrition(ctx, &apple))
	require.NoError(t, s.CreateInsulin(ctx, &model.InsulinDose{Timestamp: ts("2024-03-04 08:00:00"), Level: 4}))
	require.NoError(t, s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: ts("2024-03-04 07:45:00"), Level: 110}))
	require.NoError(t, s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: ts("2024-03-04 09:30:00"), Level: 160}))
	require.NoError(t, s.CreateIntake(ctx, &model.NutritionEvent{NutritionID: apple.ID, Timestamp: ts("2024-03-04 08:05:00"), AmountGrams: 150}))
	require.NoError(t, s.CreateEvent(ctx, &model.LifeEvent{Timestamp: ts("2024-03-04 18:00:00"), Name: "Run"}))
	require.NoError(t, s.CreateEvent(ctx, &model.LifeEvent{Timestamp: ts("2024-03-06 18:00:00"), Name: "Outside"}))

	r, err := report.ParseRange("2024-03-04", "2024-03-04")
	require.NoError(t, err)

	ds, err := s.Dataset(ctx, r)
	require.NoError(t, err)
	assert.Len(t, ds.Glucose, 2)
	assert.Len(t, ds.Events, 1)
	assert.Contains(t, ds.Nutrition, apple.ID)

	rows, err := report.BuildSummary(r, ds, report.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0])
	assert.Equal(t, "Apple", rows[0].Nutrition)
	assert.InDelta(t, 78.0, rows[0].KcalIntake, 1e-9)
	before, ok := rows[0].GlucoseLevels.Get("before")
	require.True(t, ok)
	assert.Equal(t, 110, before)
	plus2, ok := rows[0].GlucoseLevels.Get("+2hr")
	require.True(t, ok)
	assert.Equal(t, 160, plus2)
	require.NotNil(t, rows[1])
	assert.Equal(t, "Run", rows[1].GroupedEvents)
}
