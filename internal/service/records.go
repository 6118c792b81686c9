package service

import (
	"context"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/store"
)

// RecordService handles read access to the raw log tables
type RecordService struct {
	store *store.Store
}

// NewRecordService creates a new RecordService instance
func NewRecordService(s *store.Store) *RecordService {
	return &RecordService{store: s}
}

// ListGlucose lists glucose readings, optionally limited to a date range
func (s *RecordService) ListGlucose(ctx context.Context, startDate, endDate string) ([]model.GlucoseReading, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListGlucose(ctx, r)
}

// ListInsulin lists insulin doses, optionally limited to a date range
func (s *RecordService) ListInsulin(ctx context.Context, startDate, endDate string) ([]model.InsulinDose, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListInsulin(ctx, r)
}

// ListEvents lists life events, optionally limited to a date range
func (s *RecordService) ListEvents(ctx context.Context, startDate, endDate string) ([]model.LifeEvent, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, r)
}

// ListIntake lists nutrition events joined with their item names
func (s *RecordService) ListIntake(ctx context.Context, startDate, endDate string) ([]model.NutritionEventView, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	out := []model.NutritionEventView{}
	err = s.store.Snapshot(ctx, func(tx *store.Store) error {
		rows, err := tx.ListIntake(ctx, r)
		if err != nil {
			return err
		}
		items, err := tx.ListNutrition(ctx)
		if err != nil {
			return err
		}
		names := make(map[uint]string, len(items))
		for _, it := range items {
			names[it.ID] = it.Name
		}
		for _, n := range rows {
			name, ok := names[n.NutritionID]
			if !ok {
				name = report.UnknownNutrition(n.NutritionID)
			}
			out = append(out, model.NutritionEventView{NutritionEvent: n, NutritionName: name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSupplementIntake lists supplement intakes joined with their names
func (s *RecordService) ListSupplementIntake(ctx context.Context, startDate, endDate string) ([]model.SupplementIntakeView, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	out := []model.SupplementIntakeView{}
	err = s.store.Snapshot(ctx, func(tx *store.Store) error {
		rows, err := tx.ListSupplementIntake(ctx, r)
		if err != nil {
			return err
		}
		items, err := tx.ListSupplements(ctx)
		if err != nil {
			return err
		}
		names := make(map[uint]string, len(items))
		for _, it := range items {
			names[it.ID] = it.Name
		}
		for _, e := range rows {
			name, ok := names[e.SupplementID]
			if !ok {
				name = report.UnknownSupplement(e.SupplementID)
			}
			out = append(out, model.SupplementIntakeView{SupplementIntakeEvent: e, SupplementName: name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListNutrition lists nutrition items with their kcal per gram
func (s *RecordService) ListNutrition(ctx context.Context) ([]model.NutritionItemView, error) {
	items, err := s.store.ListNutrition(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.NutritionItemView, len(items))
	for i, it := range items {
		out[i] = it.View()
	}
	return out, nil
}

// ListSupplements lists all supplements
func (s *RecordService) ListSupplements(ctx context.Context) ([]model.Supplement, error) {
	return s.store.ListSupplements(ctx)
}
