package store

import (
	"context"
	"fmt"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
)

// CreateGlucose stores a glucose reading
func (s *Store) CreateGlucose(ctx context.Context, g *model.GlucoseReading) error {
	g.Timestamp = model.NewTimestamp(g.Timestamp.Time)
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("failed to create glucose reading: %w", err)
	}
	return nil
}

// GetGlucose retrieves a glucose reading by ID
func (s *Store) GetGlucose(ctx context.Context, id uint) (*model.GlucoseReading, error) {
	return first[model.GlucoseReading](ctx, s.db, id)
}

// ListGlucose lists readings in r, or every reading when r is nil
func (s *Store) ListGlucose(ctx context.Context, r *report.Range) ([]model.GlucoseReading, error) {
	return list[model.GlucoseReading](ctx, s.db, r)
}

// CreateInsulin stores an insulin dose
func (s *Store) CreateInsulin(ctx context.Context, d *model.InsulinDose) error {
	d.Timestamp = model.NewTimestamp(d.Timestamp.Time)
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create insulin dose: %w", err)
	}
	return nil
}

// GetInsulin retrieves an insulin dose by ID
func (s *Store) GetInsulin(ctx context.Context, id uint) (*model.InsulinDose, error) {
	return first[model.InsulinDose](ctx, s.db, id)
}

// ListInsulin lists doses in r, or every dose when r is nil
func (s *Store) ListInsulin(ctx context.Context, r *report.Range) ([]model.InsulinDose, error) {
	return list[model.InsulinDose](ctx, s.db, r)
}

// CreateIntake stores a nutrition event and snapshots its kcal from the
// nutrition item as it is now.
func (s *Store) CreateIntake(ctx context.Context, n *model.NutritionEvent) error {
	item, err := s.GetNutrition(ctx, n.NutritionID)
	if err != nil {
		return fmt.Errorf("nutrition item %d: %w", n.NutritionID, err)
	}
	n.Timestamp = model.NewTimestamp(n.Timestamp.Time)
	n.Kcal = n.AmountGrams * item.KcalPerGram()
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create intake: %w", err)
	}
	return nil
}

// GetIntake retrieves a nutrition event by ID
func (s *Store) GetIntake(ctx context.Context, id uint) (*model.NutritionEvent, error) {
	return first[model.NutritionEvent](ctx, s.db, id)
}

// ListIntake lists nutrition events in r, or all of them when r is nil
func (s *Store) ListIntake(ctx context.Context, r *report.Range) ([]model.NutritionEvent, error) {
	return list[model.NutritionEvent](ctx, s.db, r)
}

// CreateSupplementIntake stores a supplement intake for an existing supplement
func (s *Store) CreateSupplementIntake(ctx context.Context, e *model.SupplementIntakeEvent) error {
	if _, err := s.GetSupplement(ctx, e.SupplementID); err != nil {
		return fmt.Errorf("supplement %d: %w", e.SupplementID, err)
	}
	e.Timestamp = model.NewTimestamp(e.Timestamp.Time)
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create supplement intake: %w", err)
	}
	return nil
}

// GetSupplementIntake retrieves a supplement intake by ID
func (s *Store) GetSupplementIntake(ctx context.Context, id uint) (*model.SupplementIntakeEvent, error) {
	return first[model.SupplementIntakeEvent](ctx, s.db, id)
}

// ListSupplementIntake lists supplement intakes in r, or all of them when r is nil
func (s *Store) ListSupplementIntake(ctx context.Context, r *report.Range) ([]model.SupplementIntakeEvent, error) {
	return list[model.SupplementIntakeEvent](ctx, s.db, r)
}

// CreateEvent stores a life event
func (s *Store) CreateEvent(ctx context.Context, e *model.LifeEvent) error {
	e.Timestamp = model.NewTimestamp(e.Timestamp.Time)
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent retrieves a life event by ID
func (s *Store) GetEvent(ctx context.Context, id uint) (*model.LifeEvent, error) {
	return first[model.LifeEvent](ctx, s.db, id)
}

// ListEvents lists life events in r, or all of them when r is nil
func (s *Store) ListEvents(ctx context.Context, r *report.Range) ([]model.LifeEvent, error) {
	return list[model.LifeEvent](ctx, s.db, r)
}
