package store

import (
	"context"
	"fmt"

	"github.com/pageza/glucolog/backend/internal/model"
)

// CreateNutrition validates and stores a nutrition item
func (s *Store) CreateNutrition(ctx context.Context, n *model.NutritionItem) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create nutrition item: %w", err)
	}
	return nil
}

// GetNutrition retrieves a nutrition item by ID
func (s *Store) GetNutrition(ctx context.Context, id uint) (*model.NutritionItem, error) {
	return first[model.NutritionItem](ctx, s.db, id)
}

// ListNutrition lists nutrition items ordered by name
func (s *Store) ListNutrition(ctx context.Context) ([]model.NutritionItem, error) {
	items := []model.NutritionItem{}
	if err := s.db.WithContext(ctx).Order("nutrition_name, id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteNutrition removes a nutrition item. Intakes that reference it are kept.
func (s *Store) DeleteNutrition(ctx context.Context, id uint) error {
	return remove[model.NutritionItem](ctx, s.db, id)
}

// CreateSupplement stores a supplement
func (s *Store) CreateSupplement(ctx context.Context, sup *model.Supplement) error {
	if sup.Name == "" {
		return fmt.Errorf("supplement name is required")
	}
	if err := s.db.WithContext(ctx).Create(sup).Error; err != nil {
		return fmt.Errorf("failed to create supplement: %w", err)
	}
	return nil
}

// GetSupplement retrieves a supplement by ID
func (s *Store) GetSupplement(ctx context.Context, id uint) (*model.Supplement, error) {
	return first[model.Supplement](ctx, s.db, id)
}

// ListSupplements lists supplements ordered by name
func (s *Store) ListSupplements(ctx context.Context) ([]model.Supplement, error) {
	items := []model.Supplement{}
	if err := s.db.WithContext(ctx).Order("supplement_name, id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteSupplement removes a supplement. Intakes that reference it are kept.
func (s *Store) DeleteSupplement(ctx context.Context, id uint) error {
	return remove[model.Supplement](ctx, s.db, id)
}

func (s *Store) nutritionByID(ctx context.Context) (map[uint]model.NutritionItem, error) {
	items, err := s.ListNutrition(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]model.NutritionItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (s *Store) supplementsByID(ctx context.Context) (map[uint]model.Supplement, error) {
	items, err := s.ListSupplements(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]model.Supplement, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
