package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/store"
)

// ErrExportDisabled is returned when no object store is configured
var ErrExportDisabled = errors.New("export is not configured")

const presignExpiry = 15 * time.Minute

// ExportResult describes an uploaded export
type ExportResult struct {
	Key        string           `json:"key"`
	URL        string           `json:"url"`
	ExportedAt model.Timestamp  `json:"exported_at"`
	Counts     map[string]int64 `json:"counts"`
}

// exportDocument is the JSON body written to the object store
type exportDocument struct {
	ExportedAt       model.Timestamp               `json:"exported_at"`
	Glucose          []model.GlucoseReading        `json:"glucose"`
	Insulin          []model.InsulinDose           `json:"insulin"`
	Nutrition        []model.NutritionItem         `json:"nutrition"`
	Intake           []model.NutritionEvent        `json:"intake"`
	Supplements      []model.Supplement            `json:"supplements"`
	SupplementIntake []model.SupplementIntakeEvent `json:"supplement_intake"`
	Events           []model.LifeEvent             `json:"event"`
}

// ExportService dumps every table to the object store as one JSON document
type ExportService struct {
	store   *store.Store
	objects ObjectStore
	logger  *zap.Logger
	now     Clock
}

// NewExportService creates a new ExportService instance. objects may be nil,
// in which case Export returns ErrExportDisabled.
func NewExportService(s *store.Store, objects ObjectStore, logger *zap.Logger) *ExportService {
	return &ExportService{store: s, objects: objects, logger: logger, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *ExportService) WithClock(now Clock) *ExportService {
	s.now = now
	return s
}

// Export uploads a snapshot of the database under exports/<date>/<uuid>.json
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if s.objects == nil {
		return nil, ErrExportDisabled
	}

	now := model.NewTimestamp(s.now())
	doc := exportDocument{ExportedAt: now}
	err := s.store.Snapshot(ctx, func(tx *store.Store) error {
		var err error
		if doc.Glucose, err = tx.ListGlucose(ctx, nil); err != nil {
			return err
		}
		if doc.Insulin, err = tx.ListInsulin(ctx, nil); err != nil {
			return err
		}
		if doc.Nutrition, err = tx.ListNutrition(ctx); err != nil {
			return err
		}
		if doc.Intake, err = tx.ListIntake(ctx, nil); err != nil {
			return err
		}
		if doc.Supplements, err = tx.ListSupplements(ctx); err != nil {
			return err
		}
		if doc.SupplementIntake, err = tx.ListSupplementIntake(ctx, nil); err != nil {
			return err
		}
		doc.Events, err = tx.ListEvents(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read export snapshot: %w", err)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", now.Format(model.DateLayout), uuid.NewString())
	if err := s.objects.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.objects.GeneratePresignedURL(ctx, key, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}

	result := &ExportResult{
		Key:        key,
		URL:        url,
		ExportedAt: now,
		Counts: map[string]int64{
			"glucose":           int64(len(doc.Glucose)),
			"insulin":           int64(len(doc.Insulin)),
			"nutrition":         int64(len(doc.Nutrition)),
			"intake":            int64(len(doc.Intake)),
			"supplements":       int64(len(doc.Supplements)),
			"supplement_intake": int64(len(doc.SupplementIntake)),
			"event":             int64(len(doc.Events)),
		},
	}

	s.logger.Info("exported data", zap.String("key", key), zap.Int("bytes", len(body)))
	return result, nil
}
