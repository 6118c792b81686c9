package service

import (
	"context"
	"time"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
)

// IDashboardService defines the aggregated views of the dashboard
type IDashboardService interface {
	Summary(ctx context.Context, startDate, endDate string) ([]*report.SummaryWindow, error)
	GlucoseChart(ctx context.Context, startDate, endDate, granularity string) ([]report.SeriesPoint, error)
	PreviousIntake(ctx context.Context) (report.PreviousIntake, error)
}

// IRecordService defines read access to the raw log tables
type IRecordService interface {
	ListGlucose(ctx context.Context, startDate, endDate string) ([]model.GlucoseReading, error)
	ListInsulin(ctx context.Context, startDate, endDate string) ([]model.InsulinDose, error)
	ListIntake(ctx context.Context, startDate, endDate string) ([]model.NutritionEventView, error)
	ListSupplementIntake(ctx context.Context, startDate, endDate string) ([]model.SupplementIntakeView, error)
	ListEvents(ctx context.Context, startDate, endDate string) ([]model.LifeEvent, error)
	ListNutrition(ctx context.Context) ([]model.NutritionItemView, error)
	ListSupplements(ctx context.Context) ([]model.Supplement, error)
}

// IExportService defines the data export operation
type IExportService interface {
	Export(ctx context.Context) (*ExportResult, error)
}

// ITokenService defines bearer token issue and validation
type ITokenService interface {
	GenerateToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// ObjectStore is the slice of S3 the export needs
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// Clock returns the current server time
type Clock func() time.Time
