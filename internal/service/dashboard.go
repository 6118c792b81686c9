package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/store"
)

// DashboardService builds the summary timesheet, the glucose chart and the
// previous-window autofill from one database snapshot per call.
type DashboardService struct {
	store    *store.Store
	logger   *zap.Logger
	location *time.Location
	options  report.Options
	now      Clock
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(s *store.Store, logger *zap.Logger, loc *time.Location, opts report.Options) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		store:    s,
		logger:   logger,
		location: loc,
		options:  opts,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *DashboardService) WithClock(now Clock) *DashboardService {
	s.now = now
	return s
}

// today is the naive wall clock in the configured zone.
func (s *DashboardService) today() time.Time {
	return model.Naive(s.now().In(s.location))
}

// Summary returns two windows per date between startDate and endDate.
// Without dates it covers the current month.
func (s *DashboardService) Summary(ctx context.Context, startDate, endDate string) ([]*report.SummaryWindow, error) {
	r, err := s.rangeOrDefault(startDate, endDate, func(now time.Time) (time.Time, time.Time) {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	})
	if err != nil {
		return nil, err
	}

	ds, err := s.store.Dataset(ctx, r)
	if err != nil {
		return nil, err
	}

	rows, err := report.BuildSummary(r, ds, s.options)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("built summary",
		zap.Time("start", r.Start),
		zap.Time("end", r.End),
		zap.Int("windows", len(rows)),
		zap.Int("glucose", len(ds.Glucose)),
	)
	return rows, nil
}

// GlucoseChart returns the time-weighted glucose series between startDate and
// endDate. Without dates it covers the current year.
func (s *DashboardService) GlucoseChart(ctx context.Context, startDate, endDate, granularity string) ([]report.SeriesPoint, error) {
	g, err := report.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	r, err := s.rangeOrDefault(startDate, endDate, func(now time.Time) (time.Time, time.Time) {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	})
	if err != nil {
		return nil, err
	}

	var (
		glucose []model.GlucoseReading
		insulin []model.InsulinDose
	)
	err = s.store.Snapshot(ctx, func(tx *store.Store) error {
		var err error
		if glucose, err = tx.ListGlucose(ctx, &r); err != nil {
			return err
		}
		insulin, err = tx.ListInsulin(ctx, &r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load chart data: %w", err)
	}

	points := report.GlucoseSeries(r, g, glucose, insulin)
	s.logger.Debug("built glucose chart",
		zap.String("granularity", string(g)),
		zap.Int("points", len(points)),
	)
	return points, nil
}

// PreviousIntake lists what was eaten and taken in the window before the
// current one.
func (s *DashboardService) PreviousIntake(ctx context.Context) (report.PreviousIntake, error) {
	w := report.PreviousWindow(s.today())

	r, err := report.NewRange(w.Date, w.Date)
	if err != nil {
		return report.PreviousIntake{}, err
	}
	ds, err := s.store.Dataset(ctx, r)
	if err != nil {
		return report.PreviousIntake{}, err
	}

	out := report.BuildPreviousIntake(w, ds)
	s.logger.Debug("built previous window intake",
		zap.Stringer("window", w),
		zap.Int("nutrition", len(out.Nutrition)),
		zap.Int("supplements", len(out.Supplements)),
	)
	return out, nil
}

func (s *DashboardService) rangeOrDefault(startDate, endDate string, def func(now time.Time) (time.Time, time.Time)) (report.Range, error) {
	r, err := parseOptionalRange(startDate, endDate)
	if err != nil {
		return report.Range{}, err
	}
	if r != nil {
		return *r, nil
	}
	return report.NewRange(def(s.today()))
}
