// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/service"
)

// MockDashboardService is a mock implementation of service.IDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, startDate, endDate string) ([]*report.SummaryWindow, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.SummaryWindow), args.Error(1)
}

func (m *MockDashboardService) GlucoseChart(ctx context.Context, startDate, endDate, granularity string) ([]report.SeriesPoint, error) {
	args := m.Called(ctx, startDate, endDate, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SeriesPoint), args.Error(1)
}

func (m *MockDashboardService) PreviousIntake(ctx context.Context) (report.PreviousIntake, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.PreviousIntake), args.Error(1)
}

// MockExportService is a mock implementation of service.IExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context) (*service.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

// MockTokenService is a mock implementation of service.ITokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(subject string, ttl time.Duration) (string, error) {
	args := m.Called(subject, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(token string) (*service.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}
