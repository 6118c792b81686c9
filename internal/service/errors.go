package service

import (
	"fmt"

	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/store"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = store.ErrNotFound

// parseOptionalRange accepts both dates or neither; neither means no filter.
func parseOptionalRange(startDate, endDate string) (*report.Range, error) {
	if startDate == "" && endDate == "" {
		return nil, nil
	}
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("%w: start_date and end_date must be given together", report.ErrInvalidDate)
	}
	r, err := report.ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
