package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/pageza/glucolog/backend/internal/model"
)

var (
	// ErrInvalidDate is returned for a date that is not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidRange is returned when the start date is after the end date
	ErrInvalidRange = errors.New("invalid date range")
	// ErrOrphanReference is returned in strict mode when an intake points at deleted master data
	ErrOrphanReference = errors.New("orphan reference")
	// ErrInvalidGranularity is returned for a chart granularity other than week or day
	ErrInvalidGranularity = errors.New("unknown granularity")
)

const halfDay = 12 * time.Hour

// MaxRangeDays bounds the number of dates one query may span.
const MaxRangeDays = 3660

// Period is the half of the day a window covers.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// Window is the AM ([00:00, 12:00)) or PM ([12:00, 24:00)) half of one date.
type Window struct {
	Date   time.Time
	Period Period
}

// WindowAt returns the window containing the naive time t.
func WindowAt(t time.Time) Window {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if t.Hour() < 12 {
		return Window{Date: d, Period: AM}
	}
	return Window{Date: d, Period: PM}
}

// PreviousWindow is the window immediately before the one containing now.
func PreviousWindow(now time.Time) Window {
	return WindowAt(model.Naive(now)).Prev()
}

// Start is the inclusive lower bound of the window.
func (w Window) Start() time.Time {
	if w.Period == PM {
		return w.Date.Add(halfDay)
	}
	return w.Date
}

// End is the exclusive upper bound of the window.
func (w Window) End() time.Time {
	return w.Start().Add(halfDay)
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start()) && t.Before(w.End())
}

func (w Window) Prev() Window {
	if w.Period == PM {
		return Window{Date: w.Date, Period: AM}
	}
	return Window{Date: w.Date.AddDate(0, 0, -1), Period: PM}
}

func (w Window) Next() Window {
	if w.Period == AM {
		return Window{Date: w.Date, Period: PM}
	}
	return Window{Date: w.Date.AddDate(0, 0, 1), Period: AM}
}

func (w Window) String() string {
	return fmt.Sprintf("%s %s", w.Date.Format(model.DateLayout), w.Period)
}

// Range is an inclusive span of calendar dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses two YYYY-MM-DD dates and checks their order.
func ParseRange(start, end string) (Range, error) {
	s, err := model.ParseDate(start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start_date %q", ErrInvalidDate, start)
	}
	e, err := model.ParseDate(end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end_date %q", ErrInvalidDate, end)
	}
	return NewRange(s, e)
}

// NewRange truncates both bounds to dates and checks order and span.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC),
	}
	if r.Start.After(r.End) {
		return Range{}, fmt.Errorf("%w: start_date %s is after end_date %s",
			ErrInvalidRange, r.Start.Format(model.DateLayout), r.End.Format(model.DateLayout))
	}
	if !r.End.Before(r.Start.AddDate(0, 0, MaxRangeDays)) {
		return Range{}, fmt.Errorf("%w: range spans more than %d days", ErrInvalidRange, MaxRangeDays)
	}
	return r, nil
}

// From is the first instant of the range.
func (r Range) From() time.Time {
	return r.Start
}

// Until is the exclusive upper bound, midnight after the end date.
func (r Range) Until() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// LastSecond is the last storable timestamp of the range, for BETWEEN queries.
func (r Range) LastSecond() time.Time {
	return r.Until().Add(-time.Second)
}

// Days counts the dates in the range.
func (r Range) Days() int {
	return int(r.Until().Sub(r.Start).Hours()/24 + 0.5)
}

// Windows lists every window of the range in chronological order.
func (r Range) Windows() []Window {
	windows := make([]Window, 0, r.Days()*2)
	for d := r.Start; d.Before(r.Until()); d = d.AddDate(0, 0, 1) {
		windows = append(windows, Window{Date: d, Period: AM}, Window{Date: d, Period: PM})
	}
	return windows
}

// index maps t to its position in Windows(), or -1 outside the range.
func (r Range) index(t time.Time) int {
	if t.Before(r.Start) || !t.Before(r.Until()) {
		return -1
	}
	return int(t.Sub(r.Start) / halfDay)
}
