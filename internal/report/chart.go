package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pageza/glucolog/backend/internal/model"
)

// Granularity is the bucket size of a chart series.
type Granularity string

const (
	Weekly Granularity = "week"
	Daily  Granularity = "day"
)

// ParseGranularity maps a query value to a Granularity; empty means weekly.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "", "week", "weekly":
		return Weekly, nil
	case "day", "daily":
		return Daily, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidGranularity, s)
	}
}

// Sample is one timed value.
type Sample struct {
	At    time.Time
	Value float64
}

// SeriesPoint is one bucket of a chart series.
type SeriesPoint struct {
	Period      string   `json:"period"`
	Week        string   `json:"week,omitempty"`
	Start       string   `json:"start"`
	Mean        float64  `json:"mean"`
	Readings    int      `json:"readings"`
	MeanInsulin *float64 `json:"mean_insulin"`
}

// TimeWeightedMean weights each sample by the time until the next one. The
// last sample holds until upper and the first also covers lower up to itself.
// When no time elapses at all the plain mean is returned, so a single sample
// yields its own value.
func TimeWeightedMean(samples []Sample, lower, upper time.Time) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	s := append([]Sample(nil), samples...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].At.Before(s[j].At) })

	var area, total, sum float64
	for i := range s {
		from := s[i].At
		if i == 0 && lower.Before(from) {
			from = lower
		}
		to := upper
		if i+1 < len(s) {
			to = s[i+1].At
		}
		if to.Before(s[i].At) {
			to = s[i].At
		}
		w := to.Sub(from).Seconds()
		area += s[i].Value * w
		total += w
		sum += s[i].Value
	}

	if total == 0 {
		return sum / float64(len(s)), true
	}
	return area / total, true
}

// Series buckets the samples in [lower, upper) by g and computes each
// bucket's time-weighted mean over the whole period, so the first reading
// weighs from the period start and the last one up to the period end.
// Buckets with no glucose are omitted. doses feed the plain mean_insulin
// companion value.
func Series(glucose, doses []Sample, g Granularity, lower, upper time.Time) []SeriesPoint {
	byPeriod := make(map[int64][]Sample)
	for _, s := range glucose {
		if s.At.Before(lower) || !s.At.Before(upper) {
			continue
		}
		key := periodStart(s.At, g).Unix()
		byPeriod[key] = append(byPeriod[key], s)
	}
	dosesByPeriod := make(map[int64][]float64)
	for _, d := range doses {
		if d.At.Before(lower) || !d.At.Before(upper) {
			continue
		}
		key := periodStart(d.At, g).Unix()
		dosesByPeriod[key] = append(dosesByPeriod[key], d.Value)
	}

	keys := make([]int64, 0, len(byPeriod))
	for k := range byPeriod {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		start := time.Unix(k, 0).UTC()
		mean, ok := TimeWeightedMean(byPeriod[k], start, periodEnd(start, g))
		if !ok {
			continue
		}
		p := SeriesPoint{
			Period:   periodLabel(start, g),
			Start:    start.Format(model.DateLayout),
			Mean:     round2(mean),
			Readings: len(byPeriod[k]),
		}
		if g == Weekly {
			p.Week = p.Period
		}
		if ds := dosesByPeriod[k]; len(ds) > 0 {
			var sum float64
			for _, v := range ds {
				sum += v
			}
			m := round2(sum / float64(len(ds)))
			p.MeanInsulin = &m
		}
		points = append(points, p)
	}
	return points
}

// GlucoseSeries builds the dashboard chart for r. It depends only on the
// readings, never on the clock.
func GlucoseSeries(r Range, g Granularity, glucose []model.GlucoseReading, insulin []model.InsulinDose) []SeriesPoint {
	samples := make([]Sample, 0, len(glucose))
	for _, reading := range glucose {
		samples = append(samples, Sample{At: reading.Timestamp.Time, Value: float64(reading.Level)})
	}
	doses := make([]Sample, 0, len(insulin))
	for _, d := range insulin {
		doses = append(doses, Sample{At: d.Timestamp.Time, Value: d.Level})
	}
	return Series(samples, doses, g, r.From(), r.Until())
}

func periodStart(t time.Time, g Granularity) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if g == Daily {
		return d
	}
	// ISO weeks start on Monday
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func periodEnd(start time.Time, g Granularity) time.Time {
	if g == Daily {
		return start.AddDate(0, 0, 1)
	}
	return start.AddDate(0, 0, 7)
}

func periodLabel(start time.Time, g Granularity) string {
	if g == Daily {
		return start.Format("2006/01/02")
	}
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d/W%02d", year, week)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
