package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pageza/glucolog/backend/internal/model"
)

// Absent is the label rendered for an empty group.
const Absent = "-"

const labelSeparator = ", "

// GlucoseLabels are the offsets of a window relative to its dose, in output order.
var GlucoseLabels = [...]string{
	"before", "+1hr", "+2hr", "+3hr", "+4hr", "+5hr", "+6hr",
	"+7hr", "+8hr", "+9hr", "+10hr", "+11hr", "+12hr",
}

// GlucoseLevels holds one optional reading per label of GlucoseLabels.
type GlucoseLevels [len(GlucoseLabels)]*int

// Get returns the level for a label.
func (g GlucoseLevels) Get(label string) (int, bool) {
	for i, l := range GlucoseLabels {
		if l == label && g[i] != nil {
			return *g[i], true
		}
	}
	return 0, false
}

// MarshalJSON writes the labels in offset order rather than map order.
func (g GlucoseLevels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range GlucoseLabels {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", label)
		if g[i] == nil {
			buf.WriteString("null")
		} else {
			fmt.Fprintf(&buf, "%d", *g[i])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the object written by MarshalJSON.
func (g *GlucoseLevels) UnmarshalJSON(data []byte) error {
	var raw map[string]*int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = GlucoseLevels{}
	for i, label := range GlucoseLabels {
		g[i] = raw[label]
	}
	return nil
}

// SummaryWindow is one row of the summary timesheet.
type SummaryWindow struct {
	AmPm               Period           `json:"am_pm"`
	Date               string           `json:"date"`
	DoseTime           *model.Timestamp `json:"dose_time"`
	IntakeTime         *model.Timestamp `json:"intake_time"`
	Dosage             *float64         `json:"dosage"`
	Nutrition          string           `json:"nutrition"`
	GlucoseLevels      GlucoseLevels    `json:"glucose_levels"`
	KcalIntake         float64          `json:"kcal_intake"`
	GroupedSupplements string           `json:"grouped_supplements"`
	GroupedEvents      string           `json:"grouped_events"`
}

// Dataset is a consistent snapshot of everything a summary reads.
type Dataset struct {
	Glucose          []model.GlucoseReading
	Insulin          []model.InsulinDose
	Intake           []model.NutritionEvent
	SupplementIntake []model.SupplementIntakeEvent
	Events           []model.LifeEvent
	Nutrition        map[uint]model.NutritionItem
	Supplements      map[uint]model.Supplement
}

// Options tunes summary building.
type Options struct {
	// StrictReferences fails the summary on an intake whose master row is gone
	// instead of labelling it as unknown.
	StrictReferences bool
}

type windowData struct {
	glucose     []model.GlucoseReading
	insulin     []model.InsulinDose
	intake      []model.NutritionEvent
	supplements []model.SupplementIntakeEvent
	events      []model.LifeEvent
}

func (d *windowData) empty() bool {
	return len(d.glucose) == 0 && len(d.insulin) == 0 && len(d.intake) == 0 &&
		len(d.supplements) == 0 && len(d.events) == 0
}

// BuildSummary produces two entries per date of r, AM then PM. Windows with no
// data at all are nil.
func BuildSummary(r Range, ds Dataset, opts Options) ([]*SummaryWindow, error) {
	windows := r.Windows()
	buckets := make([]windowData, len(windows))

	for _, g := range sortedGlucose(ds.Glucose) {
		if i := r.index(g.Timestamp.Time); i >= 0 {
			buckets[i].glucose = append(buckets[i].glucose, g)
		}
	}
	for _, d := range sortedInsulin(ds.Insulin) {
		if i := r.index(d.Timestamp.Time); i >= 0 {
			buckets[i].insulin = append(buckets[i].insulin, d)
		}
	}
	for _, n := range sortedIntake(ds.Intake) {
		if i := r.index(n.Timestamp.Time); i >= 0 {
			buckets[i].intake = append(buckets[i].intake, n)
		}
	}
	for _, s := range sortedSupplementIntake(ds.SupplementIntake) {
		if i := r.index(s.Timestamp.Time); i >= 0 {
			buckets[i].supplements = append(buckets[i].supplements, s)
		}
	}
	for _, e := range sortedEvents(ds.Events) {
		if i := r.index(e.Timestamp.Time); i >= 0 {
			buckets[i].events = append(buckets[i].events, e)
		}
	}

	out := make([]*SummaryWindow, len(windows))
	for i, w := range windows {
		if buckets[i].empty() {
			continue
		}
		row, err := buildWindow(w, &buckets[i], ds, opts)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

func buildWindow(w Window, data *windowData, ds Dataset, opts Options) (*SummaryWindow, error) {
	row := &SummaryWindow{
		AmPm:               w.Period,
		Date:               w.Date.Format(model.DateLayout),
		Nutrition:          Absent,
		GroupedSupplements: Absent,
		GroupedEvents:      Absent,
	}

	// earliest dose anchors the glucose offsets
	if len(data.insulin) > 0 {
		dose := data.insulin[0]
		doseTime := dose.Timestamp
		dosage := dose.Level
		row.DoseTime = &doseTime
		row.Dosage = &dosage
		row.GlucoseLevels = alignGlucose(w, doseTime.Time, data.glucose)
	}

	if len(data.intake) > 0 {
		intakeTime := data.intake[0].Timestamp
		row.IntakeTime = &intakeTime

		names := make([]string, 0, len(data.intake))
		for _, n := range data.intake {
			item, ok := ds.Nutrition[n.NutritionID]
			if !ok {
				if opts.StrictReferences {
					return nil, fmt.Errorf("%w: intake %d references nutrition %d", ErrOrphanReference, n.ID, n.NutritionID)
				}
				names = append(names, UnknownNutrition(n.NutritionID))
				continue
			}
			names = append(names, item.Name)
			row.KcalIntake += n.AmountGrams * item.KcalPerGram()
		}
		row.Nutrition = joinLabels(names)
	}

	if len(data.supplements) > 0 {
		names := make([]string, 0, len(data.supplements))
		for _, s := range data.supplements {
			item, ok := ds.Supplements[s.SupplementID]
			if !ok {
				if opts.StrictReferences {
					return nil, fmt.Errorf("%w: supplement intake %d references supplement %d", ErrOrphanReference, s.ID, s.SupplementID)
				}
				names = append(names, UnknownSupplement(s.SupplementID))
				continue
			}
			names = append(names, item.Name)
		}
		row.GroupedSupplements = joinLabels(names)
	}

	if len(data.events) > 0 {
		names := make([]string, 0, len(data.events))
		for _, e := range data.events {
			names = append(names, e.Name)
		}
		row.GroupedEvents = joinLabels(names)
	}

	return row, nil
}

// alignGlucose places readings of w into the offset buckets of dose.
// "before" is [window start, dose); "+Nhr" is [dose+(N-1)h, dose+Nh). Each
// bucket keeps the reading nearest its mark (dose for "before", dose+Nh for
// "+Nhr"), which for ascending input is the last one seen.
func alignGlucose(w Window, dose time.Time, readings []model.GlucoseReading) GlucoseLevels {
	var levels GlucoseLevels
	for _, r := range readings {
		t := r.Timestamp.Time
		if !w.Contains(t) {
			continue
		}
		level := r.Level
		if t.Before(dose) {
			levels[0] = &level
			continue
		}
		n := int(t.Sub(dose)/time.Hour) + 1
		if n < len(levels) {
			levels[n] = &level
		}
	}
	return levels
}

// UnknownNutrition labels an intake whose nutrition item was deleted.
func UnknownNutrition(id uint) string {
	return fmt.Sprintf("unknown nutrition #%d", id)
}

// UnknownSupplement labels an intake whose supplement was deleted.
func UnknownSupplement(id uint) string {
	return fmt.Sprintf("unknown supplement #%d", id)
}

func joinLabels(names []string) string {
	if len(names) == 0 {
		return Absent
	}
	return strings.Join(names, labelSeparator)
}

func sortedGlucose(in []model.GlucoseReading) []model.GlucoseReading {
	out := append([]model.GlucoseReading(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Timestamp, out[i].ID, out[j].Timestamp, out[j].ID)
	})
	return out
}

func sortedInsulin(in []model.InsulinDose) []model.InsulinDose {
	out := append([]model.InsulinDose(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Timestamp, out[i].ID, out[j].Timestamp, out[j].ID)
	})
	return out
}

func sortedIntake(in []model.NutritionEvent) []model.NutritionEvent {
	out := append([]model.NutritionEvent(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Timestamp, out[i].ID, out[j].Timestamp, out[j].ID)
	})
	return out
}

func sortedSupplementIntake(in []model.SupplementIntakeEvent) []model.SupplementIntakeEvent {
	out := append([]model.SupplementIntakeEvent(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Timestamp, out[i].ID, out[j].Timestamp, out[j].ID)
	})
	return out
}

func sortedEvents(in []model.LifeEvent) []model.LifeEvent {
	out := append([]model.LifeEvent(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Timestamp, out[i].ID, out[j].Timestamp, out[j].ID)
	})
	return out
}

func before(a model.Timestamp, aID uint, b model.Timestamp, bID uint) bool {
	if !a.Equal(b.Time) {
		return a.Before(b.Time)
	}
	return aID < bID
}
