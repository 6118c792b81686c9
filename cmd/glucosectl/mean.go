package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
)

func newMeanCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "mean",
		Short: "Print time-weighted mean glucose per week or day",
		Long:  "Reads CSV with the header \"timestamp,glucose (mg/dL)\" on stdin and prints one time-weighted mean per ISO week or day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var g report.Granularity
			switch mode {
			case "weekly":
				g = report.Weekly
			case "daily":
				g = report.Daily
			default:
				return fmt.Errorf("unknown mode %q, want weekly or daily", mode)
			}

			samples, err := readGlucoseCSV(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeMeans(cmd.OutOrStdout(), samples, g)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "weekly", "weekly or daily means")
	return cmd
}

// readGlucoseCSV parses the glucose export, sorted by time with one sample
// per timestamp; a later line for the same timestamp wins.
func readGlucoseCSV(r io.Reader) ([]report.Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no input")
		}
		return nil, err
	}
	if len(header) != 2 || strings.TrimSpace(header[0]) != "timestamp" || strings.TrimSpace(header[1]) != "glucose (mg/dL)" {
		return nil, fmt.Errorf("unexpected header %q, want \"timestamp,glucose (mg/dL)\"", strings.Join(header, ","))
	}

	byTime := make(map[time.Time]float64)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		ts, err := model.ParseTimestamp(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		level, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid glucose %q", line, rec[1])
		}
		byTime[ts.Time] = float64(level)
	}

	samples := make([]report.Sample, 0, len(byTime))
	for t, v := range byTime {
		samples = append(samples, report.Sample{At: t, Value: v})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].At.Before(samples[j].At) })
	return samples, nil
}

// writeMeans prints one CSV line per period spanned by samples.
func writeMeans(w io.Writer, samples []report.Sample, g report.Granularity) error {
	header := "year/week,time-weighted mean glucose (mg/dL)"
	if g == report.Daily {
		header = "date,time-weighted mean glucose (mg/dL)"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	lower := samples[0].At
	upper := samples[len(samples)-1].At.Add(time.Second)
	for _, p := range report.Series(samples, nil, g, lower, upper) {
		if _, err := fmt.Fprintf(w, "%s,%.2f\n", p.Period, p.Mean); err != nil {
			return err
		}
	}
	return nil
}
