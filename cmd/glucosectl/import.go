package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/glucolog/backend/config"
	"github.com/pageza/glucolog/backend/internal/database"
	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/store"
)

func newImportCmd() *cobra.Command {
	var migrationsDir string

	cmd := &cobra.Command{
		Use:       "import {glucose|insulin} <file.csv>",
		Short:     "Import glucose readings or insulin doses from a CSV export",
		Long:      "Reads a CSV file with a header row containing timestamp and level columns. Timestamps may be YYYY/MM/DD HH:MM:SS (one or two spaces) or YYYY-MM-DD HH:MM:SS.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"glucose", "insulin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if kind != "glucose" && kind != "insulin" {
				return fmt.Errorf("unknown import kind %q, want glucose or insulin", kind)
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := readLevelCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := database.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db, migrationsDir, logger); err != nil {
				return err
			}

			n, err := importRows(cmd.Context(), db, kind, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s records\n", n, kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "directory of SQL migrations (postgres only)")
	return cmd
}

// levelRow is one parsed CSV line
type levelRow struct {
	Timestamp model.Timestamp
	Level     string
}

// readLevelCSV reads a CSV with "timestamp" and "level" header columns, in
// any order and alongside other columns.
func readLevelCSV(r io.Reader) ([]levelRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}

	tsCol, levelCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "timestamp":
			tsCol = i
		case "level":
			levelCol = i
		}
	}
	if tsCol < 0 || levelCol < 0 {
		return nil, fmt.Errorf("header must contain timestamp and level, got %v", header)
	}

	var rows []levelRow
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(rec) <= tsCol || len(rec) <= levelCol {
			return nil, fmt.Errorf("line %d: missing columns", line)
		}
		ts, err := model.ParseTimestamp(rec[tsCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, levelRow{Timestamp: ts, Level: strings.TrimSpace(rec[levelCol])})
	}
	return rows, nil
}

// importRows inserts rows in one transaction so a bad line leaves no partial import.
func importRows(ctx context.Context, db *gorm.DB, kind string, rows []levelRow) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := store.New(tx)
		for i, row := range rows {
			switch kind {
			case "glucose":
				level, err := strconv.Atoi(row.Level)
				if err != nil {
					return fmt.Errorf("record %d: invalid glucose level %q", i+1, row.Level)
				}
				if err := s.CreateGlucose(ctx, &model.GlucoseReading{Timestamp: row.Timestamp, Level: level}); err != nil {
					return err
				}
			case "insulin":
				level, err := strconv.ParseFloat(row.Level, 64)
				if err != nil {
					return fmt.Errorf("record %d: invalid insulin level %q", i+1, row.Level)
				}
				if err := s.CreateInsulin(ctx, &model.InsulinDose{Timestamp: row.Timestamp, Level: level}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("import committed", zap.String("kind", kind), zap.Int("rows", len(rows)))
	return len(rows), nil
}
