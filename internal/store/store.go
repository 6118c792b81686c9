// Package store persists the health log tables with GORM.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = errors.New("not found")

// Store wraps a GORM handle, either the pool or an open transaction.
type Store struct {
	db *gorm.DB
}

// New creates a Store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Snapshot runs fn against a Store bound to one transaction, so every read
// inside fn observes the same state of the database.
func (s *Store) Snapshot(ctx context.Context, fn func(tx *Store) error) error {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	}, opts...)
}

// Transaction runs fn against a Store bound to one writable transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Dataset loads the events of r and all master rows in one snapshot.
func (s *Store) Dataset(ctx context.Context, r report.Range) (report.Dataset, error) {
	var ds report.Dataset
	err := s.Snapshot(ctx, func(tx *Store) error {
		var err error
		if ds.Glucose, err = tx.ListGlucose(ctx, &r); err != nil {
			return err
		}
		if ds.Insulin, err = tx.ListInsulin(ctx, &r); err != nil {
			return err
		}
		if ds.Intake, err = tx.ListIntake(ctx, &r); err != nil {
			return err
		}
		if ds.SupplementIntake, err = tx.ListSupplementIntake(ctx, &r); err != nil {
			return err
		}
		if ds.Events, err = tx.ListEvents(ctx, &r); err != nil {
			return err
		}
		if ds.Nutrition, err = tx.nutritionByID(ctx); err != nil {
			return err
		}
		ds.Supplements, err = tx.supplementsByID(ctx)
		return err
	})
	if err != nil {
		return report.Dataset{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// inRange restricts a query on a timestamp column to r; a nil r selects all rows.
func inRange(q *gorm.DB, r *report.Range) *gorm.DB {
	if r != nil {
		q = q.Where("timestamp >= ? AND timestamp < ?",
			model.NewTimestamp(r.From()), model.NewTimestamp(r.Until()))
	}
	return q.Order("timestamp, id")
}

func list[T any](ctx context.Context, db *gorm.DB, r *report.Range) ([]T, error) {
	rows := []T{}
	if err := inRange(db.WithContext(ctx), r).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func first[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func remove[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var row T
	res := db.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
