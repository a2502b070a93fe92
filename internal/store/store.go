// Package store is the system of record for users, foods, categories and logs.
//
// Every mutating operation runs in a single transaction, so a change and its
// dependent recomputation (such as a user's daily calorie goal) commit together.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lg/calorie-tracker/internal/metrics"
)

// Store persists tracker entities through GORM.
type Store struct {
	db     *gorm.DB
	engine *metrics.Engine
}

// New constructs a Store. The engine supplies the calorie goal computation,
// the nutrition configuration and the clock.
func New(conn *gorm.DB, engine *metrics.Engine) *Store {
	return &Store{db: conn, engine: engine}
}

// Engine returns the metrics engine used for goal recomputation.
func (s *Store) Engine() *metrics.Engine { return s.engine }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) now() time.Time { return s.engine.Now().UTC() }

func (s *Store) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store: not initialized")
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// DayStart returns midnight UTC of the calendar day containing t.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayEnd returns midnight UTC of the day after t; ranges built from it are half-open.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}
