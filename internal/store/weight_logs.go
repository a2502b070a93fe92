package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/models"
)

// weightOrder sorts by calendar day, then creation order. Within a day the
// most recently created entry is the one that counts.
const weightOrder = "log_date ASC, id ASC"

// CreateWeightLog records a measurement. LogDate is truncated to its UTC day
// and defaults to today. When the entry is the user's latest, the profile
// weight and daily calorie goal are updated in the same transaction.
func (s *Store) CreateWeightLog(ctx context.Context, l *models.WeightLog) (*models.WeightLog, error) {
	if l.LogDate.IsZero() {
		l.LogDate = s.now()
	}
	l.LogDate = DayStart(l.LogDate)
	if err := l.Validate(); err != nil {
		return nil, err
	}

	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		var u models.User
		if errFind := tx.First(&u, l.UserID).Error; errFind != nil {
			return db.Classify(errFind, "user", l.UserID)
		}
		if errCreate := tx.Create(l).Error; errCreate != nil {
			return fmt.Errorf("store: create weight log: %w", errCreate)
		}
		return s.syncProfileWeight(tx, &u)
	})
	if errTx != nil {
		return nil, errTx
	}
	return l, nil
}

// ListWeightLogs returns the user's measurements with from <= log_date < to,
// oldest first. A zero bound is open.
func (s *Store) ListWeightLogs(ctx context.Context, userID uint64, from, to time.Time) ([]models.WeightLog, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("log_date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("log_date < ?", to.UTC())
	}
	var logs []models.WeightLog
	if err := q.Order(weightOrder).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("store: list weight logs: %w", err)
	}
	return logs, nil
}

// DeleteWeightLog removes one of the user's measurements. If it was the latest,
// the profile falls back to the new latest entry.
func (s *Store) DeleteWeightLog(ctx context.Context, userID, id uint64) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.WeightLog{})
		if res.Error != nil {
			return fmt.Errorf("store: delete weight log: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("weight log", id)
		}
		var u models.User
		if errFind := tx.First(&u, userID).Error; errFind != nil {
			return db.Classify(errFind, "user", userID)
		}
		return s.syncProfileWeight(tx, &u)
	})
}

// syncProfileWeight copies the latest measurement onto the user and recomputes
// the calorie goal. Users without measurements keep their profile weight.
func (s *Store) syncProfileWeight(tx *gorm.DB, u *models.User) error {
	var latest models.WeightLog
	errLatest := tx.Where("user_id = ?", u.ID).Order("log_date DESC, id DESC").Limit(1).Find(&latest).Error
	if errLatest != nil {
		return fmt.Errorf("store: latest weight log: %w", errLatest)
	}
	if latest.ID == 0 || latest.WeightKG == u.WeightKG {
		return nil
	}

	u.WeightKG = latest.WeightKG
	goal, errGoal := s.engine.ComputeGoal(u)
	if errGoal != nil {
		return errGoal
	}
	u.DailyCalorieGoal = goal
	errUpdate := tx.Model(u).Updates(map[string]any{
		"weight_kg":          u.WeightKG,
		"daily_calorie_goal": u.DailyCalorieGoal,
	}).Error
	if errUpdate != nil {
		return fmt.Errorf("store: update profile weight: %w", errUpdate)
	}
	log.WithFields(log.Fields{"user_id": u.ID, "weight_kg": u.WeightKG, "goal": goal}).Debug("profile weight synced")
	return nil
}
