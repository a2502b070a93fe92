package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/models"
)

// FoodLogPatch lists the food log fields an update may change.
type FoodLogPatch struct {
	FoodID       *uint64          `json:"food_id"`
	MealType     *models.MealType `json:"meal_type"`
	ServingSizeG *float64         `json:"serving_size_g"`
	LogDate      *time.Time       `json:"log_date"`
	Notes        *string          `json:"notes"`
}

func ensureExists(tx *gorm.DB, model any, entity string, id uint64) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("store: check %s: %w", entity, err)
	}
	if count == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

// CreateFoodLog records a consumed serving. LogDate defaults to now and
// MealType to "other". The user and food must exist.
func (s *Store) CreateFoodLog(ctx context.Context, l *models.FoodLog) (*models.FoodLog, error) {
	if l.MealType == "" {
		l.MealType = models.MealOther
	}
	if l.LogDate.IsZero() {
		l.LogDate = s.now()
	}
	l.LogDate = l.LogDate.UTC()
	if err := l.Validate(); err != nil {
		return nil, err
	}

	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if errUser := ensureExists(tx, &models.User{}, "user", l.UserID); errUser != nil {
			return errUser
		}
		if errFood := ensureExists(tx, &models.Food{}, "food", l.FoodID); errFood != nil {
			return errFood
		}
		if errCreate := tx.Create(l).Error; errCreate != nil {
			return fmt.Errorf("store: create food log: %w", errCreate)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return l, nil
}

// GetFoodLog loads one of the user's food logs.
func (s *Store) GetFoodLog(ctx context.Context, userID, id uint64) (*models.FoodLog, error) {
	var l models.FoodLog
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&l).Error; err != nil {
		return nil, db.Classify(err, "food log", id)
	}
	return &l, nil
}

// ListFoodLogs returns the user's logs with start <= log_date < end, oldest first.
func (s *Store) ListFoodLogs(ctx context.Context, userID uint64, start, end time.Time) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date < ?", userID, start.UTC(), end.UTC()).
		Order("log_date ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("store: list food logs: %w", err)
	}
	return logs, nil
}

// UpdateFoodLog applies patch to one of the user's food logs.
func (s *Store) UpdateFoodLog(ctx context.Context, userID, id uint64, patch FoodLogPatch) (*models.FoodLog, error) {
	var l models.FoodLog
	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if errFind := tx.Where("id = ? AND user_id = ?", id, userID).First(&l).Error; errFind != nil {
			return db.Classify(errFind, "food log", id)
		}
		if patch.FoodID != nil && *patch.FoodID != l.FoodID {
			if errFood := ensureExists(tx, &models.Food{}, "food", *patch.FoodID); errFood != nil {
				return errFood
			}
			l.FoodID = *patch.FoodID
		}
		if patch.MealType != nil {
			l.MealType = *patch.MealType
		}
		if patch.ServingSizeG != nil {
			l.ServingSizeG = *patch.ServingSizeG
		}
		if patch.LogDate != nil {
			l.LogDate = patch.LogDate.UTC()
		}
		if patch.Notes != nil {
			notes := *patch.Notes
			l.Notes = &notes
		}
		if errValidate := l.Validate(); errValidate != nil {
			return errValidate
		}
		if errSave := tx.Save(&l).Error; errSave != nil {
			return fmt.Errorf("store: update food log: %w", errSave)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &l, nil
}

// DeleteFoodLog removes one of the user's food logs.
func (s *Store) DeleteFoodLog(ctx context.Context, userID, id uint64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.FoodLog{})
	if res.Error != nil {
		return fmt.Errorf("store: delete food log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("food log", id)
	}
	return nil
}

// EarliestFoodLogDate returns the date of the user's first food log, or nil
// when there are none.
func (s *Store) EarliestFoodLogDate(ctx context.Context, userID uint64) (*time.Time, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("log_date ASC").
		Limit(1).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("store: earliest food log: %w", err)
	}
	if len(logs) == 0 {
		return nil, nil
	}
	day := DayStart(logs[0].LogDate)
	return &day, nil
}
