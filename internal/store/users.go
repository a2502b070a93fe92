package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/models"
)

const (
	initialWeightNote = "Initial weight"
	profileWeightNote = "Profile update"
)

// UserPatch lists the profile fields an update may change. Nil fields are left as-is.
type UserPatch struct {
	Email               *string               `json:"email"`
	FirstName           *string               `json:"first_name"`
	LastName            *string               `json:"last_name"`
	BirthDate           *time.Time            `json:"birth_date"`
	Gender              *models.Gender        `json:"gender"`
	HeightCM            *float64              `json:"height_cm"`
	WeightKG            *float64              `json:"weight_kg"`
	ActivityLevel       *models.ActivityLevel `json:"activity_level"`
	WeightGoal          *models.WeightGoal    `json:"weight_goal"`
	TargetWeightKG      *float64              `json:"target_weight_kg"`
	TargetRateKgPerWeek *float64              `json:"target_rate_kg_per_week"`
}

func (p UserPatch) apply(u *models.User) {
	if p.Email != nil {
		email := *p.Email
		u.Email = &email
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate.UTC()
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.HeightCM != nil {
		u.HeightCM = *p.HeightCM
	}
	if p.WeightKG != nil {
		u.WeightKG = *p.WeightKG
	}
	if p.ActivityLevel != nil {
		u.ActivityLevel = *p.ActivityLevel
	}
	if p.WeightGoal != nil {
		u.WeightGoal = *p.WeightGoal
	}
	if p.TargetWeightKG != nil {
		target := *p.TargetWeightKG
		u.TargetWeightKG = &target
	}
	if p.TargetRateKgPerWeek != nil {
		u.TargetRateKgPerWeek = *p.TargetRateKgPerWeek
	}
}

// CreateUser validates u, computes its daily calorie goal, assigns an API token
// and stores it together with an "Initial weight" log.
func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.Normalize()
	u.BirthDate = u.BirthDate.UTC()
	if err := s.validateUser(u); err != nil {
		return nil, err
	}
	goal, err := s.engine.ComputeGoal(u)
	if err != nil {
		return nil, err
	}
	u.DailyCalorieGoal = goal
	if u.AuthToken == "" {
		u.AuthToken = uuid.NewString()
	}

	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if errCreate := tx.Create(u).Error; errCreate != nil {
			return db.Classify(errCreate, "user", u.Username)
		}
		note := initialWeightNote
		initial := models.WeightLog{
			UserID:   u.ID,
			WeightKG: u.WeightKG,
			LogDate:  DayStart(s.now()),
			Notes:    &note,
		}
		if errLog := tx.Create(&initial).Error; errLog != nil {
			return fmt.Errorf("store: create initial weight log: %w", errLog)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"user_id": u.ID, "goal": u.DailyCalorieGoal}).Info("user created")
	return u, nil
}

// GetUser loads a user by ID. Archived users are returned with ArchivedAt set.
func (s *Store) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, db.Classify(err, "user", id)
	}
	return &u, nil
}

// GetUserByUsername loads an active user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	var u models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND archived_at IS NULL", username).
		First(&u).Error
	if err != nil {
		return nil, db.Classify(err, "user", username)
	}
	return &u, nil
}

// GetUserByToken resolves an API bearer token to an active user.
func (s *Store) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.NotFound("user", "token")
	}
	var u models.User
	err := s.db.WithContext(ctx).
		Where("auth_token = ? AND archived_at IS NULL", token).
		First(&u).Error
	if err != nil {
		return nil, db.Classify(err, "user", "token")
	}
	return &u, nil
}

// ListUsers returns active users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("archived_at IS NULL").
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies patch and recomputes the daily calorie goal when any
// field it depends on changed. A weight change is also logged for today.
// Switching to maintain clears the target weight.
func (s *Store) UpdateUser(ctx context.Context, id uint64, patch UserPatch) (*models.User, error) {
	var updated models.User
	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if errFind := tx.First(&updated, id).Error; errFind != nil {
			return db.Classify(errFind, "user", id)
		}
		before := updated

		patch.apply(&updated)
		updated.Normalize()
		if errValidate := s.validateUser(&updated); errValidate != nil {
			return errValidate
		}
		if !before.GoalFieldsEqual(&updated) {
			goal, errGoal := s.engine.ComputeGoal(&updated)
			if errGoal != nil {
				return errGoal
			}
			updated.DailyCalorieGoal = goal
		}

		if errSave := tx.Save(&updated).Error; errSave != nil {
			return db.Classify(errSave, "user", id)
		}
		if updated.WeightKG == before.WeightKG {
			return nil
		}
		// The profile weight mirrors the latest weight log, so a direct edit is
		// recorded as today's measurement.
		note := profileWeightNote
		entry := models.WeightLog{
			UserID:   updated.ID,
			WeightKG: updated.WeightKG,
			LogDate:  DayStart(s.now()),
			Notes:    &note,
		}
		if errLog := tx.Create(&entry).Error; errLog != nil {
			return fmt.Errorf("store: record profile weight: %w", errLog)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &updated, nil
}

// SetPassword stores a bcrypt hash for API login.
func (s *Store) SetPassword(ctx context.Context, id uint64, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("store: set password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

// ArchiveUser marks a user archived. Archived users cannot authenticate and are
// hidden from listings. With purgeLogs set, the user's food and weight logs are
// deleted in the same transaction.
func (s *Store) ArchiveUser(ctx context.Context, id uint64, purgeLogs bool) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		var u models.User
		if errFind := tx.First(&u, id).Error; errFind != nil {
			return db.Classify(errFind, "user", id)
		}
		if purgeLogs {
			if errFood := tx.Where("user_id = ?", id).Delete(&models.FoodLog{}).Error; errFood != nil {
				return fmt.Errorf("store: purge food logs: %w", errFood)
			}
			if errWeight := tx.Where("user_id = ?", id).Delete(&models.WeightLog{}).Error; errWeight != nil {
				return fmt.Errorf("store: purge weight logs: %w", errWeight)
			}
		}
		if u.ArchivedAt != nil {
			return nil
		}
		now := s.now()
		if errUpdate := tx.Model(&u).Update("archived_at", now).Error; errUpdate != nil {
			return fmt.Errorf("store: archive user: %w", errUpdate)
		}
		return nil
	})
}

func (s *Store) validateUser(u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if maxRate := s.engine.Config().MaxRateKgPerWeek; u.TargetRateKgPerWeek > maxRate {
		return apperr.Invalid("target_rate_kg_per_week", "must not exceed %.2f", maxRate)
	}
	return nil
}
