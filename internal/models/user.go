package models

import (
	"strings"
	"time"

	"lg/calorie-tracker/internal/apperr"
)

// User is a tracked person. DailyCalorieGoal is derived from the biometric and
// goal fields and is recomputed by the store whenever one of them changes.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Username  string  `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email     *string `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	FirstName string  `gorm:"type:text" json:"first_name,omitempty"`
	LastName  string  `gorm:"type:text" json:"last_name,omitempty"`

	BirthDate time.Time `gorm:"not null" json:"birth_date"`
	Gender    Gender    `gorm:"type:text;not null;default:other" json:"gender"`
	HeightCM  float64   `gorm:"column:height_cm;not null" json:"height_cm"`
	WeightKG  float64   `gorm:"column:weight_kg;not null" json:"weight_kg"`

	ActivityLevel       ActivityLevel `gorm:"type:text;not null;default:moderate" json:"activity_level"`
	WeightGoal          WeightGoal    `gorm:"type:text;not null;default:maintain" json:"weight_goal"`
	TargetWeightKG      *float64      `gorm:"column:target_weight_kg" json:"target_weight_kg,omitempty"`
	TargetRateKgPerWeek float64       `gorm:"column:target_rate_kg_per_week;not null;default:0" json:"target_rate_kg_per_week"`

	DailyCalorieGoal int `gorm:"not null;default:0" json:"daily_calorie_goal"`

	Password   string     `gorm:"type:text" json:"-"`             // Optional bcrypt hash for API login.
	AuthToken  string     `gorm:"type:text;uniqueIndex" json:"-"` // Bearer token for the local API.
	ArchivedAt *time.Time `json:"archived_at,omitempty"`          // Set on archive; profiles are never hard-deleted through the API.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// GoalFieldsEqual reports whether u and o agree on every field the calorie goal depends on.
func (u *User) GoalFieldsEqual(o *User) bool {
	return u.HeightCM == o.HeightCM &&
		u.WeightKG == o.WeightKG &&
		u.BirthDate.Equal(o.BirthDate) &&
		u.Gender == o.Gender &&
		u.ActivityLevel == o.ActivityLevel &&
		u.WeightGoal == o.WeightGoal &&
		u.TargetRateKgPerWeek == o.TargetRateKgPerWeek
}

// Normalize trims identity fields and fills enum defaults.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	if u.Email != nil {
		email := strings.TrimSpace(*u.Email)
		if email == "" {
			u.Email = nil
		} else {
			u.Email = &email
		}
	}
	if u.Gender == "" {
		u.Gender = GenderOther
	}
	if u.ActivityLevel == "" {
		u.ActivityLevel = ActivityModerate
	}
	if u.WeightGoal == "" {
		u.WeightGoal = WeightGoalMaintain
	}
	if u.WeightGoal == WeightGoalMaintain {
		u.TargetWeightKG = nil
	}
}

// Validate checks the profile invariants. Rate bounds depend on configuration
// and are checked by the store.
func (u *User) Validate() error {
	if u.Username == "" {
		return apperr.Invalid("username", "is required")
	}
	if u.HeightCM <= 0 {
		return apperr.Invalid("height_cm", "must be greater than zero")
	}
	if u.WeightKG <= 0 {
		return apperr.Invalid("weight_kg", "must be greater than zero")
	}
	if u.BirthDate.IsZero() {
		return apperr.Invalid("birth_date", "is required")
	}
	if !u.Gender.Valid() {
		return apperr.Invalid("gender", "must be one of: male, female, other")
	}
	if !u.ActivityLevel.Valid() {
		return apperr.Invalid("activity_level", "must be one of: sedentary, light, moderate, active, very_active")
	}
	if !u.WeightGoal.Valid() {
		return apperr.Invalid("weight_goal", "must be one of: lose, maintain, gain")
	}
	if u.WeightGoal != WeightGoalMaintain {
		if u.TargetWeightKG == nil {
			return apperr.Invalid("target_weight_kg", "is required when weight_goal is %s", u.WeightGoal)
		}
		if *u.TargetWeightKG <= 0 {
			return apperr.Invalid("target_weight_kg", "must be greater than zero")
		}
	}
	if u.TargetRateKgPerWeek < 0 {
		return apperr.Invalid("target_rate_kg_per_week", "must not be negative")
	}
	return nil
}
