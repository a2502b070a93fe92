package models

import (
	"time"

	"lg/calorie-tracker/internal/apperr"
)

// FoodLog records one consumed serving. Nutrients are not stored; they are
// derived on read from the referenced food, which may since have been deleted.
type FoodLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint64 `gorm:"not null;index:idx_food_logs_user_date,priority:1" json:"user_id"`
	FoodID uint64 `gorm:"not null;index" json:"food_id"`

	MealType     MealType  `gorm:"type:text;not null;default:other" json:"meal_type"`
	ServingSizeG float64   `gorm:"column:serving_size_g;not null" json:"serving_size_g"`
	LogDate      time.Time `gorm:"not null;index:idx_food_logs_user_date,priority:2" json:"log_date"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Validate checks the food log invariants.
func (l *FoodLog) Validate() error {
	if l.UserID == 0 {
		return apperr.Invalid("user_id", "is required")
	}
	if l.FoodID == 0 {
		return apperr.Invalid("food_id", "is required")
	}
	if l.ServingSizeG <= 0 {
		return apperr.Invalid("serving_size_g", "must be greater than zero")
	}
	if !l.MealType.Valid() {
		return apperr.Invalid("meal_type", "must be one of: breakfast, lunch, dinner, snack, other")
	}
	return nil
}

// WeightLog is one body weight measurement. Several per day are allowed.
type WeightLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID   uint64    `gorm:"not null;index:idx_weight_logs_user_date,priority:1" json:"user_id"`
	WeightKG float64   `gorm:"column:weight_kg;not null" json:"weight_kg"`
	LogDate  time.Time `gorm:"not null;index:idx_weight_logs_user_date,priority:2" json:"log_date"`
	Notes    *string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// Validate checks the weight log invariants.
func (l *WeightLog) Validate() error {
	if l.UserID == 0 {
		return apperr.Invalid("user_id", "is required")
	}
	if l.WeightKG <= 0 {
		return apperr.Invalid("weight_kg", "must be greater than zero")
	}
	return nil
}
