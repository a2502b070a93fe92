package models

import (
	"strings"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/nutrition"
)

// DefaultServingSizeG is the reference weight used when a food omits one.
const DefaultServingSizeG = 100.0

// Food is a shared food database entry. Nutrient values describe ServingSizeG grams.
type Food struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name        string  `gorm:"type:text;not null;index" json:"name"`
	Brand       *string `gorm:"type:text" json:"brand,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	ServingSizeG float64  `gorm:"column:serving_size_g;not null;default:100" json:"serving_size_g"`
	Calories     float64  `gorm:"not null" json:"calories"`
	ProteinG     float64  `gorm:"column:protein_g;not null;default:0" json:"protein_g"`
	CarbsG       float64  `gorm:"column:carbs_g;not null;default:0" json:"carbs_g"`
	FatG         float64  `gorm:"column:fat_g;not null;default:0" json:"fat_g"`
	FiberG       *float64 `gorm:"column:fiber_g" json:"fiber_g,omitempty"`
	SugarG       *float64 `gorm:"column:sugar_g" json:"sugar_g,omitempty"`
	SodiumMg     *float64 `gorm:"column:sodium_mg" json:"sodium_mg,omitempty"`

	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`
	IsCustom   bool `gorm:"not null;default:false" json:"is_custom"`

	// CreatedByUserID is a weak ownership reference; deleting the user leaves the food.
	CreatedByUserID *uint64 `gorm:"index" json:"created_by_user_id,omitempty"`

	Categories []FoodCategory `gorm:"many2many:food_category_association;" json:"categories,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Profile returns the food's nutrient profile for the scaler.
func (f *Food) Profile() nutrition.Profile {
	return nutrition.Profile{
		ServingSizeG: f.ServingSizeG,
		Calories:     f.Calories,
		ProteinG:     f.ProteinG,
		CarbsG:       f.CarbsG,
		FatG:         f.FatG,
		FiberG:       f.FiberG,
		SugarG:       f.SugarG,
		SodiumMg:     f.SodiumMg,
	}
}

// Normalize trims text fields and applies the default serving size.
func (f *Food) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Brand = trimOptional(f.Brand)
	f.Description = trimOptional(f.Description)
	if f.ServingSizeG == 0 {
		f.ServingSizeG = DefaultServingSizeG
	}
}

// Validate checks the nutrient invariants.
func (f *Food) Validate() error {
	if f.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if f.ServingSizeG <= 0 {
		return apperr.Invalid("serving_size_g", "must be greater than zero")
	}
	if f.Calories < 0 {
		return apperr.Invalid("calories", "must not be negative")
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"protein_g", f.ProteinG},
		{"carbs_g", f.CarbsG},
		{"fat_g", f.FatG},
	} {
		if field.value < 0 {
			return apperr.Invalid(field.name, "must not be negative")
		}
	}
	for _, field := range []struct {
		name  string
		value *float64
	}{
		{"fiber_g", f.FiberG},
		{"sugar_g", f.SugarG},
		{"sodium_mg", f.SodiumMg},
	} {
		if field.value != nil && *field.value < 0 {
			return apperr.Invalid(field.name, "must not be negative")
		}
	}
	return nil
}

// FoodCategory groups foods; names are unique.
type FoodCategory struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
