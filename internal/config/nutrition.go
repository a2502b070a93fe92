package config

import "fmt"

// Nutrition holds the unit constants behind every calorie computation.
// Tests construct their own value instead of relying on package-level constants.
type Nutrition struct {
	ProteinKcalPerG float64 `yaml:"protein-kcal-per-g"`
	CarbsKcalPerG   float64 `yaml:"carbs-kcal-per-g"`
	FatKcalPerG     float64 `yaml:"fat-kcal-per-g"`

	// ActivityMultipliers maps activity level to its TDEE multiplier. It is the
	// single source of truth for valid activity levels.
	ActivityMultipliers map[string]float64 `yaml:"activity-multipliers"`

	// KcalPerKg is the energy in one kilogram of body fat.
	KcalPerKg float64 `yaml:"kcal-per-kg"`

	DefaultRateKgPerWeek float64 `yaml:"default-rate-kg-per-week"`
	MaxRateKgPerWeek     float64 `yaml:"max-rate-kg-per-week"`

	// MinCalorieGoal is the absolute floor for a computed daily goal.
	MinCalorieGoal int `yaml:"min-calorie-goal"`
	// GoalFloorAtBMR additionally keeps the goal at or above BMR.
	GoalFloorAtBMR bool `yaml:"goal-floor-at-bmr"`
}

// DefaultNutrition returns the standard constants: 4/4/9 kcal per gram,
// Mifflin-St Jeor activity multipliers and 7700 kcal per kg.
func DefaultNutrition() Nutrition {
	return Nutrition{
		ProteinKcalPerG: 4,
		CarbsKcalPerG:   4,
		FatKcalPerG:     9,
		ActivityMultipliers: map[string]float64{
			"sedentary":   1.2,
			"light":       1.375,
			"moderate":    1.55,
			"active":      1.725,
			"very_active": 1.9,
		},
		KcalPerKg:            7700,
		DefaultRateKgPerWeek: 0.5,
		MaxRateKgPerWeek:     1.0,
		MinCalorieGoal:       1200,
		GoalFloorAtBMR:       true,
	}
}

// Validate rejects constants that would make goal or macro computations meaningless.
func (n Nutrition) Validate() error {
	if n.ProteinKcalPerG <= 0 || n.CarbsKcalPerG <= 0 || n.FatKcalPerG <= 0 {
		return fmt.Errorf("config: macro densities must be positive")
	}
	if len(n.ActivityMultipliers) == 0 {
		return fmt.Errorf("config: activity multipliers must not be empty")
	}
	for level, mult := range n.ActivityMultipliers {
		if mult <= 0 {
			return fmt.Errorf("config: activity multiplier for %q must be positive", level)
		}
	}
	if n.KcalPerKg <= 0 {
		return fmt.Errorf("config: kcal-per-kg must be positive")
	}
	if n.DefaultRateKgPerWeek <= 0 || n.MaxRateKgPerWeek < n.DefaultRateKgPerWeek {
		return fmt.Errorf("config: rate bounds invalid (default %.2f, max %.2f)", n.DefaultRateKgPerWeek, n.MaxRateKgPerWeek)
	}
	if n.MinCalorieGoal < 0 {
		return fmt.Errorf("config: min-calorie-goal must not be negative")
	}
	return nil
}
