// Package metrics derives BMR, TDEE and the daily calorie goal from a user profile.
package metrics

import (
	"math"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/models"
)

// Result is the full derivation behind a calorie goal.
type Result struct {
	Age  int     `json:"age"`
	BMR  float64 `json:"bmr"`
	TDEE float64 `json:"tdee"`
	// Offset is the daily kcal adjustment applied for the weight goal (negative when losing).
	Offset float64 `json:"offset"`
	Goal   int     `json:"daily_calorie_goal"`
	// Floored is true when the raw goal fell below the safety floor and was raised to it.
	Floored bool `json:"floored"`
	Floor   int  `json:"floor"`
}

// Engine computes goals with an injectable configuration and clock.
type Engine struct {
	cfg config.Nutrition
	now func() time.Time
}

// NewEngine builds an Engine. A nil now defaults to time.Now in UTC.
func NewEngine(cfg config.Nutrition, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{cfg: cfg, now: now}
}

// Config returns the nutrition constants the engine was built with.
func (e *Engine) Config() config.Nutrition { return e.cfg }

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.now() }

// ComputeGoal returns the daily calorie goal for u.
func (e *Engine) ComputeGoal(u *models.User) (int, error) {
	r, err := e.Compute(u)
	if err != nil {
		return 0, err
	}
	return r.Goal, nil
}

// Compute derives BMR via Mifflin-St Jeor, TDEE from the activity multiplier
// table, and the goal adjusted by the weekly rate. The goal is never below
// the configured minimum, nor below BMR when GoalFloorAtBMR is set.
func (e *Engine) Compute(u *models.User) (Result, error) {
	if u.HeightCM <= 0 {
		return Result{}, apperr.Invalid("height_cm", "must be greater than zero")
	}
	if u.WeightKG <= 0 {
		return Result{}, apperr.Invalid("weight_kg", "must be greater than zero")
	}
	if u.BirthDate.IsZero() {
		return Result{}, apperr.Invalid("birth_date", "is required")
	}

	age := Age(u.BirthDate, e.now())
	// Guard against implausible ages (e.g. DOB in the future, or over 130 years ago)
	if age < 0 || age > 130 {
		return Result{}, apperr.Invalid("birth_date", "implies an implausible age of %d", age)
	}

	mult, found := e.cfg.ActivityMultipliers[string(u.ActivityLevel)]
	if !found {
		return Result{}, apperr.Invalid("activity_level", "unknown activity level %q", u.ActivityLevel)
	}

	bmr := BMR(u.Gender, u.WeightKG, u.HeightCM, age)
	tdee := bmr * mult

	var offset float64
	switch u.WeightGoal {
	case models.WeightGoalLose:
		offset = -e.dailyOffset(u.TargetRateKgPerWeek)
	case models.WeightGoalGain:
		offset = e.dailyOffset(u.TargetRateKgPerWeek)
	case models.WeightGoalMaintain, "":
	default:
		return Result{}, apperr.Invalid("weight_goal", "unknown weight goal %q", u.WeightGoal)
	}

	floor := e.cfg.MinCalorieGoal
	if e.cfg.GoalFloorAtBMR {
		if b := int(math.Round(bmr)); b > floor {
			floor = b
		}
	}

	// Use math.Round to avoid systematic under-reporting from truncation.
	goal := int(math.Round(tdee + offset))
	floored := false
	if goal < floor {
		goal = floor
		floored = true
	}

	return Result{
		Age:     age,
		BMR:     bmr,
		TDEE:    tdee,
		Offset:  offset,
		Goal:    goal,
		Floored: floored,
		Floor:   floor,
	}, nil
}

// dailyOffset converts a weekly rate into kcal per day. A zero rate means the configured default.
func (e *Engine) dailyOffset(rateKgPerWeek float64) float64 {
	if rateKgPerWeek <= 0 {
		rateKgPerWeek = e.cfg.DefaultRateKgPerWeek
	}
	return rateKgPerWeek * e.cfg.KcalPerKg / 7
}

// BMR is the Mifflin-St Jeor basal metabolic rate. GenderOther averages the
// male and female constants.
func BMR(g models.Gender, weightKG, heightCM float64, age int) float64 {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch g {
	case models.GenderMale:
		return base + 5
	case models.GenderFemale:
		return base - 161
	default:
		return base + (5-161)/2.0
	}
}

// Age returns whole years elapsed from birth to now.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}
