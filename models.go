package main

import (
	"fmt"
	"strings"
	"time"

	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.DateOnly) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+time.DateOnly+`"`, string(b))
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

// parseLogTime accepts either an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func parseLogTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD")
	}
	return t, nil
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers; only non-nil fields are changed.
type patchProfileRequest struct {
	Email               *string   `json:"email"`
	FirstName           *string   `json:"first_name"`
	LastName            *string   `json:"last_name"`
	BirthDate           *DateOnly `json:"birth_date"`
	Gender              *string   `json:"gender"`
	HeightCM            *float64  `json:"height_cm"`
	WeightKG            *float64  `json:"weight_kg"`
	ActivityLevel       *string   `json:"activity_level"`
	WeightGoal          *string   `json:"weight_goal"`
	TargetWeightKG      *float64  `json:"target_weight_kg"`
	TargetRateKgPerWeek *float64  `json:"target_rate_kg_per_week"`
}

func (r patchProfileRequest) toPatch() store.UserPatch {
	p := store.UserPatch{
		Email:               r.Email,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		HeightCM:            r.HeightCM,
		WeightKG:            r.WeightKG,
		TargetWeightKG:      r.TargetWeightKG,
		TargetRateKgPerWeek: r.TargetRateKgPerWeek,
	}
	if r.BirthDate != nil {
		p.BirthDate = &r.BirthDate.Time
	}
	if r.Gender != nil {
		g := models.Gender(strings.ToLower(*r.Gender))
		p.Gender = &g
	}
	if r.ActivityLevel != nil {
		a := models.ActivityLevel(strings.ToLower(*r.ActivityLevel))
		p.ActivityLevel = &a
	}
	if r.WeightGoal != nil {
		w := models.WeightGoal(strings.ToLower(*r.WeightGoal))
		p.WeightGoal = &w
	}
	return p
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

// createFoodRequest is the request body for POST /api/foods. Nutrients describe
// serving_size_g grams, which defaults to 100.
type createFoodRequest struct {
	Name         string   `json:"name"`
	Brand        *string  `json:"brand"`
	Description  *string  `json:"description"`
	ServingSizeG float64  `json:"serving_size_g"`
	Calories     float64  `json:"calories"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	FiberG       *float64 `json:"fiber_g"`
	SugarG       *float64 `json:"sugar_g"`
	SodiumMg     *float64 `json:"sodium_mg"`
	IsVerified   bool     `json:"is_verified"`
	Categories   []string `json:"categories"`
}

func (r createFoodRequest) toFood(userID uint64) *models.Food {
	return &models.Food{
		Name:            r.Name,
		Brand:           r.Brand,
		Description:     r.Description,
		ServingSizeG:    r.ServingSizeG,
		Calories:        r.Calories,
		ProteinG:        r.ProteinG,
		CarbsG:          r.CarbsG,
		FatG:            r.FatG,
		FiberG:          r.FiberG,
		SugarG:          r.SugarG,
		SodiumMg:        r.SodiumMg,
		IsVerified:      r.IsVerified,
		IsCustom:        true,
		CreatedByUserID: &userID,
	}
}

/* ─── Food log ───────────────────────────────────────────────────────── */

// createFoodLogRequest is the request body for POST /api/food-log/items.
// Date defaults to now; meal_type defaults to "other".
type createFoodLogRequest struct {
	FoodID       uint64  `json:"food_id"`
	MealType     string  `json:"meal_type"`
	ServingSizeG float64 `json:"serving_size_g"`
	Date         string  `json:"date"`
	Notes        *string `json:"notes"`
}

// patchFoodLogRequest is the request body for PATCH /api/food-log/items/:id.
type patchFoodLogRequest struct {
	FoodID       *uint64  `json:"food_id"`
	MealType     *string  `json:"meal_type"`
	ServingSizeG *float64 `json:"serving_size_g"`
	Date         *string  `json:"date"`
	Notes        *string  `json:"notes"`
}

func (r patchFoodLogRequest) toPatch() (store.FoodLogPatch, error) {
	p := store.FoodLogPatch{
		FoodID:       r.FoodID,
		ServingSizeG: r.ServingSizeG,
		Notes:        r.Notes,
	}
	if r.MealType != nil {
		m := models.MealType(strings.ToLower(*r.MealType))
		p.MealType = &m
	}
	if r.Date != nil {
		t, err := parseLogTime(*r.Date)
		if err != nil {
			return store.FoodLogPatch{}, err
		}
		p.LogDate = &t
	}
	return p, nil
}

/* ─── Weight log ─────────────────────────────────────────────────────── */

// createWeightRequest is the request body for POST /api/weight-log.
// Date defaults to today.
type createWeightRequest struct {
	Date     *DateOnly `json:"date"`
	WeightKG float64   `json:"weight_kg"`
	Notes    *string   `json:"notes"`
}
