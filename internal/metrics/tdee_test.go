package metrics

import (
	"math"
	"testing"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/models"
)

// fixedNow pins "today" so ages computed from birth dates are deterministic.
var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newEngine(cfg config.Nutrition) *Engine {
	return NewEngine(cfg, func() time.Time { return fixedNow })
}

// makeUser constructs a fully-populated profile. Born 1991-01-15, the user is
// 35 on fixedNow. Individual tests override fields to exercise each branch.
func makeUser(gender models.Gender, weightKG, heightCM float64, activity models.ActivityLevel, goal models.WeightGoal) *models.User {
	target := weightKG - 5
	return &models.User{
		Username:       "sam",
		BirthDate:      time.Date(1991, 1, 15, 0, 0, 0, 0, time.UTC),
		Gender:         gender,
		HeightCM:       heightCM,
		WeightKG:       weightKG,
		ActivityLevel:  activity,
		WeightGoal:     goal,
		TargetWeightKG: &target,
	}
}

/* ─── BMR / TDEE accuracy ────────────────────────────────────────────── */

// TestCompute_ReferenceMale checks the worked example: male, 75kg, 180cm, 35y.
// BMR = 750 + 1125 - 175 + 5 = 1705; TDEE at moderate = 2642.75.
func TestCompute_ReferenceMale(t *testing.T) {
	e := newEngine(config.DefaultNutrition())
	r, err := e.Compute(makeUser(models.GenderMale, 75, 180, models.ActivityModerate, models.WeightGoalMaintain))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Age != 35 {
		t.Errorf("age = %d, want 35", r.Age)
	}
	if r.BMR != 1705 {
		t.Errorf("BMR = %v, want 1705", r.BMR)
	}
	if math.Abs(r.TDEE-2642.75) > 1e-9 {
		t.Errorf("TDEE = %v, want 2642.75", r.TDEE)
	}
	if r.Goal != 2643 {
		t.Errorf("maintain goal = %d, want 2643", r.Goal)
	}
}

// TestCompute_LoseDeductsWeeklyOffset: default 0.5 kg/week * 7700 / 7 = 550 kcal/day,
// so 2642.75 - 550 = 2092.75 rounds to 2093.
func TestCompute_LoseDeductsWeeklyOffset(t *testing.T) {
	e := newEngine(config.DefaultNutrition())
	r, err := e.Compute(makeUser(models.GenderMale, 75, 180, models.ActivityModerate, models.WeightGoalLose))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r.Offset+550) > 1e-9 {
		t.Errorf("offset = %v, want -550", r.Offset)
	}
	if r.Goal != 2093 {
		t.Errorf("lose goal = %d, want 2093", r.Goal)
	}
	if r.Floored {
		t.Error("goal above BMR must not be floored")
	}
}

func TestCompute_GainAddsExplicitRate(t *testing.T) {
	e := newEngine(config.DefaultNutrition())
	u := makeUser(models.GenderMale, 75, 180, models.ActivityModerate, models.WeightGoalGain)
	u.TargetRateKgPerWeek = 0.25 // 0.25 * 7700 / 7 = 275
	r, err := e.Compute(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Goal != 2918 { // 2642.75 + 275 = 2917.75
		t.Errorf("gain goal = %d, want 2918", r.Goal)
	}
}

func TestBMR_GenderBranches(t *testing.T) {
	cases := []struct {
		gender models.Gender
		want   float64
	}{
		{models.GenderMale, 1705},
		{models.GenderFemale, 1539},
		{models.GenderOther, 1622},
	}
	for _, tc := range cases {
		t.Run(string(tc.gender), func(t *testing.T) {
			if got := BMR(tc.gender, 75, 180, 35); got != tc.want {
				t.Errorf("BMR(%s) = %v, want %v", tc.gender, got, tc.want)
			}
		})
	}
}

func TestCompute_ActivityMultipliers(t *testing.T) {
	cases := []struct {
		level models.ActivityLevel
		mult  float64
	}{
		{models.ActivitySedentary, 1.2},
		{models.ActivityLight, 1.375},
		{models.ActivityModerate, 1.55},
		{models.ActivityActive, 1.725},
		{models.ActivityVeryActive, 1.9},
	}
	e := newEngine(config.DefaultNutrition())
	for _, tc := range cases {
		t.Run(string(tc.level), func(t *testing.T) {
			r, err := e.Compute(makeUser(models.GenderMale, 75, 180, tc.level, models.WeightGoalMaintain))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(r.TDEE-1705*tc.mult) > 1e-9 {
				t.Errorf("TDEE = %v, want %v", r.TDEE, 1705*tc.mult)
			}
		})
	}
}

/* ─── Safety floor ───────────────────────────────────────────────────── */

// TestCompute_FloorAtBMR: a sedentary user losing 1 kg/week would drop to
// 2046 - 1100 = 946 kcal; the goal is raised to BMR (1705).
func TestCompute_FloorAtBMR(t *testing.T) {
	e := newEngine(config.DefaultNutrition())
	u := makeUser(models.GenderMale, 75, 180, models.ActivitySedentary, models.WeightGoalLose)
	u.TargetRateKgPerWeek = 1.0
	r, err := e.Compute(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Floored {
		t.Error("expected floored=true")
	}
	if r.Goal != 1705 || r.Floor != 1705 {
		t.Errorf("goal = %d floor = %d, want 1705", r.Goal, r.Floor)
	}
}

// TestCompute_FloorAtMinimum: with the BMR floor disabled, the absolute
// minimum still applies.
func TestCompute_FloorAtMinimum(t *testing.T) {
	cfg := config.DefaultNutrition()
	cfg.GoalFloorAtBMR = false
	cfg.MinCalorieGoal = 1200
	e := newEngine(cfg)

	u := makeUser(models.GenderFemale, 50, 155, models.ActivitySedentary, models.WeightGoalLose)
	u.TargetRateKgPerWeek = 1.0
	r, err := e.Compute(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// BMR = 500 + 968.75 - 175 - 161 = 1132.75; TDEE = 1359.3; raw goal = 259.3
	if !r.Floored || r.Goal != 1200 {
		t.Errorf("goal = %d floored = %v, want 1200/true", r.Goal, r.Floored)
	}
}

/* ─── Injected configuration ─────────────────────────────────────────── */

func TestCompute_UsesInjectedConstants(t *testing.T) {
	cfg := config.DefaultNutrition()
	cfg.KcalPerKg = 7000
	cfg.ActivityMultipliers = map[string]float64{"moderate": 1.5}
	e := newEngine(cfg)

	r, err := e.Compute(makeUser(models.GenderMale, 75, 180, models.ActivityModerate, models.WeightGoalLose))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// TDEE = 1705 * 1.5 = 2557.5; offset = 0.5 * 7000 / 7 = 500
	if r.Goal != 2058 {
		t.Errorf("goal = %d, want 2058", r.Goal)
	}

	_, err = e.Compute(makeUser(models.GenderMale, 75, 180, models.ActivityActive, models.WeightGoalMaintain))
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error for level missing from table, got %v", err)
	}
}

/* ─── Input guards ───────────────────────────────────────────────────── */

func TestCompute_RejectsImplausibleInput(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(u *models.User)
	}{
		{"zero height", func(u *models.User) { u.HeightCM = 0 }},
		{"zero weight", func(u *models.User) { u.WeightKG = 0 }},
		{"missing birth date", func(u *models.User) { u.BirthDate = time.Time{} }},
		{"future birth date", func(u *models.User) { u.BirthDate = fixedNow.AddDate(1, 0, 0) }},
		{"age over 130", func(u *models.User) { u.BirthDate = fixedNow.AddDate(-200, 0, 0) }},
	}
	e := newEngine(config.DefaultNutrition())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := makeUser(models.GenderMale, 75, 180, models.ActivityModerate, models.WeightGoalMaintain)
			tc.mutFn(u)
			if _, err := e.Compute(u); !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAge_BirthdayBoundary(t *testing.T) {
	birth := time.Date(1991, 10, 19, 0, 0, 0, 0, time.UTC)
	if got := Age(birth, fixedNow); got != 34 {
		t.Errorf("day before birthday: age = %d, want 34", got)
	}
	if got := Age(birth, fixedNow.AddDate(0, 0, 1)); got != 35 {
		t.Errorf("on birthday: age = %d, want 35", got)
	}
}
