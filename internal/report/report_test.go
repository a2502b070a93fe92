package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/foodlog"
	"lg/calorie-tracker/internal/metrics"
	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
	"lg/calorie-tracker/internal/weight"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 8, 0, 0, 0, time.UTC)
}

type harness struct {
	now      time.Time
	store    *store.Store
	composer *Composer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "report-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	h := &harness{now: date(time.October, 18)}
	engine := metrics.NewEngine(config.DefaultNutrition(), func() time.Time { return h.now })
	h.store = store.New(conn, engine)
	h.composer = NewComposer(h.store,
		foodlog.NewAggregator(h.store, engine.Config()),
		weight.NewAnalyzer(h.store),
		engine)
	return h
}

// createUser registers the reference profile on the given day.
func (h *harness) createUser(t *testing.T, on time.Time) *models.User {
	t.Helper()
	h.now = on
	target := 70.0
	u, err := h.store.CreateUser(context.Background(), &models.User{
		Username:       "sam",
		FirstName:      "Sam",
		BirthDate:      time.Date(1991, 1, 15, 0, 0, 0, 0, time.UTC),
		Gender:         models.GenderMale,
		HeightCM:       180,
		WeightKG:       75,
		ActivityLevel:  models.ActivityModerate,
		WeightGoal:     models.WeightGoalLose,
		TargetWeightKG: &target,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	h.now = date(time.October, 18)
	return u
}

func (h *harness) logWeight(t *testing.T, userID uint64, on time.Time, kg float64) {
	t.Helper()
	if _, err := h.store.CreateWeightLog(context.Background(), &models.WeightLog{UserID: userID, WeightKG: kg, LogDate: on}); err != nil {
		t.Fatalf("create weight log: %v", err)
	}
}

/* ─── Empty states ───────────────────────────────────────────────────── */

// TestBuildReport_NewUserHasExplicitEmptyStates: a user with no history gets a
// report, not an error.
func TestBuildReport_NewUserHasExplicitEmptyStates(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, date(time.October, 18))

	r, err := h.composer.BuildReport(context.Background(), u.ID, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(store.DayStart(date(time.October, 12))) || !r.End.Equal(store.DayStart(date(time.October, 18))) {
		t.Errorf("window = %v..%v, want Oct 12..Oct 18", r.Start, r.End)
	}
	if !r.Goal.Available || r.Goal.DailyCalorieGoal != 2093 || r.Goal.BMR != 1705 {
		t.Errorf("goal summary = %+v", r.Goal)
	}
	if r.Log.HasData || r.Log.Message == "" || r.Log.Summary == nil {
		t.Errorf("log summary should be an explicit empty state: %+v", r.Log)
	}
	// Only the initial weight exists, on the last day of the window.
	if len(r.Weight.Entries) != 1 || r.Weight.ChangeKG != nil || r.Weight.Message == "" {
		t.Errorf("weight summary = %+v", r.Weight)
	}
	if r.Weight.DistanceToTargetKG == nil || *r.Weight.DistanceToTargetKG != 5 || r.Weight.TargetReached {
		t.Errorf("target distance = %v reached=%v", r.Weight.DistanceToTargetKG, r.Weight.TargetReached)
	}
}

func TestBuildReport_Errors(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, date(time.October, 18))
	ctx := context.Background()

	if _, err := h.composer.BuildReport(ctx, u.ID, 0); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for zero days, got %v", err)
	}
	if _, err := h.composer.BuildReport(ctx, u.ID, foodlog.MaxSummaryDays+1); !apperr.IsValidation(err) {
		t.Errorf("expected validation error above %d days, got %v", foodlog.MaxSummaryDays, err)
	}
	if _, err := h.composer.BuildReport(ctx, u.ID, 150000); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for 150000 days, got %v", err)
	}
	if _, err := h.composer.BuildReport(ctx, u.ID+1, 7); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

/* ─── Populated reports ──────────────────────────────────────────────── */

func TestBuildReport_WeightChangeOverWindow(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, date(time.October, 1))
	h.logWeight(t, u.ID, date(time.October, 12), 74.8)
	h.logWeight(t, u.ID, date(time.October, 18), 74.5)

	food, err := h.store.CreateFood(context.Background(), &models.Food{Name: "Rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3}, nil)
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	if _, err := h.store.CreateFoodLog(context.Background(), &models.FoodLog{UserID: u.ID, FoodID: food.ID, ServingSizeG: 300, MealType: models.MealLunch}); err != nil {
		t.Fatalf("create food log: %v", err)
	}

	r, err := h.composer.BuildReport(context.Background(), u.ID, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Weight.ChangeKG == nil || *r.Weight.ChangeKG != -0.3 || r.Weight.ChangeText != "Lost 0.3 kg" {
		t.Errorf("change = %v %q, want -0.3 Lost 0.3 kg", r.Weight.ChangeKG, r.Weight.ChangeText)
	}
	if r.Weight.CurrentKG != 74.5 || r.Weight.TargetText != "4.5 kg above target" {
		t.Errorf("current = %v target text = %q", r.Weight.CurrentKG, r.Weight.TargetText)
	}
	if !r.Log.HasData || r.Log.Summary.DaysLogged != 1 || r.Log.Summary.AvgCalories != 390 {
		t.Errorf("log summary = %+v", r.Log.Summary)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sam (sam)", "Lost 0.3 kg", "Days with logs: 1 out of 7", "DAILY BREAKDOWN", "2026-10-18"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

// TestBuildReport_FallsBackToEntriesInsideWindow: with nothing on or before the
// window start, the change is taken between the first and last entries inside it.
func TestBuildReport_FallsBackToEntriesInsideWindow(t *testing.T) {
	h := newHarness(t)
	u := h.createUser(t, date(time.October, 15))
	h.logWeight(t, u.ID, date(time.October, 17), 74)

	r, err := h.composer.BuildReport(context.Background(), u.ID, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Weight.ChangeKG == nil || *r.Weight.ChangeKG != -1 || r.Weight.ChangeText != "Lost 1.0 kg" {
		t.Errorf("fallback change = %v %q", r.Weight.ChangeKG, r.Weight.ChangeText)
	}
	if *r.Weight.StartKG != 75 || *r.Weight.EndKG != 74 {
		t.Errorf("start/end = %v/%v, want 75/74", *r.Weight.StartKG, *r.Weight.EndKG)
	}
}

/* ─── Rendering helpers ──────────────────────────────────────────────── */

func TestDescribeWeightChange(t *testing.T) {
	cases := []struct {
		delta float64
		want  string
	}{
		{-0.3, "Lost 0.3 kg"},
		{1.3, "Gained 1.3 kg"},
		{0, "No change"},
		{0.004, "No change"},
		{-0.009, "No change"},
	}
	for _, tc := range cases {
		if got := DescribeWeightChange(tc.delta); got != tc.want {
			t.Errorf("DescribeWeightChange(%v) = %q, want %q", tc.delta, got, tc.want)
		}
	}
}

func TestDescribeTargetDistance(t *testing.T) {
	cases := []struct {
		dist float64
		want string
	}{
		{0.4, "Target weight reached"},
		{-0.49, "Target weight reached"},
		{4.5, "4.5 kg above target"},
		{-2, "2.0 kg below target"},
	}
	for _, tc := range cases {
		if got := DescribeTargetDistance(tc.dist); got != tc.want {
			t.Errorf("DescribeTargetDistance(%v) = %q, want %q", tc.dist, got, tc.want)
		}
	}
}
