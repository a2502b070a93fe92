package weight

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/metrics"
	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
)

type fakeSource struct {
	userID uint64
	logs   []models.WeightLog // kept in (log_date, id) order
}

func (f *fakeSource) GetUser(_ context.Context, id uint64) (*models.User, error) {
	if id != f.userID {
		return nil, apperr.NotFound("user", id)
	}
	return &models.User{ID: id}, nil
}

func (f *fakeSource) ListWeightLogs(_ context.Context, userID uint64, from, to time.Time) ([]models.WeightLog, error) {
	var out []models.WeightLog
	for _, l := range f.logs {
		if l.UserID != userID {
			continue
		}
		if (!from.IsZero() && l.LogDate.Before(from)) || (!to.IsZero() && !l.LogDate.Before(to)) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeSource) add(day time.Time, kg float64) {
	f.logs = append(f.logs, models.WeightLog{ID: uint64(len(f.logs) + 1), UserID: f.userID, WeightKG: kg, LogDate: day})
}

var (
	day1 = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
)

/* ─── History ────────────────────────────────────────────────────────── */

// TestHistory_Deltas checks the worked example: 74.8kg then 74.5kg records -0.3kg.
func TestHistory_Deltas(t *testing.T) {
	src := &fakeSource{userID: 1}
	src.add(day1, 74.8)
	src.add(day2, 74.5)
	src.add(day2.AddDate(0, 0, 3), 74.5)

	h, err := NewAnalyzer(src).History(context.Background(), 1, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 3 {
		t.Fatalf("entries = %d, want 3", len(h))
	}
	if h[0].DeltaKG != nil {
		t.Errorf("first entry delta = %v, want absent", *h[0].DeltaKG)
	}
	if h[1].DeltaKG == nil || *h[1].DeltaKG != -0.3 {
		t.Errorf("second entry delta = %v, want -0.3", h[1].DeltaKG)
	}
	if h[2].DeltaKG == nil || *h[2].DeltaKG != 0 {
		t.Errorf("third entry delta = %v, want 0", h[2].DeltaKG)
	}
}

// TestHistory_WindowKeepsPrecedingDelta: the first entry inside a window is
// still compared with the measurement before it.
func TestHistory_WindowKeepsPrecedingDelta(t *testing.T) {
	src := &fakeSource{userID: 1}
	src.add(day1, 80)
	src.add(day1.AddDate(0, 0, 10), 79.2)
	src.add(day1.AddDate(0, 0, 20), 78.9)

	h, err := NewAnalyzer(src).History(context.Background(), 1, day1.AddDate(0, 0, 5), day1.AddDate(0, 0, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 1 || h[0].WeightKG != 79.2 {
		t.Fatalf("window = %+v, want only the 79.2 entry", h)
	}
	if h[0].DeltaKG == nil || *h[0].DeltaKG != -0.8 {
		t.Errorf("delta = %v, want -0.8", h[0].DeltaKG)
	}

	if _, err := NewAnalyzer(src).History(context.Background(), 2, time.Time{}, time.Time{}); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

/* ─── ChangeOverRange ────────────────────────────────────────────────── */

func TestChangeOverRange(t *testing.T) {
	src := &fakeSource{userID: 1}
	src.add(day1, 74.8)
	src.add(day2, 74.9)
	src.add(day2, 74.5) // same day, created later: wins
	src.add(day2.AddDate(0, 0, 5), 73.9)

	cases := []struct {
		name       string
		start, end time.Time
		want       float64
	}{
		{"consecutive days", day1, day2, -0.3},
		{"same day", day2, day2, 0},
		{"end between measurements", day1, day2.AddDate(0, 0, 3), -0.3},
		{"start between measurements", day2.AddDate(0, 0, 2), day2.AddDate(0, 0, 5), -0.6},
		{"time of day ignored", day1.Add(20 * time.Hour), day2.Add(time.Hour), -0.3},
	}
	a := NewAnalyzer(src)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := a.ChangeOverRange(context.Background(), 1, tc.start, tc.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.DeltaKG != tc.want {
				t.Errorf("delta = %v, want %v", c.DeltaKG, tc.want)
			}
		})
	}
}

func TestChangeOverRange_Errors(t *testing.T) {
	src := &fakeSource{userID: 1}
	src.add(day2, 74.5)
	a := NewAnalyzer(src)
	ctx := context.Background()

	if _, err := a.ChangeOverRange(ctx, 1, day1, day2); !apperr.IsInsufficientData(err) {
		t.Errorf("expected insufficient data before first measurement, got %v", err)
	}
	if _, err := a.ChangeOverRange(ctx, 1, day2, day1); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for reversed range, got %v", err)
	}
	if _, err := a.ChangeOverRange(ctx, 9, day1, day2); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

// TestChangeOverRange_OverStore runs the worked example through the entity store.
func TestChangeOverRange_OverStore(t *testing.T) {
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "weight-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close(conn) })
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	// The profile is created the day before day1, so its initial weight log
	// does not fall on either measured day.
	engine := metrics.NewEngine(config.DefaultNutrition(), func() time.Time { return day1.Add(-12 * time.Hour) })
	st := store.New(conn, engine)
	ctx := context.Background()

	u, err := st.CreateUser(ctx, &models.User{
		Username: "sam", BirthDate: time.Date(1991, 1, 15, 0, 0, 0, 0, time.UTC),
		Gender: models.GenderFemale, HeightCM: 165, WeightKG: 75,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, w := range []models.WeightLog{
		{UserID: u.ID, WeightKG: 74.8, LogDate: day1.Add(7 * time.Hour)},
		{UserID: u.ID, WeightKG: 74.5, LogDate: day2.Add(7 * time.Hour)},
	} {
		wl := w
		if _, err := st.CreateWeightLog(ctx, &wl); err != nil {
			t.Fatalf("create weight log: %v", err)
		}
	}

	a := NewAnalyzer(st)
	c, err := a.ChangeOverRange(ctx, u.ID, day1, day2)
	if err != nil {
		t.Fatalf("change over range: %v", err)
	}
	if c.DeltaKG != -0.3 {
		t.Errorf("delta = %v, want -0.3", c.DeltaKG)
	}

	h, err := a.History(ctx, u.ID, day1, time.Time{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(h) != 2 || h[1].DeltaKG == nil || *h[1].DeltaKG != -0.3 {
		t.Errorf("history = %+v, want day2 delta -0.3", h)
	}
}
