// Package foodlog groups food logs by meal and summarizes them over date ranges.
//
// Nutrients are derived on read by scaling each log's food. A log whose food
// no longer exists is flagged as orphaned and contributes nothing; aggregation
// never fails because of a single bad log.
package foodlog

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/nutrition"
	"lg/calorie-tracker/internal/store"
)

// Source is the slice of the entity store the aggregator reads from.
type Source interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
	ListFoodLogs(ctx context.Context, userID uint64, start, end time.Time) ([]models.FoodLog, error)
	FoodsByID(ctx context.Context, ids []uint64) (map[uint64]models.Food, error)
}

// Aggregator derives daily and range nutrition totals.
type Aggregator struct {
	src Source
	cfg config.Nutrition
}

// NewAggregator builds an Aggregator. cfg supplies the macro caloric densities.
func NewAggregator(src Source, cfg config.Nutrition) *Aggregator {
	return &Aggregator{src: src, cfg: cfg}
}

// Entry is one food log with its derived nutrients.
type Entry struct {
	Log       models.FoodLog        `json:"log"`
	FoodName  string                `json:"food_name,omitempty"`
	Brand     *string               `json:"brand,omitempty"`
	Nutrients nutrition.NutrientSet `json:"nutrients"`
	Orphaned  bool                  `json:"orphaned"`
}

// MealGroup is the entries of one meal type.
type MealGroup struct {
	MealType models.MealType       `json:"meal_type"`
	Entries  []Entry               `json:"entries"`
	Totals   nutrition.NutrientSet `json:"totals"`
}

// DayLog is a day's food logs grouped by meal in display order. Only meals
// with at least one entry are present.
type DayLog struct {
	Date         time.Time             `json:"date"`
	Meals        []MealGroup           `json:"meals"`
	Totals       nutrition.NutrientSet `json:"totals"`
	CalorieGoal  int                   `json:"calorie_goal"`
	GoalPercent  float64               `json:"goal_percent"`
	OrphanedLogs int                   `json:"orphaned_logs"`
}

// LogsForDate returns the user's logs for the UTC day containing date. A
// non-empty meal restricts the result to that meal type.
func (a *Aggregator) LogsForDate(ctx context.Context, userID uint64, date time.Time, meal models.MealType) (*DayLog, error) {
	if meal != "" && !meal.Valid() {
		return nil, apperr.Invalid("meal_type", "must be one of: breakfast, lunch, dinner, snack, other")
	}
	u, err := a.src.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := store.DayStart(date)
	entries, err := a.entries(ctx, userID, day, store.DayEnd(day))
	if err != nil {
		return nil, err
	}

	out := &DayLog{Date: day, Meals: []MealGroup{}, CalorieGoal: u.DailyCalorieGoal}
	groups := make(map[models.MealType]*MealGroup, len(models.MealTypes))
	for _, e := range entries {
		if meal != "" && e.Log.MealType != meal {
			continue
		}
		g, ok := groups[e.Log.MealType]
		if !ok {
			g = &MealGroup{MealType: e.Log.MealType}
			groups[e.Log.MealType] = g
		}
		g.Entries = append(g.Entries, e)
		g.Totals = g.Totals.Add(e.Nutrients)
		out.Totals = out.Totals.Add(e.Nutrients)
		if e.Orphaned {
			out.OrphanedLogs++
		}
	}
	for _, m := range models.MealTypes {
		if g, ok := groups[m]; ok {
			out.Meals = append(out.Meals, *g)
		}
	}
	out.GoalPercent = goalPercent(float64(out.Totals.Calories), u.DailyCalorieGoal)
	return out, nil
}

// entries loads logs in [start, end) and derives their nutrients, oldest first.
func (a *Aggregator) entries(ctx context.Context, userID uint64, start, end time.Time) ([]Entry, error) {
	logs, err := a.src.ListFoodLogs(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.FoodID)
	}
	foods, err := a.src.FoodsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, derive(l, foods))
	}
	return entries, nil
}

// derive scales a log's food. Missing foods and unscalable profiles yield a
// zero contribution and a warning instead of an error.
func derive(l models.FoodLog, foods map[uint64]models.Food) Entry {
	f, ok := foods[l.FoodID]
	if !ok {
		errOrphan := &apperr.OrphanedReferenceError{FoodLogID: l.ID, FoodID: l.FoodID}
		log.WithError(errOrphan).Warn("foodlog: orphaned log contributes zero")
		return Entry{Log: l, Orphaned: true}
	}

	e := Entry{Log: l, FoodName: f.Name, Brand: f.Brand}
	scaled, errScale := nutrition.Scale(f.Profile(), l.ServingSizeG)
	if errScale != nil {
		log.WithFields(log.Fields{"food_log_id": l.ID, "food_id": l.FoodID}).
			WithError(errScale).Warn("foodlog: unscalable log contributes zero")
		return e
	}
	e.Nutrients = scaled
	return e
}

func goalPercent(calories float64, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return calories / float64(goal) * 100
}
