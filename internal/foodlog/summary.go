package foodlog

import (
	"context"
	"math"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/nutrition"
	"lg/calorie-tracker/internal/store"
)

// Trend describes calorie intake over the last three logged days.
type Trend string

const (
	TrendNone       Trend = ""
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

const (
	trendWindow        = 3
	trendStableKcalMax = 50
)

// MaxSummaryDays bounds the inclusive length of a summary range.
const MaxSummaryDays = 3660

// dayNumber counts UTC calendar days since the Unix epoch.
func dayNumber(t time.Time) int64 {
	return store.DayStart(t).Unix() / 86400
}

// DaySummary is one calendar day of a range summary.
type DaySummary struct {
	Date        time.Time             `json:"date"`
	Logs        int                   `json:"logs"`
	Totals      nutrition.NutrientSet `json:"totals"`
	GoalPercent float64               `json:"goal_percent"`
}

// MacroSplit is each macro's share of average calories, in percent.
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Summary aggregates food logs over an inclusive range of days. Averages are
// taken over logged days only; a day without logs is not a zero-calorie day.
type Summary struct {
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	TotalDays    int          `json:"total_days"`
	DaysLogged   int          `json:"days_logged"`
	HasData      bool         `json:"has_data"`
	AvgCalories  float64      `json:"avg_calories"`
	AvgProteinG  float64      `json:"avg_protein_g"`
	AvgCarbsG    float64      `json:"avg_carbs_g"`
	AvgFatG      float64      `json:"avg_fat_g"`
	MacroPercent MacroSplit   `json:"macro_percent"`
	CalorieGoal  int          `json:"calorie_goal"`
	GoalPercent  float64      `json:"goal_percent"`
	Trend        Trend        `json:"trend,omitempty"`
	OrphanedLogs int          `json:"orphaned_logs"`
	Days         []DaySummary `json:"days"`
}

// Summary summarizes the user's logs from the UTC day of start through the UTC
// day of end, both inclusive. An empty range yields HasData=false, not an error.
// Ranges longer than MaxSummaryDays are rejected.
func (a *Aggregator) Summary(ctx context.Context, userID uint64, start, end time.Time) (*Summary, error) {
	first, last := store.DayStart(start), store.DayStart(end)
	if last.Before(first) {
		return nil, apperr.Invalid("end", "must not be before start")
	}
	firstDay := dayNumber(first)
	span := dayNumber(last) - firstDay + 1
	if span > MaxSummaryDays {
		return nil, apperr.Invalid("start", "range must not exceed %d days", MaxSummaryDays)
	}
	totalDays := int(span)
	u, err := a.src.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := a.entries(ctx, userID, first, store.DayEnd(last))
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Start:       first,
		End:         last,
		TotalDays:   totalDays,
		CalorieGoal: u.DailyCalorieGoal,
		Days:        make([]DaySummary, totalDays),
	}
	for i := range out.Days {
		out.Days[i].Date = first.AddDate(0, 0, i)
	}
	for _, e := range entries {
		idx := int(dayNumber(e.Log.LogDate) - firstDay)
		if idx < 0 || idx >= totalDays {
			continue
		}
		d := &out.Days[idx]
		d.Logs++
		d.Totals = d.Totals.Add(e.Nutrients)
		if e.Orphaned {
			out.OrphanedLogs++
		}
	}

	var sumKcal, sumProtein, sumCarbs, sumFat float64
	logged := make([]DaySummary, 0, totalDays)
	for i := range out.Days {
		d := &out.Days[i]
		d.GoalPercent = goalPercent(float64(d.Totals.Calories), u.DailyCalorieGoal)
		if d.Logs == 0 {
			continue
		}
		logged = append(logged, *d)
		sumKcal += float64(d.Totals.Calories)
		sumProtein += d.Totals.ProteinG
		sumCarbs += d.Totals.CarbsG
		sumFat += d.Totals.FatG
	}

	out.DaysLogged = len(logged)
	out.HasData = out.DaysLogged > 0
	if !out.HasData {
		return out, nil
	}

	n := float64(out.DaysLogged)
	out.AvgCalories = sumKcal / n
	out.AvgProteinG = sumProtein / n
	out.AvgCarbsG = sumCarbs / n
	out.AvgFatG = sumFat / n
	if out.AvgCalories > 0 {
		out.MacroPercent = MacroSplit{
			Protein: out.AvgProteinG * a.cfg.ProteinKcalPerG / out.AvgCalories * 100,
			Carbs:   out.AvgCarbsG * a.cfg.CarbsKcalPerG / out.AvgCalories * 100,
			Fat:     out.AvgFatG * a.cfg.FatKcalPerG / out.AvgCalories * 100,
		}
	}
	out.GoalPercent = goalPercent(out.AvgCalories, u.DailyCalorieGoal)
	out.Trend = trend(logged)
	return out, nil
}

// trend compares the first and last of the final three logged days.
func trend(logged []DaySummary) Trend {
	if len(logged) < trendWindow {
		return TrendNone
	}
	recent := logged[len(logged)-trendWindow:]
	delta := recent[trendWindow-1].Totals.Calories - recent[0].Totals.Calories
	switch {
	case math.Abs(float64(delta)) < trendStableKcalMax:
		return TrendStable
	case delta > 0:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}
