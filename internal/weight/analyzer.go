// Package weight computes weight deltas between measurements and over date ranges.
//
// Measurements are ordered by calendar day, then by creation. When a day has
// several entries, the most recently created one is the weight for that day.
package weight

import (
	"context"
	"math"
	"time"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
)

// Source is the slice of the entity store the analyzer reads from.
type Source interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
	ListWeightLogs(ctx context.Context, userID uint64, from, to time.Time) ([]models.WeightLog, error)
}

// Analyzer derives weight history and range changes.
type Analyzer struct {
	src Source
}

// NewAnalyzer builds an Analyzer.
func NewAnalyzer(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// Entry is a measurement annotated with the change since the previous one.
// DeltaKG is nil for a user's first measurement.
type Entry struct {
	models.WeightLog
	DeltaKG *float64 `json:"delta_kg,omitempty"`
}

// Change is the weight difference between two days. Negative means loss.
type Change struct {
	From    models.WeightLog `json:"from"`
	To      models.WeightLog `json:"to"`
	DeltaKG float64          `json:"delta_kg"`
}

// History returns the user's measurements in [from, to) oldest first, each with
// its delta from the preceding measurement. Zero bounds are open. The first
// entry in a window is compared with the measurement before the window.
func (a *Analyzer) History(ctx context.Context, userID uint64, from, to time.Time) ([]Entry, error) {
	if _, err := a.src.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	logs, err := a.src.ListWeightLogs(ctx, userID, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(logs))
	for i, l := range logs {
		e := Entry{WeightLog: l}
		if i > 0 {
			d := Round2(l.WeightKG - logs[i-1].WeightKG)
			e.DeltaKG = &d
		}
		if !from.IsZero() && l.LogDate.Before(from) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ChangeOverRange returns the weight at or nearest before end minus the weight
// at or nearest before start, comparing whole UTC days. It fails with an
// InsufficientDataError when there is no measurement on or before start.
func (a *Analyzer) ChangeOverRange(ctx context.Context, userID uint64, start, end time.Time) (*Change, error) {
	first, last := store.DayStart(start), store.DayStart(end)
	if last.Before(first) {
		return nil, apperr.Invalid("end", "must not be before start")
	}
	if _, err := a.src.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	logs, err := a.src.ListWeightLogs(ctx, userID, time.Time{}, store.DayEnd(last))
	if err != nil {
		return nil, err
	}

	from, ok := weightAsOf(logs, first)
	if !ok {
		return nil, apperr.Insufficient("no weight measurement on or before %s", first.Format(time.DateOnly))
	}
	to, _ := weightAsOf(logs, last)
	return &Change{
		From:    from,
		To:      to,
		DeltaKG: Round2(to.WeightKG - from.WeightKG),
	}, nil
}

// weightAsOf returns the last measurement on or before day. logs must be in
// (log_date, id) order.
func weightAsOf(logs []models.WeightLog, day time.Time) (models.WeightLog, bool) {
	bound := store.DayEnd(day)
	var found models.WeightLog
	ok := false
	for _, l := range logs {
		if !l.LogDate.Before(bound) {
			break
		}
		found, ok = l, true
	}
	return found, ok
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
