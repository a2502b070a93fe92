// Package report assembles goal, food log and weight summaries for a trailing
// window of days. Missing data is reported as an explicit empty state rather
// than an error, since a new user legitimately has no history.
package report

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/foodlog"
	"lg/calorie-tracker/internal/metrics"
	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
	"lg/calorie-tracker/internal/weight"
)

const (
	noChangeThresholdKG = 0.01
	targetReachedKG     = 0.5
)

// UserSource loads the user a report is built for.
type UserSource interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// Composer builds reports from the metrics engine, log aggregator and weight analyzer.
type Composer struct {
	users   UserSource
	logs    *foodlog.Aggregator
	weights *weight.Analyzer
	engine  *metrics.Engine
}

// NewComposer wires a Composer. The engine's clock defines "today".
func NewComposer(users UserSource, logs *foodlog.Aggregator, weights *weight.Analyzer, engine *metrics.Engine) *Composer {
	return &Composer{users: users, logs: logs, weights: weights, engine: engine}
}

// UserInfo identifies the report subject.
type UserInfo struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// GoalSummary is the current calorie goal and the metrics behind it.
type GoalSummary struct {
	Available           bool              `json:"available"`
	Message             string            `json:"message,omitempty"`
	DailyCalorieGoal    int               `json:"daily_calorie_goal"`
	Age                 int               `json:"age"`
	BMR                 float64           `json:"bmr"`
	TDEE                float64           `json:"tdee"`
	Floored             bool              `json:"floored"`
	WeightGoal          models.WeightGoal `json:"weight_goal"`
	TargetRateKgPerWeek float64           `json:"target_rate_kg_per_week"`
}

// LogSummary wraps the food log range summary with an empty-state message.
type LogSummary struct {
	HasData bool             `json:"has_data"`
	Message string           `json:"message,omitempty"`
	Summary *foodlog.Summary `json:"summary"`
}

// WeightSummary describes weight over the window and progress toward the target.
type WeightSummary struct {
	HasData            bool           `json:"has_data"`
	Message            string         `json:"message,omitempty"`
	Entries            []weight.Entry `json:"entries"`
	StartKG            *float64       `json:"start_kg,omitempty"`
	EndKG              *float64       `json:"end_kg,omitempty"`
	ChangeKG           *float64       `json:"change_kg,omitempty"`
	ChangeText         string         `json:"change_text,omitempty"`
	CurrentKG          float64        `json:"current_kg"`
	TargetKG           *float64       `json:"target_kg,omitempty"`
	DistanceToTargetKG *float64       `json:"distance_to_target_kg,omitempty"`
	TargetReached      bool           `json:"target_reached"`
	TargetText         string         `json:"target_text,omitempty"`
}

// Report is the composed output for external renderers.
type Report struct {
	User        UserInfo      `json:"user"`
	Days        int           `json:"days"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	GeneratedAt time.Time     `json:"generated_at"`
	Goal        GoalSummary   `json:"goal_summary"`
	Log         LogSummary    `json:"log_summary"`
	Weight      WeightSummary `json:"weight_summary"`
}

// BuildReport composes a report for the trailing days ending today, inclusive.
func (c *Composer) BuildReport(ctx context.Context, userID uint64, days int) (*Report, error) {
	if days <= 0 {
		return nil, apperr.Invalid("days", "must be greater than zero")
	}
	if days > foodlog.MaxSummaryDays {
		return nil, apperr.Invalid("days", "must be at most %d", foodlog.MaxSummaryDays)
	}
	u, err := c.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := c.engine.Now().UTC()
	end := store.DayStart(now)
	start := end.AddDate(0, 0, -(days - 1))

	r := &Report{
		User:        UserInfo{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName},
		Days:        days,
		Start:       start,
		End:         end,
		GeneratedAt: now,
		Goal:        c.goalSummary(u),
	}

	r.Log, err = c.logSummary(ctx, u.ID, start, end, days)
	if err != nil {
		return nil, err
	}
	r.Weight, err = c.weightSummary(ctx, u, start, end)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Composer) goalSummary(u *models.User) GoalSummary {
	g := GoalSummary{
		DailyCalorieGoal:    u.DailyCalorieGoal,
		WeightGoal:          u.WeightGoal,
		TargetRateKgPerWeek: u.TargetRateKgPerWeek,
	}
	res, err := c.engine.Compute(u)
	if err != nil {
		log.WithError(err).WithField("user_id", u.ID).Warn("report: goal metrics unavailable")
		g.Message = "Calorie goal cannot be computed from the current profile"
		return g
	}
	g.Available = true
	g.Age = res.Age
	g.BMR = res.BMR
	g.TDEE = res.TDEE
	g.Floored = res.Floored
	return g
}

func (c *Composer) logSummary(ctx context.Context, userID uint64, start, end time.Time, days int) (LogSummary, error) {
	s, err := c.logs.Summary(ctx, userID, start, end)
	if err != nil {
		return LogSummary{}, err
	}
	out := LogSummary{HasData: s.HasData, Summary: s}
	if !s.HasData {
		out.Message = fmt.Sprintf("No food logs in the last %d days", days)
	}
	return out, nil
}

func (c *Composer) weightSummary(ctx context.Context, u *models.User, start, end time.Time) (WeightSummary, error) {
	entries, err := c.weights.History(ctx, u.ID, start, store.DayEnd(end))
	if err != nil {
		return WeightSummary{}, err
	}
	out := WeightSummary{
		Entries:   entries,
		HasData:   len(entries) > 0,
		CurrentKG: u.WeightKG,
		TargetKG:  u.TargetWeightKG,
	}

	change, errChange := c.weights.ChangeOverRange(ctx, u.ID, start, end)
	switch {
	case errChange == nil:
		out.StartKG, out.EndKG = floatPtr(change.From.WeightKG), floatPtr(change.To.WeightKG)
		out.ChangeKG = floatPtr(change.DeltaKG)
	case apperr.IsInsufficientData(errChange):
		// Nothing before the window: fall back to the first and last entries inside it.
		if len(entries) >= 2 {
			first, last := entries[0].WeightKG, entries[len(entries)-1].WeightKG
			out.StartKG, out.EndKG = floatPtr(first), floatPtr(last)
			out.ChangeKG = floatPtr(weight.Round2(last - first))
		}
	default:
		return WeightSummary{}, errChange
	}

	if out.ChangeKG != nil {
		out.ChangeText = DescribeWeightChange(*out.ChangeKG)
	} else {
		out.Message = "Not enough weight measurements to compute a change"
	}
	if !out.HasData {
		out.Message = "No weight measurements in this period"
	}

	if u.TargetWeightKG != nil {
		dist := weight.Round2(u.WeightKG - *u.TargetWeightKG)
		out.DistanceToTargetKG = &dist
		out.TargetReached = math.Abs(dist) < targetReachedKG
		out.TargetText = DescribeTargetDistance(dist)
	}
	return out, nil
}

// DescribeWeightChange renders a signed delta: negative is a loss.
func DescribeWeightChange(deltaKG float64) string {
	switch {
	case math.Abs(deltaKG) < noChangeThresholdKG:
		return "No change"
	case deltaKG < 0:
		return fmt.Sprintf("Lost %.1f kg", -deltaKG)
	default:
		return fmt.Sprintf("Gained %.1f kg", deltaKG)
	}
}

// DescribeTargetDistance renders current minus target weight.
func DescribeTargetDistance(distKG float64) string {
	if math.Abs(distKG) < targetReachedKG {
		return "Target weight reached"
	}
	if distKG > 0 {
		return fmt.Sprintf("%.1f kg above target", distKG)
	}
	return fmt.Sprintf("%.1f kg below target", -distKG)
}

func floatPtr(v float64) *float64 { return &v }
