package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteText renders r as a plain-text report.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder
	name := r.User.Username
	if full := strings.TrimSpace(r.User.FirstName + " " + r.User.LastName); full != "" {
		name = fmt.Sprintf("%s (%s)", full, r.User.Username)
	}
	fmt.Fprintf(&b, "Nutrition report for %s\n", name)
	fmt.Fprintf(&b, "%s to %s (%d days)\n\n", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), r.Days)

	b.WriteString("CALORIE GOAL\n")
	if r.Goal.Available {
		fmt.Fprintf(&b, "  Daily goal: %d kcal (%s)\n", r.Goal.DailyCalorieGoal, r.Goal.WeightGoal)
		fmt.Fprintf(&b, "  BMR: %.0f kcal  TDEE: %.0f kcal\n", r.Goal.BMR, r.Goal.TDEE)
		if r.Goal.Floored {
			b.WriteString("  Goal raised to the safety floor\n")
		}
	} else {
		fmt.Fprintf(&b, "  %s\n", r.Goal.Message)
	}

	b.WriteString("\nFOOD LOG\n")
	if !r.Log.HasData {
		fmt.Fprintf(&b, "  %s\n", r.Log.Message)
	} else {
		s := r.Log.Summary
		fmt.Fprintf(&b, "  Days with logs: %d out of %d\n", s.DaysLogged, s.TotalDays)
		fmt.Fprintf(&b, "  Average daily calories: %.0f (%.1f%% of goal)\n", s.AvgCalories, s.GoalPercent)
		fmt.Fprintf(&b, "  Protein: %.1fg (%.1f%%)  Carbs: %.1fg (%.1f%%)  Fat: %.1fg (%.1f%%)\n",
			s.AvgProteinG, s.MacroPercent.Protein,
			s.AvgCarbsG, s.MacroPercent.Carbs,
			s.AvgFatG, s.MacroPercent.Fat)
		if s.Trend != "" {
			fmt.Fprintf(&b, "  Recent trend: %s\n", s.Trend)
		}
		if s.OrphanedLogs > 0 {
			fmt.Fprintf(&b, "  %d log(s) reference deleted foods and were counted as zero\n", s.OrphanedLogs)
		}
	}

	b.WriteString("\nWEIGHT\n")
	if r.Weight.Message != "" {
		fmt.Fprintf(&b, "  %s\n", r.Weight.Message)
	}
	if r.Weight.ChangeKG != nil {
		fmt.Fprintf(&b, "  %.1f kg -> %.1f kg: %s\n", *r.Weight.StartKG, *r.Weight.EndKG, r.Weight.ChangeText)
	}
	fmt.Fprintf(&b, "  Current: %.1f kg\n", r.Weight.CurrentKG)
	if r.Weight.TargetKG != nil {
		fmt.Fprintf(&b, "  Target: %.1f kg (%s)\n", *r.Weight.TargetKG, r.Weight.TargetText)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if !r.Log.HasData {
		return nil
	}

	if _, err := io.WriteString(w, "\nDAILY BREAKDOWN\n"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tCalories\tProtein\tCarbs\tFat\t% Goal\tLogs\t")
	for _, d := range r.Log.Summary.Days {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t\n",
			d.Date.Format(time.DateOnly), d.Totals.Calories,
			d.Totals.ProteinG, d.Totals.CarbsG, d.Totals.FatG,
			d.GoalPercent, d.Logs)
	}
	return tw.Flush()
}
