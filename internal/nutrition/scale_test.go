package nutrition

import (
	"errors"
	"math"
	"testing"

	"lg/calorie-tracker/internal/apperr"
)

func ptr(v float64) *float64 { return &v }

// oats is a per-100g profile with every optional nutrient tracked.
func oats() Profile {
	return Profile{
		ServingSizeG: 100,
		Calories:     389,
		ProteinG:     16.9,
		CarbsG:       66.3,
		FatG:         6.9,
		FiberG:       ptr(10.6),
		SugarG:       ptr(0),
		SodiumMg:     ptr(2),
	}
}

func TestScale_KnownServing(t *testing.T) {
	got, err := Scale(oats(), 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != 156 { // 389 * 0.4 = 155.6
		t.Errorf("calories = %d, want 156", got.Calories)
	}
	if got.ProteinG != 6.8 { // 6.76
		t.Errorf("protein = %v, want 6.8", got.ProteinG)
	}
	if got.CarbsG != 26.5 { // 26.52
		t.Errorf("carbs = %v, want 26.5", got.CarbsG)
	}
	if got.FatG != 2.8 { // 2.76
		t.Errorf("fat = %v, want 2.8", got.FatG)
	}
	if got.FiberG == nil || *got.FiberG != 4.2 {
		t.Errorf("fiber = %v, want 4.2", got.FiberG)
	}
	if got.SugarG == nil || *got.SugarG != 0 {
		t.Errorf("sugar tracked as zero must stay present, got %v", got.SugarG)
	}
	if got.SodiumMg == nil || *got.SodiumMg != 1 { // 0.8 rounds to whole mg
		t.Errorf("sodium = %v, want 1", got.SodiumMg)
	}
}

func TestScale_AbsentOptionalStaysAbsent(t *testing.T) {
	p := Profile{ServingSizeG: 100, Calories: 52, ProteinG: 0.3, CarbsG: 14, FatG: 0.2}
	got, err := Scale(p, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FiberG != nil || got.SugarG != nil || got.SodiumMg != nil {
		t.Errorf("expected absent optional nutrients, got %+v", got)
	}
}

func TestScale_NonPositiveServingFails(t *testing.T) {
	for _, w := range []float64{0, -10, math.NaN()} {
		_, err := Scale(oats(), w)
		if !errors.Is(err, apperr.ErrInvalidServing) {
			t.Errorf("Scale(%v): expected ErrInvalidServing, got %v", w, err)
		}
		if !apperr.IsValidation(err) {
			t.Errorf("Scale(%v): expected ValidationError, got %T", w, err)
		}
	}
}

// TestScale_CaloriesMatchFormula checks calories == round(p.calories * w / p.serving)
// across a spread of serving weights and reference sizes.
func TestScale_CaloriesMatchFormula(t *testing.T) {
	profiles := []Profile{
		oats(),
		{ServingSizeG: 30, Calories: 120, ProteinG: 3, CarbsG: 20, FatG: 4},
		{ServingSizeG: 250, Calories: 610, ProteinG: 8.2, CarbsG: 12.4, FatG: 8},
	}
	for _, p := range profiles {
		for _, w := range []float64{1, 12.5, 33, 100, 137.4, 250, 1000} {
			got, err := Scale(p, w)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := int(math.Round(p.Calories * w / p.ServingSizeG))
			if got.Calories != want {
				t.Errorf("Scale(serving=%v, w=%v).Calories = %d, want %d", p.ServingSizeG, w, got.Calories, want)
			}
		}
	}
}

// TestScale_Linear checks scale(p, 2w) == 2*scale(p, w) within rounding tolerance.
func TestScale_Linear(t *testing.T) {
	p := oats()
	for _, w := range []float64{5, 40, 77.7, 180} {
		single, _ := Scale(p, w)
		double, _ := Scale(p, 2*w)

		if diff := math.Abs(float64(double.Calories - 2*single.Calories)); diff > 1 {
			t.Errorf("w=%v: calories %d vs 2*%d", w, double.Calories, single.Calories)
		}
		for name, pair := range map[string][2]float64{
			"protein": {double.ProteinG, single.ProteinG},
			"carbs":   {double.CarbsG, single.CarbsG},
			"fat":     {double.FatG, single.FatG},
			"fiber":   {*double.FiberG, *single.FiberG},
		} {
			if diff := math.Abs(pair[0] - 2*pair[1]); diff > 0.1+1e-9 {
				t.Errorf("w=%v: %s %v vs 2*%v", w, name, pair[0], pair[1])
			}
		}
	}
}

func TestNutrientSet_AddPropagatesPresence(t *testing.T) {
	a := NutrientSet{Calories: 100, ProteinG: 1.1, FiberG: ptr(2.5)}
	b := NutrientSet{Calories: 50, ProteinG: 2.2, SodiumMg: ptr(40)}

	sum := a.Add(b)
	if sum.Calories != 150 || sum.ProteinG != 3.3 {
		t.Errorf("unexpected sum %+v", sum)
	}
	if sum.FiberG == nil || *sum.FiberG != 2.5 {
		t.Errorf("fiber = %v, want 2.5", sum.FiberG)
	}
	if sum.SodiumMg == nil || *sum.SodiumMg != 40 {
		t.Errorf("sodium = %v, want 40", sum.SodiumMg)
	}
	if sum.SugarG != nil {
		t.Errorf("sugar absent in both operands must stay absent, got %v", *sum.SugarG)
	}

	// The sum must not alias the operands' pointers.
	*sum.FiberG = 99
	if *a.FiberG != 2.5 {
		t.Errorf("Add aliased operand fiber pointer")
	}
}
