// Package nutrition scales a food's stored nutrient profile to a consumed serving.
package nutrition

import (
	"math"

	"lg/calorie-tracker/internal/apperr"
)

// Profile is a food's nutrient values for ServingSizeG grams.
// Optional nutrients are nil when not tracked, which is distinct from tracked as zero.
type Profile struct {
	ServingSizeG float64
	Calories     float64
	ProteinG     float64
	CarbsG       float64
	FatG         float64
	FiberG       *float64
	SugarG       *float64
	SodiumMg     *float64
}

// NutrientSet is a scaled (or summed) set of nutrients. Calories are whole kcal,
// gram macros carry one decimal and sodium whole milligrams.
type NutrientSet struct {
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	SodiumMg *float64 `json:"sodium_mg,omitempty"`
}

// Scale computes the nutrients of servingWeightG grams of p.
// Returns a ValidationError wrapping apperr.ErrInvalidServing when either the
// requested weight or the profile's reference serving is not positive.
func Scale(p Profile, servingWeightG float64) (NutrientSet, error) {
	if servingWeightG <= 0 || math.IsNaN(servingWeightG) || math.IsInf(servingWeightG, 0) {
		return NutrientSet{}, &apperr.ValidationError{Field: "serving_size_g", Message: "must be greater than zero", Err: apperr.ErrInvalidServing}
	}
	if p.ServingSizeG <= 0 {
		return NutrientSet{}, &apperr.ValidationError{Field: "food.serving_size_g", Message: "must be greater than zero", Err: apperr.ErrInvalidServing}
	}

	m := servingWeightG / p.ServingSizeG
	return NutrientSet{
		Calories: int(math.Round(p.Calories * m)),
		ProteinG: Round1(p.ProteinG * m),
		CarbsG:   Round1(p.CarbsG * m),
		FatG:     Round1(p.FatG * m),
		FiberG:   scaleOptional(p.FiberG, m, Round1),
		SugarG:   scaleOptional(p.SugarG, m, Round1),
		SodiumMg: scaleOptional(p.SodiumMg, m, math.Round),
	}, nil
}

// Add returns the sum of s and o. An optional nutrient is present in the sum
// when it is present in either operand.
func (s NutrientSet) Add(o NutrientSet) NutrientSet {
	return NutrientSet{
		Calories: s.Calories + o.Calories,
		ProteinG: Round1(s.ProteinG + o.ProteinG),
		CarbsG:   Round1(s.CarbsG + o.CarbsG),
		FatG:     Round1(s.FatG + o.FatG),
		FiberG:   addOptional(s.FiberG, o.FiberG, Round1),
		SugarG:   addOptional(s.SugarG, o.SugarG, Round1),
		SodiumMg: addOptional(s.SodiumMg, o.SodiumMg, math.Round),
	}
}

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func scaleOptional(v *float64, m float64, round func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := round(*v * m)
	return &scaled
}

func addOptional(a, b *float64, round func(float64) float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	}
	sum := round(*a + *b)
	return &sum
}
