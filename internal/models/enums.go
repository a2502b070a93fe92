package models

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	// GenderOther uses the mean of the male and female equations.
	GenderOther Gender = "other"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// WeightGoal is the direction of the user's weight target.
type WeightGoal string

const (
	WeightGoalLose     WeightGoal = "lose"
	WeightGoalMaintain WeightGoal = "maintain"
	WeightGoalGain     WeightGoal = "gain"
)

// Valid reports whether w is a known weight goal.
func (w WeightGoal) Valid() bool {
	switch w {
	case WeightGoalLose, WeightGoalMaintain, WeightGoalGain:
		return true
	}
	return false
}

// MealType groups food log entries.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther}

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	return m.Rank() >= 0
}

// Rank is m's position in display order, or -1 for unknown values.
func (m MealType) Rank() int {
	for i, t := range MealTypes {
		if t == m {
			return i
		}
	}
	return -1
}
