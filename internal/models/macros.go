// ABOUTME: MacroGoals model shared by targets, meals, and plans.
// ABOUTME: Provides arithmetic helpers for summing and scaling macro sets.
package models

// MacroGoals is a calorie and macronutrient set. Used both as a target and
// as the actual content of a meal or plan.
type MacroGoals struct {
	Kcal     float64 `json:"kcal" yaml:"kcal"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	FatG     float64 `json:"fat_g" yaml:"fat_g"`
}

// Add returns the element-wise sum of m and o.
func (m MacroGoals) Add(o MacroGoals) MacroGoals {
	return MacroGoals{
		Kcal:     m.Kcal + o.Kcal,
		ProteinG: m.ProteinG + o.ProteinG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FatG:     m.FatG + o.FatG,
	}
}

// MacroKcal returns the calories implied by the macro grams (4/4/9).
func (m MacroGoals) MacroKcal() float64 {
	return m.ProteinG*4 + m.CarbsG*4 + m.FatG*9
}

// IsZero reports whether every field is zero.
func (m MacroGoals) IsZero() bool {
	return m.Kcal == 0 && m.ProteinG == 0 && m.CarbsG == 0 && m.FatG == 0
}

// SumMacros adds up the macros of every meal.
func SumMacros(meals []GeneratedMeal) MacroGoals {
	var total MacroGoals
	for _, meal := range meals {
		total = total.Add(meal.Macros)
	}
	return total
}
