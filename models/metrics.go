package models

import "math"

// Energy density of the macronutrients, kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarbs   = 4
)

// Thresholds for the low-carb and high-protein flags, grams per 100 g.
const (
	LowCarbThreshold     = 10
	HighProteinThreshold = 20
)

// Metrics are the nutrition values derived from a product's macros.
type Metrics struct {
	// ProteinPerCalorie is grams of protein per 100 kcal, one decimal.
	ProteinPerCalorie float64
	// Share of the macro calories, in whole percent.
	ProteinRatio int
	FatRatio     int
	CarbsRatio   int

	IsLowCarb     bool
	IsHighProtein bool
}

// ComputeMetrics derives Metrics from per-100g values. A zero calorie value
// is replaced by 1 for the protein density only, and a zero macro-calorie sum
// by 1 for the ratios, so the result is always finite.
func ComputeMetrics(calories, protein, fat, carbs float64) Metrics {
	safeCalories := calories
	if safeCalories == 0 {
		safeCalories = 1
	}

	proteinKcal := protein * kcalPerGramProtein
	fatKcal := fat * kcalPerGramFat
	carbsKcal := carbs * kcalPerGramCarbs
	total := proteinKcal + fatKcal + carbsKcal
	if total == 0 {
		total = 1
	}

	return Metrics{
		ProteinPerCalorie: RoundTo(protein/safeCalories*100, 1),
		ProteinRatio:      int(RoundTo(proteinKcal/total*100, 0)),
		FatRatio:          int(RoundTo(fatKcal/total*100, 0)),
		CarbsRatio:        int(RoundTo(carbsKcal/total*100, 0)),
		IsLowCarb:         carbs < LowCarbThreshold,
		IsHighProtein:     protein > HighProteinThreshold,
	}
}

// RoundTo rounds half up (towards +Inf) to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(v*scale+0.5) / scale
}
