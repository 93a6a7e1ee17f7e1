package query

import "github.com/hryucha/protein-catalog/models"

// Stats summarizes a filtered result set.
type Stats struct {
	Total                int     `json:"total"`
	Filtered             int     `json:"filtered"`
	AvgCalories          float64 `json:"avgCalories"`
	AvgProtein           float64 `json:"avgProtein"`
	AvgFat               float64 `json:"avgFat"`
	AvgCarbs             float64 `json:"avgCarbs"`
	AvgProteinPerCalorie float64 `json:"avgProteinPerCalorie"`
}

// ComputeStats averages the macros of filtered. Calories are rounded to a
// whole number, everything else to one decimal.
func ComputeStats(totalCount int, filtered []models.Product) Stats {
	stats := Stats{Total: totalCount, Filtered: len(filtered)}
	if len(filtered) == 0 {
		return stats
	}

	var calories, protein, fat, carbs, ppc float64
	for _, p := range filtered {
		calories += p.Calories
		protein += p.Protein
		fat += p.Fat
		carbs += p.Carbs
		ppc += p.ProteinPerCalorie
	}

	n := float64(len(filtered))
	stats.AvgCalories = models.RoundTo(calories/n, 0)
	stats.AvgProtein = models.RoundTo(protein/n, 1)
	stats.AvgFat = models.RoundTo(fat/n, 1)
	stats.AvgCarbs = models.RoundTo(carbs/n, 1)
	stats.AvgProteinPerCalorie = models.RoundTo(ppc/n, 1)
	return stats
}
