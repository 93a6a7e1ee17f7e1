package query

import (
	"strings"

	"github.com/hryucha/protein-catalog/models"
)

// FilterProducts returns the products that satisfy every predicate of the
// state, in input order. The input slice is not modified.
func FilterProducts(products []models.Product, state models.FilterState) []models.Product {
	m := newMatcher(state)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Apply filters and then sorts by the state's sort field and order.
func Apply(products []models.Product, state models.FilterState) []models.Product {
	return SortProducts(FilterProducts(products, state), state.SortBy, state.SortOrder)
}

type matcher struct {
	state    models.FilterState
	search   string
	defaults models.FilterState
}

func newMatcher(state models.FilterState) matcher {
	return matcher{
		state:    state,
		search:   strings.ToLower(state.Search),
		defaults: models.DefaultFilterState(),
	}
}

func (m matcher) match(p models.Product) bool {
	s := m.state

	if m.search != "" && !strings.Contains(strings.ToLower(p.Name), m.search) {
		return false
	}
	if len(s.Tags) > 0 && !s.HasTag(p.Tag) {
		return false
	}
	if !inRange(p.Calories, s.CaloriesRange, m.defaults.CaloriesRange) ||
		!inRange(p.Protein, s.ProteinRange, m.defaults.ProteinRange) ||
		!inRange(p.Fat, s.FatRange, m.defaults.FatRange) ||
		!inRange(p.Carbs, s.CarbsRange, m.defaults.CarbsRange) {
		return false
	}
	if s.ProteinPerCalorieMin > 0 && p.ProteinPerCalorie < s.ProteinPerCalorieMin {
		return false
	}
	if s.IsLowCarb && !p.IsLowCarb {
		return false
	}
	if s.IsHighProtein && !p.IsHighProtein {
		return false
	}
	if s.LabTestedOnly && !p.LabTested {
		return false
	}
	return true
}

// inRange checks v against r inclusively. An upper bound sitting exactly at
// the default ceiling is the top of the slider and means "and above".
func inRange(v float64, r, def models.Range) bool {
	if v < r.Min {
		return false
	}
	if r.Max == def.Max {
		return true
	}
	return v <= r.Max
}
