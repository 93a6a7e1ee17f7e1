package query

import (
	"cmp"
	"slices"

	"github.com/hryucha/protein-catalog/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortProducts returns a sorted copy of products. The sort is stable, so
// products with equal keys keep their input order in both directions. When
// sorting by price, products without a price always come last.
func SortProducts(products []models.Product, by models.SortField, order models.SortOrder) []models.Product {
	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []models.Product{}
	}

	compare := comparator(by)
	sign := 1
	if order == models.SortDesc {
		sign = -1
	}

	slices.SortStableFunc(sorted, func(a, b models.Product) int {
		if by == models.SortByPrice {
			switch {
			case !a.Price.Valid && !b.Price.Valid:
				return 0
			case !a.Price.Valid:
				return 1
			case !b.Price.Valid:
				return -1
			}
		}
		return sign * compare(a, b)
	})
	return sorted
}

func comparator(by models.SortField) func(a, b models.Product) int {
	switch by {
	case models.SortByCalories:
		return byNumber(func(p models.Product) float64 { return p.Calories })
	case models.SortByProtein:
		return byNumber(func(p models.Product) float64 { return p.Protein })
	case models.SortByProteinPerCalorie:
		return byNumber(func(p models.Product) float64 { return p.ProteinPerCalorie })
	case models.SortByCarbs:
		return byNumber(func(p models.Product) float64 { return p.Carbs })
	case models.SortByFat:
		return byNumber(func(p models.Product) float64 { return p.Fat })
	case models.SortByTaste:
		return byNumber(func(p models.Product) float64 { return p.Taste })
	case models.SortByPrice:
		return func(a, b models.Product) int {
			return a.Price.Decimal.Cmp(b.Price.Decimal)
		}
	case models.SortByName:
		// Collators keep scratch buffers, so each sort gets its own.
		c := collate.New(language.Russian)
		return func(a, b models.Product) int {
			return c.CompareString(a.Name, b.Name)
		}
	default:
		return func(models.Product, models.Product) int { return 0 }
	}
}

func byNumber(key func(models.Product) float64) func(a, b models.Product) int {
	return func(a, b models.Product) int {
		return cmp.Compare(key(a), key(b))
	}
}
