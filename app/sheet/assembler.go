package sheet

import (
	"fmt"
	"math"
	"strings"

	"github.com/hryucha/protein-catalog/models"
	"github.com/shopspring/decimal"
)

const defaultTaste = 5

// AssembleRow turns one spreadsheet row into a product. Rows without a name
// or without a calories cell are rejected; that check runs on the raw text,
// so a calories cell holding garbage is accepted and parses to 0. index is
// the row's position in the sheet and only feeds the product id.
func AssembleRow(row Row, index int) (models.Product, bool) {
	mapped := MapFields(row)

	name := strings.TrimSpace(mapped[FieldName])
	if name == "" || strings.TrimSpace(mapped[FieldCalories]) == "" {
		return models.Product{}, false
	}

	fields := models.ProductFields{
		ID:          fmt.Sprintf("product-%d", index),
		Name:        name,
		Price:       parsePrice(mapped[FieldPrice]),
		Taste:       parseTaste(mapped[FieldTaste]),
		Calories:    nonNegative(ParseNumber(mapped[FieldCalories])),
		Protein:     nonNegative(ParseNumber(mapped[FieldProtein])),
		Fat:         nonNegative(ParseNumber(mapped[FieldFat])),
		Carbs:       nonNegative(ParseNumber(mapped[FieldCarbs])),
		TotalMacros: mapped[FieldTotalMacros],
		LabTested:   ParseBool(mapped[FieldLabTested]),
		Links:       ParseLinks(mapped[FieldLinks]),
		Tag:         ParseTag(mapped[FieldTag]),
	}
	if v, ok := ParseNullableNumber(mapped[FieldSimilarity]); ok {
		fields.Similarity = &v
	}

	return models.NewProduct(fields), true
}

// AssembleRows assembles every row, silently dropping rejected ones. A nil or
// empty input yields an empty, non-nil slice.
func AssembleRows(rows []Row) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for i, row := range rows {
		if p, ok := AssembleRow(row, i); ok {
			products = append(products, p)
		}
	}
	return products
}

func parsePrice(s string) decimal.NullDecimal {
	v, ok := ParseNullableNumber(s)
	if !ok || v < 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func parseTaste(s string) float64 {
	v := ParseNumber(s)
	if v == 0 {
		return defaultTaste
	}
	return math.Min(math.Max(v, 0), 10)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
