package query

import (
	"github.com/hryucha/protein-catalog/models"
	"github.com/shopspring/decimal"
)

type productSpec struct {
	id        string
	name      string
	tag       models.Tag
	calories  float64
	protein   float64
	fat       float64
	carbs     float64
	taste     float64
	price     *float64
	labTested bool
}

func newProduct(s productSpec) models.Product {
	fields := models.ProductFields{
		ID:        s.id,
		Name:      s.name,
		Taste:     s.taste,
		Calories:  s.calories,
		Protein:   s.protein,
		Fat:       s.fat,
		Carbs:     s.carbs,
		LabTested: s.labTested,
		Tag:       s.tag,
	}
	if s.price != nil {
		fields.Price = decimal.NewNullDecimal(decimal.NewFromFloat(*s.price))
	}
	return models.NewProduct(fields)
}

func price(v float64) *float64 { return &v }

// catalog is a small mixed set: ppc values are 20.9, 15, 8.6, 5.1 and 0.
func catalog() []models.Product {
	return []models.Product{
		newProduct(productSpec{id: "chicken", name: "Куриная грудка", tag: models.TagMeat, calories: 110, protein: 23, fat: 1.2, carbs: 0, taste: 7, price: price(300), labTested: true}),
		newProduct(productSpec{id: "curd", name: "Творог 5%", tag: models.TagCurd, calories: 120, protein: 18, fat: 5, carbs: 3, taste: 8}),
		newProduct(productSpec{id: "bar", name: "Протеиновый батончик", tag: models.TagSweet, calories: 350, protein: 30, fat: 10, carbs: 30, taste: 9, price: price(150)}),
		newProduct(productSpec{id: "sausage", name: "Колбаса докторская", tag: models.TagSausage, calories: 257, protein: 13, fat: 22, carbs: 1.5, taste: 6, price: price(400), labTested: true}),
		newProduct(productSpec{id: "cake", name: "Торт", tag: models.TagOther, calories: 650, protein: 0, fat: 40, carbs: 70, taste: 10, price: price(900)}),
	}
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
