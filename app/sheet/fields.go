package sheet

import (
	"sort"
	"strings"
)

// Field is a canonical product column.
type Field string

const (
	FieldName        Field = "name"
	FieldPrice       Field = "price"
	FieldTaste       Field = "taste"
	FieldSimilarity  Field = "similarity"
	FieldCalories    Field = "calories"
	FieldProtein     Field = "protein"
	FieldFat         Field = "fat"
	FieldCarbs       Field = "carbs"
	FieldTotalMacros Field = "totalMacros"
	FieldLabTested   Field = "labTested"
	FieldLinks       Field = "links"
	FieldTag         Field = "tag"
)

// headerAliases maps every known header spelling, Russian and English, to
// its canonical field.
var headerAliases = map[string]Field{
	"Название": FieldName,
	"name":     FieldName,

	"Цена":     FieldPrice,
	"Ср. цена": FieldPrice,
	"price":    FieldPrice,

	"Вкус":  FieldTaste,
	"taste": FieldTaste,

	"Схожесть":           FieldSimilarity,
	"Схожесть с ориг, %": FieldSimilarity,
	"similarity":         FieldSimilarity,

	"Калории":        FieldCalories,
	"Ккал на 100гр.": FieldCalories,
	"calories":       FieldCalories,
	"Ккал":           FieldCalories,

	"Белок":          FieldProtein,
	"Белок на 100гр": FieldProtein,
	"protein":        FieldProtein,
	"Б":              FieldProtein,

	"Жиры":         FieldFat,
	"Жиры на 100г": FieldFat,
	"fat":          FieldFat,
	"Ж":            FieldFat,

	"Углеводы":         FieldCarbs,
	"Углеводы на 100г": FieldCarbs,
	"carbs":            FieldCarbs,
	"У":                FieldCarbs,

	"КБЖУ":        FieldTotalMacros,
	"Общий кбжу":  FieldTotalMacros,
	"totalMacros": FieldTotalMacros,

	"Проверено":               FieldLabTested,
	"Проверено в лаборатории": FieldLabTested,
	"labTested":               FieldLabTested,

	"Ссылки": FieldLinks,
	"links":  FieldLinks,

	"Категория": FieldTag,
	"tag":       FieldTag,
	"Тэг":       FieldTag,
}

// LookupField resolves a header to its canonical field, trying the header as
// written and then trimmed.
func LookupField(header string) (Field, bool) {
	if f, ok := headerAliases[header]; ok {
		return f, true
	}
	f, ok := headerAliases[strings.TrimSpace(header)]
	return f, ok
}

// Cell is one header/value pair of a spreadsheet row.
type Cell struct {
	Header string
	Value  string
}

// Row is a spreadsheet record in column order.
type Row []Cell

// RowFromMap builds a Row from a header->value map. Headers are sorted so the
// result does not depend on map iteration order.
func RowFromMap(m map[string]string) Row {
	headers := make([]string, 0, len(m))
	for h := range m {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	row := make(Row, len(headers))
	for i, h := range headers {
		row[i] = Cell{Header: h, Value: m[h]}
	}
	return row
}

// MapFields translates a row to canonical fields. Unknown headers are
// dropped. When several columns alias the same field, the first non-empty
// value in column order wins; a field whose columns are all empty is present
// with an empty value.
func MapFields(row Row) map[Field]string {
	mapped := make(map[Field]string, len(row))
	for _, c := range row {
		f, ok := LookupField(c.Header)
		if !ok {
			continue
		}
		if prev, seen := mapped[f]; seen && strings.TrimSpace(prev) != "" {
			continue
		}
		mapped[f] = c.Value
	}
	return mapped
}
