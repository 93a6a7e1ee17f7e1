// Package urlstate maps filter state to and from URL query parameters so a
// result set can be bookmarked. Only fields that differ from the default are
// written, which keeps shared links short.
package urlstate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hryucha/protein-catalog/models"
)

// Query parameter names.
const (
	ParamSearch      = "search"
	ParamTags        = "tags"
	ParamCalories    = "calories"
	ParamProtein     = "protein"
	ParamFat         = "fat"
	ParamCarbs       = "carbs"
	ParamPPC         = "ppc"
	ParamLowCarb     = "lowCarb"
	ParamHighProtein = "highProtein"
	ParamLabTested   = "labTested"
	ParamSortBy      = "sortBy"
	ParamSortOrder   = "sortOrder"
)

// Params lists every parameter the codec reads or writes.
var Params = []string{
	ParamSearch, ParamTags, ParamCalories, ParamProtein, ParamFat, ParamCarbs,
	ParamPPC, ParamLowCarb, ParamHighProtein, ParamLabTested, ParamSortBy, ParamSortOrder,
}

const flagOn = "1"

// Encode writes the fields of state that differ from the default.
func Encode(state models.FilterState) url.Values {
	def := models.DefaultFilterState()
	q := url.Values{}

	if state.Search != def.Search {
		q.Set(ParamSearch, state.Search)
	}
	if len(state.Tags) > 0 {
		tags := make([]string, len(state.Tags))
		for i, t := range state.Tags {
			tags[i] = string(t)
		}
		q.Set(ParamTags, strings.Join(tags, ","))
	}
	setRange(q, ParamCalories, state.CaloriesRange, def.CaloriesRange)
	setRange(q, ParamProtein, state.ProteinRange, def.ProteinRange)
	setRange(q, ParamFat, state.FatRange, def.FatRange)
	setRange(q, ParamCarbs, state.CarbsRange, def.CarbsRange)
	if state.ProteinPerCalorieMin != def.ProteinPerCalorieMin {
		q.Set(ParamPPC, formatNumber(state.ProteinPerCalorieMin))
	}
	if state.IsLowCarb {
		q.Set(ParamLowCarb, flagOn)
	}
	if state.IsHighProtein {
		q.Set(ParamHighProtein, flagOn)
	}
	if state.LabTestedOnly {
		q.Set(ParamLabTested, flagOn)
	}
	if state.SortBy != def.SortBy {
		q.Set(ParamSortBy, string(state.SortBy))
	}
	if state.SortOrder != def.SortOrder {
		q.Set(ParamSortOrder, string(state.SortOrder))
	}
	return q
}

// EncodeQuery is Encode rendered as a query string, empty for the default
// state.
func EncodeQuery(state models.FilterState) string {
	return Encode(state).Encode()
}

// Decode reads the recognised parameters of q into a patch. Malformed values
// are skipped and unknown tags dropped; the patch is meant to be applied to
// the default state.
func Decode(q url.Values) models.FilterPatch {
	var p models.FilterPatch

	if v := q.Get(ParamSearch); v != "" {
		p.Search = &v
	}
	if v := q.Get(ParamTags); v != "" {
		parts := strings.Split(v, ",")
		tags := make([]models.Tag, len(parts))
		for i, s := range parts {
			tags[i] = models.Tag(s)
		}
		tags = models.KnownTagsOnly(tags)
		p.Tags = &tags
	}
	p.CaloriesRange = parseRange(q.Get(ParamCalories))
	p.ProteinRange = parseRange(q.Get(ParamProtein))
	p.FatRange = parseRange(q.Get(ParamFat))
	p.CarbsRange = parseRange(q.Get(ParamCarbs))
	if v, ok := parseNumber(q.Get(ParamPPC)); ok {
		p.ProteinPerCalorieMin = &v
	}
	if q.Get(ParamLowCarb) == flagOn {
		p.IsLowCarb = boolPtr(true)
	}
	if q.Get(ParamHighProtein) == flagOn {
		p.IsHighProtein = boolPtr(true)
	}
	if q.Get(ParamLabTested) == flagOn {
		p.LabTestedOnly = boolPtr(true)
	}
	if v := models.SortField(q.Get(ParamSortBy)); v.IsValid() {
		p.SortBy = &v
	}
	if v := models.SortOrder(q.Get(ParamSortOrder)); v.IsValid() {
		p.SortOrder = &v
	}
	return p
}

// DecodeQuery parses a raw query string. Pairs that fail to unescape are
// skipped; the rest still decode.
func DecodeQuery(raw string) models.FilterPatch {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(q)
}

// HasParams reports whether q carries any codec parameter.
func HasParams(q url.Values) bool {
	for _, name := range Params {
		if _, ok := q[name]; ok {
			return true
		}
	}
	return false
}

func setRange(q url.Values, name string, r, def models.Range) {
	if r == def {
		return
	}
	q.Set(name, formatNumber(r.Min)+"-"+formatNumber(r.Max))
}

func parseRange(s string) *models.Range {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil
	}
	lo, ok := parseNumber(parts[0])
	if !ok {
		return nil
	}
	hi, ok := parseNumber(parts[1])
	if !ok {
		return nil
	}
	return &models.Range{Min: lo, Max: hi}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolPtr(b bool) *bool { return &b }
