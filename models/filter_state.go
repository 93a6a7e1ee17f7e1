package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// SortField selects the product attribute the result set is ordered by.
type SortField string

const (
	SortByCalories          SortField = "calories"
	SortByProtein           SortField = "protein"
	SortByProteinPerCalorie SortField = "proteinPerCalorie"
	SortByPrice             SortField = "price"
	SortByTaste             SortField = "taste"
	SortByName              SortField = "name"
	SortByCarbs             SortField = "carbs"
	SortByFat               SortField = "fat"
)

var sortFields = []SortField{
	SortByCalories, SortByProtein, SortByProteinPerCalorie, SortByPrice,
	SortByTaste, SortByName, SortByCarbs, SortByFat,
}

// IsValid reports whether f is one of the supported sort fields.
func (f SortField) IsValid() bool {
	return slices.Contains(sortFields, f)
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Range is an inclusive numeric interval. It is encoded in JSON as a
// two-element array, [min, max].
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Min, r.Max})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("range: expected [min, max], got %d values", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// FilterState is the complete set of filter and sort choices. It is always
// fully populated; partial states are FilterPatch values merged onto
// DefaultFilterState.
type FilterState struct {
	Search string `json:"search"`
	Tags   []Tag  `json:"tags"`

	CaloriesRange Range `json:"caloriesRange"`
	ProteinRange  Range `json:"proteinRange"`
	FatRange      Range `json:"fatRange"`
	CarbsRange    Range `json:"carbsRange"`

	ProteinPerCalorieMin float64 `json:"proteinPerCalorieMin"`
	IsLowCarb            bool    `json:"isLowCarb"`
	IsHighProtein        bool    `json:"isHighProtein"`
	LabTestedOnly        bool    `json:"labTestedOnly"`

	SortBy    SortField `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// DefaultFilterState returns the canonical default: no restriction, sorted by
// protein, highest first.
func DefaultFilterState() FilterState {
	return FilterState{
		Search:        "",
		Tags:          []Tag{},
		CaloriesRange: Range{Min: 0, Max: 500},
		ProteinRange:  Range{Min: 0, Max: 100},
		FatRange:      Range{Min: 0, Max: 100},
		CarbsRange:    Range{Min: 0, Max: 100},
		SortBy:        SortByProtein,
		SortOrder:     SortDesc,
	}
}

// HasTag reports whether t is among the selected tags.
func (s FilterState) HasTag(t Tag) bool {
	return slices.Contains(s.Tags, t)
}

// Equal compares two states field by field; tag order is significant.
func (s FilterState) Equal(o FilterState) bool {
	return s.Search == o.Search &&
		slices.Equal(s.Tags, o.Tags) &&
		s.CaloriesRange == o.CaloriesRange &&
		s.ProteinRange == o.ProteinRange &&
		s.FatRange == o.FatRange &&
		s.CarbsRange == o.CarbsRange &&
		s.ProteinPerCalorieMin == o.ProteinPerCalorieMin &&
		s.IsLowCarb == o.IsLowCarb &&
		s.IsHighProtein == o.IsHighProtein &&
		s.LabTestedOnly == o.LabTestedOnly &&
		s.SortBy == o.SortBy &&
		s.SortOrder == o.SortOrder
}

// Apply returns a copy of s with every field set in p overwritten.
func (s FilterState) Apply(p FilterPatch) FilterState {
	out := s
	out.Tags = slices.Clone(s.Tags)

	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.CaloriesRange != nil {
		out.CaloriesRange = *p.CaloriesRange
	}
	if p.ProteinRange != nil {
		out.ProteinRange = *p.ProteinRange
	}
	if p.FatRange != nil {
		out.FatRange = *p.FatRange
	}
	if p.CarbsRange != nil {
		out.CarbsRange = *p.CarbsRange
	}
	if p.ProteinPerCalorieMin != nil {
		out.ProteinPerCalorieMin = *p.ProteinPerCalorieMin
	}
	if p.IsLowCarb != nil {
		out.IsLowCarb = *p.IsLowCarb
	}
	if p.IsHighProtein != nil {
		out.IsHighProtein = *p.IsHighProtein
	}
	if p.LabTestedOnly != nil {
		out.LabTestedOnly = *p.LabTestedOnly
	}
	if p.SortBy != nil {
		out.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	return out
}

// ActiveFilterCount counts the filters that restrict the result set. Sorting
// is not a filter and never counts.
func ActiveFilterCount(s FilterState) int {
	def := DefaultFilterState()
	count := 0

	if s.Search != "" {
		count++
	}
	if len(s.Tags) > 0 {
		count++
	}
	for _, r := range [][2]Range{
		{s.CaloriesRange, def.CaloriesRange},
		{s.ProteinRange, def.ProteinRange},
		{s.FatRange, def.FatRange},
		{s.CarbsRange, def.CarbsRange},
	} {
		if r[0] != r[1] {
			count++
		}
	}
	if s.ProteinPerCalorieMin > 0 {
		count++
	}
	if s.IsLowCarb {
		count++
	}
	if s.IsHighProtein {
		count++
	}
	if s.LabTestedOnly {
		count++
	}
	return count
}

func HasActiveFilters(s FilterState) bool {
	return ActiveFilterCount(s) > 0
}
