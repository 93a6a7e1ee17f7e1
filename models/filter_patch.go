package models

import (
	"encoding/json"
	"fmt"
)

// FilterPatch is a partial FilterState. A nil field leaves the base value
// untouched when the patch is applied.
type FilterPatch struct {
	Search *string `json:"search,omitempty"`
	Tags   *[]Tag  `json:"tags,omitempty"`

	CaloriesRange *Range `json:"caloriesRange,omitempty"`
	ProteinRange  *Range `json:"proteinRange,omitempty"`
	FatRange      *Range `json:"fatRange,omitempty"`
	CarbsRange    *Range `json:"carbsRange,omitempty"`

	ProteinPerCalorieMin *float64 `json:"proteinPerCalorieMin,omitempty"`
	IsLowCarb            *bool    `json:"isLowCarb,omitempty"`
	IsHighProtein        *bool    `json:"isHighProtein,omitempty"`
	LabTestedOnly        *bool    `json:"labTestedOnly,omitempty"`

	SortBy    *SortField `json:"sortBy,omitempty"`
	SortOrder *SortOrder `json:"sortOrder,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p FilterPatch) IsEmpty() bool {
	return p == FilterPatch{}
}

// Merged returns the canonical default with p applied.
func (p FilterPatch) Merged() FilterState {
	return DefaultFilterState().Apply(p)
}

// PatchOf returns a patch that sets every field of s.
func PatchOf(s FilterState) FilterPatch {
	tags := append([]Tag{}, s.Tags...)
	return FilterPatch{
		Search:               &s.Search,
		Tags:                 &tags,
		CaloriesRange:        &s.CaloriesRange,
		ProteinRange:         &s.ProteinRange,
		FatRange:             &s.FatRange,
		CarbsRange:           &s.CarbsRange,
		ProteinPerCalorieMin: &s.ProteinPerCalorieMin,
		IsLowCarb:            &s.IsLowCarb,
		IsHighProtein:        &s.IsHighProtein,
		LabTestedOnly:        &s.LabTestedOnly,
		SortBy:               &s.SortBy,
		SortOrder:            &s.SortOrder,
	}
}

// DecodeFilterPatch parses a JSON filter blob leniently: absent keys stay
// unset, unknown tags are dropped, and unsupported sort values are ignored.
// Only structurally broken JSON is an error.
func DecodeFilterPatch(data []byte) (FilterPatch, error) {
	var p FilterPatch
	if err := json.Unmarshal(data, &p); err != nil {
		return FilterPatch{}, fmt.Errorf("failed to decode filter state: %w", err)
	}
	return p.sanitized(), nil
}

func (p FilterPatch) sanitized() FilterPatch {
	if p.Tags != nil {
		tags := KnownTagsOnly(*p.Tags)
		p.Tags = &tags
	}
	if p.SortBy != nil && !p.SortBy.IsValid() {
		p.SortBy = nil
	}
	if p.SortOrder != nil && !p.SortOrder.IsValid() {
		p.SortOrder = nil
	}
	return p
}

// KnownTagsOnly drops unknown and repeated tags, keeping first occurrences in
// order. The result is never nil.
func KnownTagsOnly(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if !t.IsValid() {
			continue
		}
		dup := false
		for _, o := range out {
			if o == t {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
