package models

import "errors"

// ErrPresetNotFound is returned when a preset key is not in the library.
var ErrPresetNotFound = errors.New("preset not found")

// PresetKey identifies a preset.
type PresetKey string

const (
	PresetBulking     PresetKey = "bulking"
	PresetCutting     PresetKey = "cutting"
	PresetKeto        PresetKey = "keto"
	PresetSweets      PresetKey = "sweets"
	PresetHighProtein PresetKey = "highProtein"
	PresetLabTested   PresetKey = "labTested"
)

// Preset is a named overlay of filter fields.
type Preset struct {
	Key         PresetKey
	Name        string
	Emoji       string
	Description string
	Filters     FilterPatch
}

func ptr[T any](v T) *T { return &v }

// presetTable builds the library afresh, so callers never share the
// patches' pointers.
func presetTable() []Preset {
	return []Preset{
		{
			Key:         PresetBulking,
			Name:        "Набор массы",
			Emoji:       "🏋️",
			Description: "Максимум белка на калорию",
			Filters: FilterPatch{
				ProteinRange:         &Range{Min: 15, Max: 100},
				ProteinPerCalorieMin: ptr(10.0),
				SortBy:               ptr(SortByProteinPerCalorie),
				SortOrder:            ptr(SortDesc),
			},
		},
		{
			Key:         PresetCutting,
			Name:        "Сушка",
			Emoji:       "🔥",
			Description: "Минимум калорий и жиров",
			Filters: FilterPatch{
				CaloriesRange: &Range{Min: 0, Max: 100},
				FatRange:      &Range{Min: 0, Max: 5},
				SortBy:        ptr(SortByCalories),
				SortOrder:     ptr(SortAsc),
			},
		},
		{
			Key:         PresetKeto,
			Name:        "Кето",
			Emoji:       "🥑",
			Description: "Минимум углеводов",
			Filters: FilterPatch{
				CarbsRange: &Range{Min: 0, Max: 5},
				FatRange:   &Range{Min: 5, Max: 100},
				IsLowCarb:  ptr(true),
				SortBy:     ptr(SortByCarbs),
				SortOrder:  ptr(SortAsc),
			},
		},
		{
			Key:         PresetSweets,
			Name:        "Сласти",
			Emoji:       "🍬",
			Description: "Сладкое без вреда",
			Filters: FilterPatch{
				Tags:          &[]Tag{TagSweet},
				CaloriesRange: &Range{Min: 0, Max: 150},
				SortBy:        ptr(SortByTaste),
				SortOrder:     ptr(SortDesc),
			},
		},
		{
			Key:         PresetHighProtein,
			Name:        "Протеиновые",
			Emoji:       "💪",
			Description: "Максимум белка",
			Filters: FilterPatch{
				ProteinRange:  &Range{Min: 25, Max: 100},
				IsHighProtein: ptr(true),
				SortBy:        ptr(SortByProtein),
				SortOrder:     ptr(SortDesc),
			},
		},
		{
			Key:         PresetLabTested,
			Name:        "Проверенные",
			Emoji:       "✅",
			Description: "С лабораторными анализами",
			Filters: FilterPatch{
				LabTestedOnly: ptr(true),
			},
		},
	}
}

// Presets returns the preset library in display order.
func Presets() []Preset {
	return presetTable()
}

// PresetByKey looks a preset up by key.
func PresetByKey(key PresetKey) (Preset, error) {
	for _, p := range presetTable() {
		if p.Key == key {
			return p, nil
		}
	}
	return Preset{}, ErrPresetNotFound
}

// ApplyPreset layers the preset onto the canonical default, never onto the
// state currently in use.
func ApplyPreset(p Preset) FilterState {
	return p.Filters.Merged()
}
