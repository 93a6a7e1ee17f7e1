package models

import "strings"

// Tag is the product category shown in the spreadsheet's "Категория" column.
// The set is closed: anything unrecognised lands in TagOther.
type Tag string

const (
	TagMeat    Tag = "Мясо"
	TagSweet   Tag = "Сласть"
	TagCurd    Tag = "Творог"
	TagSausage Tag = "Колбаса"
	TagOther   Tag = "Другое"
)

var knownTags = []Tag{TagMeat, TagSweet, TagCurd, TagSausage, TagOther}

// Tags returns every tag in display order, TagOther last.
func Tags() []Tag {
	out := make([]Tag, len(knownTags))
	copy(out, knownTags)
	return out
}

// IsValid reports whether t belongs to the closed tag set.
func (t Tag) IsValid() bool {
	for _, k := range knownTags {
		if t == k {
			return true
		}
	}
	return false
}

// ParseTag matches the trimmed cell text exactly against the tag set.
func ParseTag(s string) Tag {
	t := Tag(strings.TrimSpace(s))
	if t.IsValid() {
		return t
	}
	return TagOther
}
