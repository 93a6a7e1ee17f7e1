package sheet

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/hryucha/protein-catalog/models"
)

var (
	nonNumeric    = regexp.MustCompile(`[^\d.-]`)
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	linkSeparator = regexp.MustCompile(`[,\s]+`)
)

// ParseNumber reads a loosely formatted number such as "12,5 г" or "1 000".
// The first comma becomes a decimal point, everything except digits, dots
// and minus signs is dropped, and the longest numeric prefix is parsed.
// Anything unparseable is 0.
func ParseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	cleaned := nonNumeric.ReplaceAllString(strings.Replace(s, ",", ".", 1), "")
	prefix := numericPrefix.FindString(cleaned)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseNullableNumber is ParseNumber for optional values. Empty cells, blank
// cells and "-" are missing. A result of 0 only counts as a real zero when
// the cell text contains the digit '0'; otherwise the cell held stray text
// and the value is missing too.
func ParseNullableNumber(s string) (float64, bool) {
	if s == "" || s == "-" || strings.TrimSpace(s) == "" {
		return 0, false
	}
	v := ParseNumber(s)
	if v == 0 && !strings.Contains(s, "0") {
		return 0, false
	}
	return v, true
}

var affirmative = map[string]bool{
	"да":   true,
	"yes":  true,
	"true": true,
	"1":    true,
	"✓":    true,
}

// ParseBool accepts "да", "yes", "true", "1" and "✓" in any case.
func ParseBool(s string) bool {
	return affirmative[strings.ToLower(strings.TrimSpace(s))]
}

// ParseLinks splits a cell on commas and whitespace and keeps the tokens that
// are absolute http or https URLs.
func ParseLinks(s string) []string {
	links := []string{}
	if s == "" {
		return links
	}
	for _, tok := range linkSeparator.Split(s, -1) {
		tok = strings.TrimSpace(tok)
		if !strings.HasPrefix(tok, "http") {
			continue
		}
		u, err := url.Parse(tok)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		links = append(links, tok)
	}
	return links
}

// ParseTag maps a cell to the closed tag set, defaulting to models.TagOther.
func ParseTag(s string) models.Tag {
	return models.ParseTag(s)
}
