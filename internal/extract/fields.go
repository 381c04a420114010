package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldSpec describes how to pull one typed value out of a piece of text.
// Patterns are tried in order so specific phrasings win over generic
// fallbacks; the source documents are hand-written and drift month to month.
type FieldSpec struct {
	Field    string
	Patterns []*regexp.Regexp
}

// Spec builds a FieldSpec from raw pattern strings. Patterns must compile;
// specs are package-level constants in practice, so a bad pattern is a
// programming error.
func Spec(field string, patterns ...string) FieldSpec {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return FieldSpec{Field: field, Patterns: res}
}

// First returns the first capture of the first matching pattern. Absence is
// the only failure mode; malformed text never produces an error.
func First(text string, spec FieldSpec) (string, bool) {
	for _, re := range spec.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			g = strings.TrimSpace(g)
			if g != "" {
				return g, true
			}
		}
	}
	return "", false
}

// Price extracts a positive decimal price. Thousands separators and leading
// currency symbols are tolerated.
func Price(text string, spec FieldSpec) (float64, bool) {
	raw, ok := First(text, spec)
	if !ok {
		return 0, false
	}
	return ParsePrice(raw)
}

// Percent extracts a signed percentage, with or without a trailing % sign.
func Percent(text string, spec FieldSpec) (float64, bool) {
	raw, ok := First(text, spec)
	if !ok {
		return 0, false
	}
	return ParsePercent(raw)
}

// Date extracts a calendar date in one of the accepted layouts.
func Date(text string, spec FieldSpec) (time.Time, bool) {
	raw, ok := First(text, spec)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(raw)
}

// Label extracts a short free-form token, whitespace-normalized.
func Label(text string, spec FieldSpec) (string, bool) {
	raw, ok := First(text, spec)
	if !ok {
		return "", false
	}
	return strings.Join(strings.Fields(raw), " "), true
}

// ParsePrice coerces a price string to a positive float. Parsing goes
// through shopspring/decimal so values like "6,645.50" survive exactly.
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$₹€£ ")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() <= 0 {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// ParsePercent coerces a percentage string to a signed float.
func ParsePercent(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"01/02/2006",
}

// ParseDate coerces a date string using the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
