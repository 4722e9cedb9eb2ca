// Package brandx resolves the many spellings suppliers use for the same brand
// into one canonical name. Resolution happens once, at sync time; the
// canonical form is stored on the product record so filters never have to
// re-run matching heuristics.
package brandx

import (
	"sort"
	"strings"
)

// aliases maps a canonical brand to every spelling seen in supplier data.
// Matching is case-insensitive.
var aliases = map[string][]string{
	"Remember":              {"Remember"},
	"Räder":                 {"Räder", "Rader", "Rader GmbH"},
	"My Flame":              {"My Flame", "My Flame Lifestyle", "MyFlame"},
	"Ideas4Seasons":         {"Ideas4Seasons", "Ideas 4 Seasons", "Ideas4 Seasons", "i4s"},
	"Relaxound":             {"Relaxound"},
	"Elvang Denmark":        {"Elvang Denmark", "Elvang"},
	"Paper Products Design": {"Paper Products Design", "ppd PAPERPRODUCTS DESIGN GmbH", "ppd", "PAPERPRODUCTS DESIGN"},
	"GEFU":                  {"GEFU", "Gefu"},
}

// lookup is built once from aliases, keyed by lowercased spelling.
var lookup = func() map[string]string {
	m := make(map[string]string)
	for canonical, spellings := range aliases {
		for _, s := range spellings {
			m[strings.ToLower(s)] = canonical
		}
	}
	return m
}()

// Canonical returns the canonical brand for any known spelling. Unknown
// brands are returned trimmed but otherwise unchanged, so new suppliers
// still filter consistently even before an alias is registered.
func Canonical(brand string) string {
	trimmed := strings.TrimSpace(brand)
	if canonical, ok := lookup[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Known reports whether the brand resolves to a registered canonical name.
func Known(brand string) bool {
	_, ok := lookup[strings.ToLower(strings.TrimSpace(brand))]
	return ok
}

// All returns the registered canonical brand names, sorted.
func All() []string {
	result := make([]string, 0, len(aliases))
	for canonical := range aliases {
		result = append(result, canonical)
	}
	sort.Strings(result)
	return result
}
