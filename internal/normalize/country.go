// Package normalize canonicalizes free-text labels found in vendor datasets:
// country names, AM process names and material names.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var countryAliases = map[string]string{
	"u.s.":                       "United States",
	"u.s.a.":                     "United States",
	"us":                         "United States",
	"usa":                        "United States",
	"united states":              "United States",
	"united states of america":   "United States",
	"u.k.":                       "United Kingdom",
	"uk":                         "United Kingdom",
	"united kingdom":             "United Kingdom",
	"great britain":              "United Kingdom",
	"britain":                    "United Kingdom",
	"england":                    "United Kingdom",
	"viet nam":                   "Vietnam",
	"czechia":                    "Czech Republic",
	"russian federation":         "Russia",
	"korea, republic of":         "South Korea",
	"republic of korea":          "South Korea",
	"uae":                        "United Arab Emirates",
	"prc":                        "China",
	"people's republic of china": "China",
}

// Country returns the display form of a country name, or "" when the input
// is blank. It is idempotent. Unaliased names are title-cased, which also
// capitalizes after hyphens and apostrophes ("guinea-bissau" becomes
// "Guinea-Bissau").
func Country(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	if s == "" {
		return ""
	}
	if len(s) > 4 && strings.EqualFold(s[:4], "the ") {
		return Country(s[4:])
	}
	if canonical, ok := countryAliases[strings.ToLower(s)]; ok {
		return canonical
	}
	// Casers carry state, one per call keeps this safe for concurrent use.
	return cases.Title(language.Und).String(s)
}

// SameCountry reports whether two free-text names denote the same country.
func SameCountry(a, b string) bool {
	na := Country(a)
	return na != "" && na == Country(b)
}
