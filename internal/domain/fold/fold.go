// Package fold implements the case-insensitive comparisons used by name lookups.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key returns the case-folded form of s. Two strings are equal ignoring case
// when their keys are equal.
func Key(s string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Fold().String(s)
}

// Equal reports whether a and b are equal ignoring case.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Contains reports whether substr occurs in s ignoring case.
func Contains(s, substr string) bool {
	return strings.Contains(Key(s), Key(substr))
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

// TrimPlural drops a single trailing "s" (either case) from s.
func TrimPlural(s string) string {
	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "S") {
		return s[:len(s)-1]
	}
	return s
}
