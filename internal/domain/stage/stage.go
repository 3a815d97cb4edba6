package stage

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/minigallery/internal/domain/fold"
)

// Stage is the build progress of a batch. Values are ordered.
type Stage int

// Build stages in workflow order.
const (
	Unopened Stage = iota
	Building
	Magnetizing
	Priming
	Painting
	Basing
	Varnishing
	Repairing
	Completed
)

// MinMatchLength is the shortest token Match will consider.
// Shorter tokens ("it", "pa") would prefix-match too eagerly.
const MinMatchLength = 4

var displayNames = [...]string{
	Unopened:    "Unopened",
	Building:    "Building",
	Magnetizing: "Magnetizing",
	Priming:     "Priming",
	Painting:    "Painting",
	Basing:      "Basing",
	Varnishing:  "Varnishing",
	Repairing:   "Repairing",
	Completed:   "Completed",
}

// All returns every stage in ordinal order.
func All() []Stage {
	out := make([]Stage, len(displayNames))
	for i := range displayNames {
		out[i] = Stage(i)
	}
	return out
}

// IsValid reports whether s is one of the defined stages.
func (s Stage) IsValid() bool {
	return s >= Unopened && s <= Completed
}

// Ordinal returns the stage's position in the workflow.
func (s Stage) Ordinal() int { return int(s) }

// String returns the display name.
func (s Stage) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return displayNames[s]
}

// FromOrdinal converts a stored ordinal. Unknown ordinals report false.
func FromOrdinal(n int) (Stage, bool) {
	s := Stage(n)
	if !s.IsValid() {
		return 0, false
	}
	return s, true
}

// Parse looks a stage up by its exact display name, ignoring case.
func Parse(name string) (Stage, bool) {
	for _, s := range All() {
		if fold.Equal(displayNames[s], strings.TrimSpace(name)) {
			return s, true
		}
	}
	return 0, false
}

// Match finds the first stage whose display name starts with token.
// The token is capitalized first, so "paint" and "PAINT" both find Painting.
func Match(token string) (Stage, bool) {
	if len([]rune(token)) < MinMatchLength {
		return 0, false
	}
	prefix := fold.Capitalize(token)
	for _, s := range All() {
		if strings.HasPrefix(displayNames[s], prefix) {
			return s, true
		}
	}
	return 0, false
}
