package unittype

import (
	"strings"

	"github.com/kailas-cloud/minigallery/internal/domain/fold"
)

// Type is the battlefield role of a unit.
type Type string

// Unit type constants.
const (
	Horde         Type = "Horde"
	Infantry      Type = "Infantry"
	Character     Type = "Character"
	EpicCharacter Type = "Epic Character"
	Vehicle       Type = "Vehicle"
	Monster       Type = "Monster"
	Titan         Type = "Titan"
	Display       Type = "Display"
)

// Default is assigned when a unit does not state its type.
const Default = Infantry

var all = []Type{Horde, Infantry, Character, EpicCharacter, Vehicle, Monster, Titan, Display}

// All returns every unit type.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	for _, v := range all {
		if t == v {
			return true
		}
	}
	return false
}

func (t Type) String() string { return string(t) }

// Parse matches s against the closed set, ignoring case. Partial names never match.
func Parse(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, v := range all {
		if fold.Equal(string(v), s) {
			return v, true
		}
	}
	return "", false
}
