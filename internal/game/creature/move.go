// Package creature defines the combatant data model: moves, species data
// returned by data sources, and the mutable Combatant owned by a battle.
package creature

import "strings"

// DamageClass is the damage category of a move.
type DamageClass string

const (
	Physical DamageClass = "physical"
	Special  DamageClass = "special"
	Status   DamageClass = "status"
)

// Valid reports whether c is one of the known damage classes.
func (c DamageClass) Valid() bool {
	switch c {
	case Physical, Special, Status:
		return true
	default:
		return false
	}
}

// Move is an immutable attack definition.
type Move struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"`
	Power       int         `json:"power" yaml:"power"`
	Accuracy    int         `json:"accuracy" yaml:"accuracy"`
	DamageClass DamageClass `json:"damage_class" yaml:"damage_class"`
}

// IsStatus reports whether the move deals no base damage.
func (m Move) IsStatus() bool { return m.Power <= 0 }

// SameType reports whether the move's type matches typ, ignoring case.
func (m Move) SameType(typ string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Type), strings.TrimSpace(typ))
}

// Struggle returns the fallback move substituted when a data source yields no
// usable moves.
func Struggle() Move {
	return Move{Name: "Struggle", Type: "normal", Power: 50, Accuracy: 100, DamageClass: Physical}
}

// NormalizeType lower-cases and trims an elemental type tag.
func NormalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
