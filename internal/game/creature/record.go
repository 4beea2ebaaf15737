package creature

import "fmt"

// Record is the full persisted state of a combatant.
type Record struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Level     int    `json:"level" yaml:"level"`
	CurrentHP int    `json:"current_hp" yaml:"current_hp"`
	MaxHP     int    `json:"max_hp" yaml:"max_hp"`
	Attack    int    `json:"attack" yaml:"attack"`
	Defense   int    `json:"defense" yaml:"defense"`
	Moves     []Move `json:"moves" yaml:"moves"`
}

// Snapshot exports the combatant's full state.
//
// Postcondition: Restore(c.Snapshot()) yields a combatant equal to c.
func (c *Combatant) Snapshot() Record {
	return Record{
		Name:      c.name,
		Type:      c.typ,
		Level:     c.level,
		CurrentHP: c.currentHP,
		MaxHP:     c.maxHP,
		Attack:    c.attack,
		Defense:   c.defense,
		Moves:     c.Moves(),
	}
}

// Restore rebuilds a combatant from a persisted record. CurrentHP is clamped
// into [0, MaxHP].
//
// Postcondition: Returns a combatant or a validation error.
func Restore(r Record) (*Combatant, error) {
	c, err := New(Params{
		Name:    r.Name,
		Type:    r.Type,
		Level:   r.Level,
		MaxHP:   r.MaxHP,
		Attack:  r.Attack,
		Defense: r.Defense,
		Moves:   r.Moves,
	})
	if err != nil {
		return nil, fmt.Errorf("restoring record: %w", err)
	}
	c.currentHP = max(0, min(r.CurrentHP, r.MaxHP))
	return c, nil
}
