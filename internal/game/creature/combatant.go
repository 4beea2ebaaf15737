package creature

import (
	"errors"
	"fmt"
)

// MaxMoves is the largest move list a combatant may carry.
const MaxMoves = 4

// Params describes a combatant at creation time.
type Params struct {
	Name    string
	Type    string
	Level   int
	MaxHP   int
	Attack  int
	Defense int
	Moves   []Move
}

// Combatant is one fighter in a battle.
//
// Invariant: 0 <= CurrentHP() <= MaxHP(); Level() never decreases;
// 1 <= len(Moves()) <= MaxMoves.
type Combatant struct {
	name      string
	typ       string
	level     int
	currentHP int
	maxHP     int
	attack    int
	defense   int
	moves     []Move
}

// New creates a combatant at full health.
//
// Precondition: p.Name non-empty; p.Level, p.MaxHP, p.Attack, p.Defense >= 1.
// Postcondition: CurrentHP() == MaxHP(); an empty move list is replaced by Struggle
// and lists longer than MaxMoves are truncated.
func New(p Params) (*Combatant, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Combatant{
		name:      p.Name,
		typ:       NormalizeType(p.Type),
		level:     p.Level,
		currentHP: p.MaxHP,
		maxHP:     p.MaxHP,
		attack:    p.Attack,
		defense:   p.Defense,
		moves:     normalizeMoves(p.Moves),
	}, nil
}

func (p Params) validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", p.Level))
	}
	if p.MaxHP < 1 {
		errs = append(errs, fmt.Errorf("max hp must be >= 1, got %d", p.MaxHP))
	}
	if p.Attack < 1 {
		errs = append(errs, fmt.Errorf("attack must be >= 1, got %d", p.Attack))
	}
	if p.Defense < 1 {
		errs = append(errs, fmt.Errorf("defense must be >= 1, got %d", p.Defense))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid combatant %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

func normalizeMoves(in []Move) []Move {
	if len(in) == 0 {
		return []Move{Struggle()}
	}
	n := min(len(in), MaxMoves)
	out := make([]Move, n)
	copy(out, in[:n])
	return out
}

func (c *Combatant) Name() string { return c.name }
func (c *Combatant) Type() string { return c.typ }
func (c *Combatant) Level() int { return c.level }
func (c *Combatant) CurrentHP() int { return c.currentHP }
func (c *Combatant) MaxHP() int { return c.maxHP }
func (c *Combatant) Attack() int { return c.attack }
func (c *Combatant) Defense() int { return c.defense }

// Moves returns a copy of the move list.
func (c *Combatant) Moves() []Move {
	out := make([]Move, len(c.moves))
	copy(out, c.moves)
	return out
}

// Move returns the move at index i.
//
// Postcondition: ok is false iff i is out of range.
func (c *Combatant) Move(i int) (Move, bool) {
	if i < 0 || i >= len(c.moves) {
		return Move{}, false
	}
	return c.moves[i], true
}

// Fainted reports whether health has reached zero.
func (c *Combatant) Fainted() bool { return c.currentHP == 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero. Negative amounts
// have no effect.
//
// Postcondition: 0 <= CurrentHP() <= MaxHP().
func (c *Combatant) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.currentHP -= amount
	if c.currentHP < 0 {
		c.currentHP = 0
	}
}

// LevelUp raises the level to newLevel.
//
// Postcondition: returns true and Level() == newLevel iff newLevel > the previous
// level; otherwise the combatant is unchanged.
func (c *Combatant) LevelUp(newLevel int) bool {
	if newLevel <= c.level {
		return false
	}
	c.level = newLevel
	return true
}
