package creature

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrDataUnavailable is returned (wrapped) by data sources that cannot supply
// species, move, or type data.
var ErrDataUnavailable = errors.New("data unavailable")

// Species is the base data a combatant data source returns for one identifier.
type Species struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	HP      int    `yaml:"hp"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Moves   []Move `yaml:"moves"`
}

// SpeciesSource looks up species data by identifier (national dex number or name).
type SpeciesSource interface {
	Species(ctx context.Context, id string) (Species, error)
}

// SpeciesLister lists known species names in dex order.
type SpeciesLister interface {
	ListSpecies(ctx context.Context, limit int) ([]string, error)
}

// MissingNo returns the fallback combatant used when species data cannot be
// loaded.
func MissingNo() *Combatant {
	return &Combatant{
		name:      "MissingNo",
		typ:       "normal",
		level:     1,
		currentHP: 1,
		maxHP:     1,
		attack:    1,
		defense:   1,
		moves:     []Move{Struggle()},
	}
}

// Spawn builds a combatant at the given level from src. It never fails: any
// source error or invalid species data yields MissingNo.
//
// Precondition: src and logger must be non-nil.
func Spawn(ctx context.Context, src SpeciesSource, id string, level int, logger *zap.Logger) *Combatant {
	sp, err := src.Species(ctx, id)
	if err != nil {
		logger.Warn("species lookup failed, using fallback",
			zap.String("id", id),
			zap.Error(err),
		)
		return MissingNo()
	}
	c, err := New(Params{
		Name:    sp.Name,
		Type:    sp.Type,
		Level:   level,
		MaxHP:   sp.HP,
		Attack:  sp.Attack,
		Defense: sp.Defense,
		Moves:   sp.Moves,
	})
	if err != nil {
		logger.Warn("invalid species data, using fallback",
			zap.String("id", id),
			zap.Error(err),
		)
		return MissingNo()
	}
	logger.Debug("spawned combatant",
		zap.String("id", id),
		zap.String("name", c.Name()),
		zap.Int("level", c.Level()),
		zap.Int("moves", len(c.moves)),
	)
	return c
}
