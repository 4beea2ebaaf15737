// Package typechart resolves attack-type versus defender-type damage
// multipliers, caching the relations of each attacking type the first time it
// is looked up.
package typechart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Multiplier values.
const (
	Immune  = 0.0
	Resist  = 0.5
	Neutral = 1.0
	Super   = 2.0
)

// Relations is the damage relation set of one attacking type.
type Relations struct {
	DoubleDamageTo []string `yaml:"double_damage_to"`
	HalfDamageTo   []string `yaml:"half_damage_to"`
	NoDamageTo     []string `yaml:"no_damage_to"`
}

// RelationSource supplies the relation set for an attacking type.
type RelationSource interface {
	TypeRelations(ctx context.Context, attackType string) (Relations, error)
}

// Table is a process-wide, lazily populated multiplier cache.
// All methods are safe for concurrent use.
//
// Invariant: an entry, once inserted, is never modified or evicted.
type Table struct {
	src     RelationSource
	logger  *zap.Logger
	mu      sync.RWMutex
	entries map[string]map[string]float64
	flights singleflight.Group
}

// NewTable creates an empty Table backed by src.
//
// Precondition: src and logger must be non-nil.
func NewTable(src RelationSource, logger *zap.Logger) *Table {
	return &Table{
		src:     src,
		logger:  logger,
		entries: make(map[string]map[string]float64),
	}
}

func normalize(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Multiplier returns the damage multiplier of attackType against defenderType.
// It never fails: when relations cannot be loaded it returns Neutral and leaves
// the entry unpopulated so a later call retries.
//
// Postcondition: returns one of Immune, Resist, Neutral, Super.
func (t *Table) Multiplier(ctx context.Context, attackType, defenderType string) float64 {
	atk, def := normalize(attackType), normalize(defenderType)
	if atk == "" {
		return Neutral
	}
	entry, err := t.entry(ctx, atk)
	if err != nil {
		t.logger.Warn("type relations unavailable, using neutral multiplier",
			zap.String("attack_type", atk),
			zap.String("defender_type", def),
			zap.Error(err),
		)
		return Neutral
	}
	if m, ok := entry[def]; ok {
		return m
	}
	return Neutral
}

// Cached reports whether attackType has been populated.
func (t *Table) Cached(attackType string) bool {
	_, ok := t.lookup(normalize(attackType))
	return ok
}

func (t *Table) lookup(atk string) (map[string]float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[atk]
	return e, ok
}

// entry returns the cached mapping for atk, fetching it at most once across
// concurrent callers.
func (t *Table) entry(ctx context.Context, atk string) (map[string]float64, error) {
	if e, ok := t.lookup(atk); ok {
		return e, nil
	}
	v, err, _ := t.flights.Do(atk, func() (any, error) {
		// A flight that completed between lookup and Do has already inserted.
		if e, ok := t.lookup(atk); ok {
			return e, nil
		}
		rel, err := t.src.TypeRelations(ctx, atk)
		if err != nil {
			return nil, fmt.Errorf("fetching relations for %q: %w", atk, err)
		}
		e := Build(rel)
		t.mu.Lock()
		t.entries[atk] = e
		t.mu.Unlock()
		t.logger.Debug("type relations cached",
			zap.String("attack_type", atk),
			zap.Int("defender_types", len(e)),
		)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}

// Build converts a relation set into a defender-type multiplier map. Buckets are
// applied double, then half, then none, so the later bucket wins for a type
// listed more than once.
func Build(rel Relations) map[string]float64 {
	out := make(map[string]float64, len(rel.DoubleDamageTo)+len(rel.HalfDamageTo)+len(rel.NoDamageTo))
	for _, bucket := range []struct {
		names []string
		mult  float64
	}{
		{rel.DoubleDamageTo, Super},
		{rel.HalfDamageTo, Resist},
		{rel.NoDamageTo, Immune},
	} {
		for _, name := range bucket.names {
			if n := normalize(name); n != "" {
				out[n] = bucket.mult
			}
		}
	}
	return out
}
