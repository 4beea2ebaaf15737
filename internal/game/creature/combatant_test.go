package creature_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/codemon/internal/game/creature"
)

func tackle() creature.Move {
	return creature.Move{Name: "Tackle", Type: "normal", Power: 40, Accuracy: 100, DamageClass: creature.Physical}
}

func newCombatant(t *testing.T, hp int) *creature.Combatant {
	t.Helper()
	c, err := creature.New(creature.Params{
		Name: "Bulbasaur", Type: "Grass", Level: 5, MaxHP: hp, Attack: 49, Defense: 49,
		Moves: []creature.Move{tackle()},
	})
	require.NoError(t, err)
	return c
}

func TestNew_FullHealthAndNormalizedType(t *testing.T) {
	c := newCombatant(t, 45)
	assert.Equal(t, 45, c.CurrentHP())
	assert.Equal(t, 45, c.MaxHP())
	assert.Equal(t, "grass", c.Type())
	assert.False(t, c.Fainted())
}

func TestNew_EmptyMovesGetsStruggle(t *testing.T) {
	c, err := creature.New(creature.Params{Name: "Ditto", Type: "normal", Level: 1, MaxHP: 48, Attack: 48, Defense: 48})
	require.NoError(t, err)
	require.Len(t, c.Moves(), 1)
	assert.Equal(t, creature.Struggle(), c.Moves()[0])
	assert.Equal(t, 50, c.Moves()[0].Power)
	assert.Equal(t, 100, c.Moves()[0].Accuracy)
}

func TestNew_TruncatesToFourMoves(t *testing.T) {
	moves := make([]creature.Move, 6)
	for i := range moves {
		moves[i] = creature.Move{Name: fmt.Sprintf("M%d", i), Type: "normal", Power: 10, Accuracy: 100}
	}
	c, err := creature.New(creature.Params{Name: "Mew", Type: "psychic", Level: 1, MaxHP: 1, Attack: 1, Defense: 1, Moves: moves})
	require.NoError(t, err)
	got := c.Moves()
	require.Len(t, got, creature.MaxMoves)
	assert.Equal(t, "M3", got[3].Name)
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	_, err := creature.New(creature.Params{Name: "", Level: 0, MaxHP: 0, Attack: 0, Defense: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "level must be >= 1")
	assert.Contains(t, err.Error(), "defense must be >= 1")
}

func TestMoves_ReturnsCopy(t *testing.T) {
	c := newCombatant(t, 10)
	m := c.Moves()
	m[0].Power = 999
	assert.Equal(t, 40, c.Moves()[0].Power)
}

func TestMove_Index(t *testing.T) {
	c := newCombatant(t, 10)
	m, ok := c.Move(0)
	assert.True(t, ok)
	assert.Equal(t, "Tackle", m.Name)
	_, ok = c.Move(1)
	assert.False(t, ok)
	_, ok = c.Move(-1)
	assert.False(t, ok)
}

func TestApplyDamage(t *testing.T) {
	c := newCombatant(t, 20)
	c.ApplyDamage(5)
	assert.Equal(t, 15, c.CurrentHP())
	c.ApplyDamage(-7)
	assert.Equal(t, 15, c.CurrentHP())
	c.ApplyDamage(100)
	assert.Equal(t, 0, c.CurrentHP())
	assert.True(t, c.Fainted())
}

func TestApplyDamage_Property_StaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 500).Draw(rt, "max_hp")
		c, err := creature.New(creature.Params{Name: "X", Type: "fire", Level: 1, MaxHP: maxHP, Attack: 1, Defense: 1})
		require.NoError(rt, err)
		hits := rapid.SliceOf(rapid.IntRange(-1000, 1000)).Draw(rt, "hits")
		for _, h := range hits {
			before := c.CurrentHP()
			c.ApplyDamage(h)
			assert.GreaterOrEqual(rt, c.CurrentHP(), 0)
			assert.LessOrEqual(rt, c.CurrentHP(), c.MaxHP())
			assert.LessOrEqual(rt, c.CurrentHP(), before)
		}
		assert.Equal(rt, maxHP, c.MaxHP())
	})
}

func TestLevelUp(t *testing.T) {
	c := newCombatant(t, 10)
	assert.False(t, c.LevelUp(5))
	assert.False(t, c.LevelUp(3))
	assert.Equal(t, 5, c.Level())
	assert.True(t, c.LevelUp(7))
	assert.Equal(t, 7, c.Level())
}

func TestLevelUp_Property_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c, err := creature.New(creature.Params{Name: "X", Type: "fire", Level: rapid.IntRange(1, 100).Draw(rt, "level"), MaxHP: 1, Attack: 1, Defense: 1})
		require.NoError(rt, err)
		for _, lvl := range rapid.SliceOf(rapid.IntRange(-10, 200)).Draw(rt, "levels") {
			before := c.Level()
			raised := c.LevelUp(lvl)
			assert.GreaterOrEqual(rt, c.Level(), before)
			assert.Equal(rt, lvl > before, raised)
		}
	})
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	c := newCombatant(t, 45)
	c.ApplyDamage(12)
	c.LevelUp(9)

	restored, err := creature.Restore(c.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), restored.Snapshot())
	assert.Equal(t, 33, restored.CurrentHP())
	assert.Equal(t, 9, restored.Level())
}

func TestRestore_ClampsHP(t *testing.T) {
	rec := newCombatant(t, 30).Snapshot()
	rec.CurrentHP = 99
	c, err := creature.Restore(rec)
	require.NoError(t, err)
	assert.Equal(t, 30, c.CurrentHP())

	rec.CurrentHP = -4
	c, err = creature.Restore(rec)
	require.NoError(t, err)
	assert.Equal(t, 0, c.CurrentHP())
	assert.True(t, c.Fainted())
}

func TestRestore_InvalidRecord(t *testing.T) {
	_, err := creature.Restore(creature.Record{Name: "Broken"})
	assert.Error(t, err)
}

func TestMove_SameTypeIgnoresCase(t *testing.T) {
	m := creature.Move{Type: "Fire"}
	assert.True(t, m.SameType("fire"))
	assert.True(t, m.SameType(" FIRE "))
	assert.False(t, m.SameType("water"))
}

type stubSource struct {
	sp  creature.Species
	err error
}

func (s stubSource) Species(context.Context, string) (creature.Species, error) { return s.sp, s.err }

func TestSpawn_UsesSpeciesData(t *testing.T) {
	src := stubSource{sp: creature.Species{ID: "4", Name: "Charmander", Type: "fire", HP: 39, Attack: 52, Defense: 43}}
	c := creature.Spawn(context.Background(), src, "4", 5, zap.NewNop())
	assert.Equal(t, "Charmander", c.Name())
	assert.Equal(t, 5, c.Level())
	assert.Equal(t, 39, c.MaxHP())
	assert.Equal(t, []creature.Move{creature.Struggle()}, c.Moves())
}

func TestSpawn_FallsBackOnError(t *testing.T) {
	src := stubSource{err: fmt.Errorf("fetching: %w", creature.ErrDataUnavailable)}
	c := creature.Spawn(context.Background(), src, "9999", 5, zap.NewNop())
	assert.Equal(t, "MissingNo", c.Name())
	assert.Equal(t, 1, c.Level())
	assert.Equal(t, 1, c.MaxHP())
	assert.Equal(t, []creature.Move{creature.Struggle()}, c.Moves())
}

func TestSpawn_FallsBackOnInvalidSpecies(t *testing.T) {
	src := stubSource{sp: creature.Species{Name: "Zero", HP: 0, Attack: 1, Defense: 1}}
	c := creature.Spawn(context.Background(), src, "0", 5, zap.NewNop())
	assert.Equal(t, "MissingNo", c.Name())
}

func TestErrDataUnavailable_Wrapped(t *testing.T) {
	err := fmt.Errorf("pokeapi: %w", creature.ErrDataUnavailable)
	assert.True(t, errors.Is(err, creature.ErrDataUnavailable))
}
