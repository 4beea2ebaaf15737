package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/codemon/internal/game/combat"
)

func baseInput() combat.DamageInput {
	return combat.DamageInput{Level: 5, Attack: 50, Defense: 50, Power: 40, TypeMultiplier: 1, Variance: 1}
}

func TestComputeDamage_Scenarios(t *testing.T) {
	a := baseInput()
	assert.Equal(t, 5, combat.ComputeDamage(a), "scenario A: floor(5.2)")

	b := baseInput()
	b.TypeMultiplier = 2
	assert.Equal(t, 10, combat.ComputeDamage(b), "scenario B: floor(10.4)")

	zeroDef, oneDef := baseInput(), baseInput()
	zeroDef.Defense, oneDef.Defense = 0, 1
	assert.Equal(t, combat.ComputeDamage(oneDef), combat.ComputeDamage(zeroDef), "scenario C: defense clamps to 1")
}

func TestComputeDamage_Modifiers(t *testing.T) {
	tests := []struct {
		name     string
		stab     bool
		crit     bool
		variance float64
		want     int
	}{
		{"stab", true, false, 1, 7},
		{"crit", false, true, 1, 7},
		{"stab and crit", true, true, 1, 11},
		{"low variance", false, false, 0.85, 4},
	}
	for _, tc := range tests {
		in := baseInput()
		in.STAB, in.Critical, in.Variance = tc.stab, tc.crit, tc.variance
		assert.Equal(t, tc.want, combat.ComputeDamage(in), tc.name)
	}
}

func TestComputeDamage_ImmuneAndStatus(t *testing.T) {
	immune := baseInput()
	immune.TypeMultiplier = 0
	assert.Equal(t, 0, combat.ComputeDamage(immune))

	status := baseInput()
	status.Power = 0
	assert.Equal(t, 0, combat.ComputeDamage(status))
}

func TestComputeDamage_FloorsAtOne(t *testing.T) {
	in := combat.DamageInput{Level: 1, Attack: 1, Defense: 500, Power: 1, TypeMultiplier: 0.5, Variance: 0.85}
	assert.Equal(t, 1, combat.ComputeDamage(in))
}

func drawInput(rt *rapid.T) combat.DamageInput {
	return combat.DamageInput{
		Level:          rapid.IntRange(1, 100).Draw(rt, "level"),
		Attack:         rapid.IntRange(1, 255).Draw(rt, "attack"),
		Defense:        rapid.IntRange(1, 255).Draw(rt, "defense"),
		Power:          rapid.IntRange(1, 250).Draw(rt, "power"),
		TypeMultiplier: rapid.SampledFrom([]float64{0, 0.5, 1, 2}).Draw(rt, "type"),
		STAB:           rapid.Bool().Draw(rt, "stab"),
		Critical:       rapid.Bool().Draw(rt, "crit"),
		Variance:       float64(rapid.IntRange(85, 100).Draw(rt, "variance")) / 100,
	}
}

func TestComputeDamage_Property_NonImmuneHitDealsAtLeastOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := drawInput(rt)
		dmg := combat.ComputeDamage(in)
		if in.TypeMultiplier > 0 {
			assert.GreaterOrEqual(rt, dmg, 1)
		} else {
			assert.Equal(rt, 0, dmg)
		}
	})
}

func TestComputeDamage_Property_MonotonicInAttack(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := drawInput(rt)
		stronger := in
		stronger.Attack += rapid.IntRange(0, 100).Draw(rt, "extra_attack")
		assert.GreaterOrEqual(rt, combat.ComputeDamage(stronger), combat.ComputeDamage(in))
	})
}

func TestComputeDamage_Property_MonotonicInDefense(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := drawInput(rt)
		in.Defense = rapid.IntRange(0, 255).Draw(rt, "defense0")
		tougher := in
		tougher.Defense += rapid.IntRange(0, 100).Draw(rt, "extra_defense")
		assert.LessOrEqual(rt, combat.ComputeDamage(tougher), combat.ComputeDamage(in))
	})
}
