package combat

import (
	"math"

	"github.com/cory-johannsen/codemon/internal/game/dice"
)

// Damage multipliers.
const (
	STABMultiplier     = 1.5
	CriticalMultiplier = 1.5
)

// CriticalChance is the denominator of the critical-hit probability (1 in 16).
const CriticalChance = 16

// Variance bounds, in hundredths.
const (
	minVariance = 85
	maxVariance = 100
)

// DamageInput holds everything the damage formula reads. Random elements
// (Critical, Variance) are drawn by the caller.
type DamageInput struct {
	Level          int
	Attack         int
	Defense        int
	Power          int
	TypeMultiplier float64
	STAB           bool
	Critical       bool
	// Variance is in [0.85, 1.00].
	Variance float64
}

// ComputeDamage applies the level-scaled damage formula:
//
//	base     = ((2*level/5 + 2) * power * (atk / max(1, def)) / 50) + 2
//	modifier = type * stab * crit * variance
//	damage   = max(1, floor(base * modifier))
//
// Postcondition: returns 0 when Power <= 0 or TypeMultiplier == 0; otherwise >= 1.
func ComputeDamage(in DamageInput) int {
	if in.Power <= 0 || in.TypeMultiplier <= 0 {
		return 0
	}
	level := float64(in.Level)
	ratio := float64(in.Attack) / float64(max(1, in.Defense))
	base := ((2*level/5+2)*float64(in.Power)*ratio)/50 + 2

	modifier := in.TypeMultiplier * in.Variance
	if in.STAB {
		modifier *= STABMultiplier
	}
	if in.Critical {
		modifier *= CriticalMultiplier
	}
	return max(1, int(math.Floor(base*modifier)))
}

// drawVariance returns a uniform variance in {0.85, 0.86, ..., 1.00}.
func drawVariance(src dice.Source) float64 {
	return float64(minVariance+src.Intn(maxVariance-minVariance+1)) / 100
}
