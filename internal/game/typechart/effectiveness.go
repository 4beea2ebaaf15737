package typechart

// Effectiveness is the narration tier of a multiplier.
type Effectiveness int

const (
	EffectNeutral Effectiveness = iota
	EffectImmune
	EffectNotVery
	EffectSuper
)

// Classify maps a multiplier onto its narration tier.
func Classify(multiplier float64) Effectiveness {
	switch {
	case multiplier == 0:
		return EffectImmune
	case multiplier < 1:
		return EffectNotVery
	case multiplier > 1:
		return EffectSuper
	default:
		return EffectNeutral
	}
}

// String returns a human-readable label.
func (e Effectiveness) String() string {
	switch e {
	case EffectImmune:
		return "no effect"
	case EffectNotVery:
		return "not very effective"
	case EffectSuper:
		return "super effective"
	default:
		return "neutral"
	}
}
