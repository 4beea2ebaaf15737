package combat

import "github.com/cory-johannsen/codemon/internal/game/typechart"

// EventKind identifies one narration beat of a turn.
type EventKind int

const (
	EventMoveUsed EventKind = iota
	EventMissed
	EventNoEffect
	EventCriticalHit
	EventEffectiveness
	EventDamage
	EventFainted
	EventVictory
	EventDefeat
	EventExperience
	EventLevelUp
	EventFled
)

// String returns a human-readable event kind label.
func (k EventKind) String() string {
	switch k {
	case EventMoveUsed:
		return "move used"
	case EventMissed:
		return "missed"
	case EventNoEffect:
		return "no effect"
	case EventCriticalHit:
		return "critical hit"
	case EventEffectiveness:
		return "effectiveness"
	case EventDamage:
		return "damage"
	case EventFainted:
		return "fainted"
	case EventVictory:
		return "victory"
	case EventDefeat:
		return "defeat"
	case EventExperience:
		return "experience"
	case EventLevelUp:
		return "level up"
	case EventFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Event records one thing that happened during a turn. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind EventKind
	// Actor is the side the event is about: the attacker for move events, the
	// fainted side for EventFainted, the player for post-battle events.
	Actor      Side
	ActorName  string
	TargetName string
	Move       string
	Damage     int
	// TargetHP is the defender's health after EventDamage.
	TargetHP      int
	Multiplier    float64
	Effectiveness typechart.Effectiveness
	Experience    int
	Level         int
}

// Turn is the result of one engine action.
type Turn struct {
	// Number is the 1-based exchange count; Flee does not advance it.
	Number  int
	Events  []Event
	State   State
	Outcome Outcome
}
