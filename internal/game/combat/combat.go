// Package combat implements the Codemon battle engine: the damage formula,
// turn order, and the battle state machine.
package combat

import "errors"

// ErrInvalidSelection is returned when an action names a move index that does
// not exist. The battle state is unchanged.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrBattleOver is returned when an action is submitted after the battle has
// reached a terminal state.
var ErrBattleOver = errors.New("battle is over")

// State is a battle state machine state.
type State int

const (
	StateAwaitingAction State = iota
	StateResolvingTurn
	StateBattleOver
	StateFled
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateAwaitingAction:
		return "awaiting action"
	case StateResolvingTurn:
		return "resolving turn"
	case StateBattleOver:
		return "battle over"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible from s.
func (s State) Terminal() bool { return s == StateBattleOver || s == StateFled }

// Side distinguishes the player-controlled combatant from the opponent.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// String returns a human-readable side label.
func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "opponent"
}

// Outcome is the result of a battle from the player's point of view.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeFled:
		return "fled"
	default:
		return "pending"
	}
}
