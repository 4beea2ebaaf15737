package combat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/dice"
	"github.com/cory-johannsen/codemon/internal/game/typechart"
)

// experienceRoll awards 10-29 experience on victory.
var experienceRoll = dice.MustParse("1d20+9")

// TypeChart resolves type multipliers. *typechart.Table satisfies it.
type TypeChart interface {
	Multiplier(ctx context.Context, attackType, defenderType string) float64
}

// Battle is one player-versus-opponent encounter. A Battle is not safe for
// concurrent use; each action resolves fully before the next is accepted.
//
// Invariant: once State() is terminal it never changes.
type Battle struct {
	// ID identifies the battle in logs.
	ID       string
	Player   *creature.Combatant
	Opponent *creature.Combatant

	chart   TypeChart
	src     dice.Source
	logger  *zap.Logger
	state   State
	outcome Outcome
	turn    int
}

// NewBattle starts a battle in StateAwaitingAction.
//
// Precondition: all arguments must be non-nil.
func NewBattle(player, opponent *creature.Combatant, chart TypeChart, src dice.Source, logger *zap.Logger) *Battle {
	id := uuid.NewString()
	return &Battle{
		ID:       id,
		Player:   player,
		Opponent: opponent,
		chart:    chart,
		src:      src,
		logger:   logger.With(zap.String("battle_id", id)),
		state:    StateAwaitingAction,
	}
}

// State returns the current state.
func (b *Battle) State() State { return b.state }

// Outcome returns the result so far.
func (b *Battle) Outcome() Outcome { return b.outcome }

// TurnNumber returns the number of resolved exchanges.
func (b *Battle) TurnNumber() int { return b.turn }

// FirstActor returns the side that acts first: the strictly higher level, with
// ties going to the player.
func FirstActor(player, opponent *creature.Combatant) Side {
	if opponent.Level() > player.Level() {
		return SideOpponent
	}
	return SidePlayer
}

// Fight resolves one exchange with the player using the move at moveIndex
// (0-based) and the opponent using a uniformly random move.
//
// Precondition: State() == StateAwaitingAction.
// Postcondition: on ErrInvalidSelection or ErrBattleOver the battle is unchanged;
// otherwise State() is StateAwaitingAction or StateBattleOver.
func (b *Battle) Fight(ctx context.Context, moveIndex int) (Turn, error) {
	if b.state.Terminal() {
		return Turn{}, ErrBattleOver
	}
	playerMove, ok := b.Player.Move(moveIndex)
	if !ok {
		return Turn{}, fmt.Errorf("%w: move %d is not one of %d moves", ErrInvalidSelection, moveIndex+1, len(b.Player.Moves()))
	}

	b.state = StateResolvingTurn
	b.turn++

	opponentMoves := b.Opponent.Moves()
	opponentMove := opponentMoves[b.src.Intn(len(opponentMoves))]

	type action struct {
		side     Side
		attacker *creature.Combatant
		defender *creature.Combatant
		move     creature.Move
	}
	playerAction := action{SidePlayer, b.Player, b.Opponent, playerMove}
	opponentAction := action{SideOpponent, b.Opponent, b.Player, opponentMove}
	order := []action{playerAction, opponentAction}
	if FirstActor(b.Player, b.Opponent) == SideOpponent {
		order = []action{opponentAction, playerAction}
	}

	var events []Event
	for _, a := range order {
		if a.attacker.Fainted() {
			continue
		}
		events = append(events, b.resolveAttack(ctx, a.side, a.attacker, a.defender, a.move)...)
		if a.defender.Fainted() {
			events = append(events, Event{Kind: EventFainted, Actor: other(a.side), ActorName: a.defender.Name()})
			break
		}
	}

	switch {
	case b.Opponent.Fainted():
		b.state = StateBattleOver
		b.outcome = OutcomeVictory
		events = append(events, Event{Kind: EventVictory, Actor: SidePlayer, ActorName: b.Player.Name()})
		events = append(events, b.awardExperience()...)
	case b.Player.Fainted():
		b.state = StateBattleOver
		b.outcome = OutcomeDefeat
		events = append(events, Event{Kind: EventDefeat, Actor: SidePlayer, ActorName: b.Player.Name()})
	default:
		b.state = StateAwaitingAction
	}

	b.logger.Debug("turn resolved",
		zap.Int("turn", b.turn),
		zap.String("player_move", playerMove.Name),
		zap.String("opponent_move", opponentMove.Name),
		zap.Int("player_hp", b.Player.CurrentHP()),
		zap.Int("opponent_hp", b.Opponent.CurrentHP()),
		zap.Stringer("state", b.state),
	)
	if b.state.Terminal() {
		b.logger.Info("battle over",
			zap.Stringer("outcome", b.outcome),
			zap.Int("turns", b.turn),
		)
	}

	return Turn{Number: b.turn, Events: events, State: b.state, Outcome: b.outcome}, nil
}

// Flee ends the battle without resolving a turn.
//
// Postcondition: State() == StateFled unless the battle was already over.
func (b *Battle) Flee() (Turn, error) {
	if b.state.Terminal() {
		return Turn{}, ErrBattleOver
	}
	b.state = StateFled
	b.outcome = OutcomeFled
	b.logger.Info("player fled", zap.Int("turns", b.turn))
	return Turn{
		Number:  b.turn,
		Events:  []Event{{Kind: EventFled, Actor: SidePlayer, ActorName: b.Player.Name()}},
		State:   b.state,
		Outcome: b.outcome,
	}, nil
}

// resolveAttack performs one attack: accuracy check, critical check, type
// multiplier, STAB, variance, and damage application. A miss consumes the turn.
func (b *Battle) resolveAttack(ctx context.Context, side Side, attacker, defender *creature.Combatant, move creature.Move) []Event {
	events := []Event{{
		Kind:       EventMoveUsed,
		Actor:      side,
		ActorName:  attacker.Name(),
		TargetName: defender.Name(),
		Move:       move.Name,
	}}

	if b.src.Intn(100) >= move.Accuracy {
		return append(events, Event{Kind: EventMissed, Actor: side, ActorName: attacker.Name(), Move: move.Name})
	}
	if move.IsStatus() {
		return append(events, Event{Kind: EventNoEffect, Actor: side, ActorName: attacker.Name(), Move: move.Name})
	}

	crit := b.src.Intn(CriticalChance) == 0
	mult := b.chart.Multiplier(ctx, move.Type, defender.Type())
	variance := drawVariance(b.src)
	dmg := ComputeDamage(DamageInput{
		Level:          attacker.Level(),
		Attack:         attacker.Attack(),
		Defense:        defender.Defense(),
		Power:          move.Power,
		TypeMultiplier: mult,
		STAB:           move.SameType(attacker.Type()),
		Critical:       crit,
		Variance:       variance,
	})
	defender.ApplyDamage(dmg)

	if crit && dmg > 0 {
		events = append(events, Event{Kind: EventCriticalHit, Actor: side, ActorName: attacker.Name()})
	}
	if eff := typechart.Classify(mult); eff != typechart.EffectNeutral {
		events = append(events, Event{Kind: EventEffectiveness, Actor: side, Multiplier: mult, Effectiveness: eff})
	}
	if dmg > 0 {
		events = append(events, Event{
			Kind:       EventDamage,
			Actor:      side,
			ActorName:  attacker.Name(),
			TargetName: defender.Name(),
			Move:       move.Name,
			Damage:     dmg,
			TargetHP:   defender.CurrentHP(),
			Multiplier: mult,
		})
	}

	b.logger.Debug("attack resolved",
		zap.Stringer("side", side),
		zap.String("move", move.Name),
		zap.Bool("critical", crit),
		zap.Float64("multiplier", mult),
		zap.Float64("variance", variance),
		zap.Int("damage", dmg),
	)
	return events
}

// awardExperience rolls victory experience and raises the player's level by
// experience/10.
func (b *Battle) awardExperience() []Event {
	roll := dice.Roll(experienceRoll, b.src)
	exp := roll.Total()
	events := []Event{{Kind: EventExperience, Actor: SidePlayer, ActorName: b.Player.Name(), Experience: exp}}
	if b.Player.LevelUp(b.Player.Level() + exp/10) {
		events = append(events, Event{Kind: EventLevelUp, Actor: SidePlayer, ActorName: b.Player.Name(), Level: b.Player.Level()})
	}
	b.logger.Debug("experience awarded",
		zap.Stringer("roll", roll),
		zap.Int("level", b.Player.Level()),
	)
	return events
}

func other(s Side) Side {
	if s == SidePlayer {
		return SideOpponent
	}
	return SidePlayer
}
