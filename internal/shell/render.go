package shell

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/codemon/internal/game/combat"
	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/typechart"
)

// hpBarWidth is the number of cells in a health bar.
const hpBarWidth = 20

// HPBar renders a fixed-width health bar, green above half, yellow above a
// fifth, red otherwise.
//
// Postcondition: StripANSI of the result has exactly hpBarWidth cells between brackets.
func HPBar(current, maximum int) string {
	if maximum < 1 {
		maximum = 1
	}
	current = max(0, min(current, maximum))
	filled := current * hpBarWidth / maximum
	if current > 0 && filled == 0 {
		filled = 1
	}
	color := Green
	switch {
	case current*5 <= maximum:
		color = Red
	case current*2 <= maximum:
		color = Yellow
	}
	return "[" + Colorize(color, strings.Repeat("█", filled)) + strings.Repeat("░", hpBarWidth-filled) + "]"
}

// RenderCombatant renders one status line: name, level, type, bar, and HP.
func RenderCombatant(label string, c *creature.Combatant) string {
	return fmt.Sprintf("%s %s Lv%d %s %s %d/%d",
		Colorf(Dim, "%-8s", label),
		Colorize(Bold, c.Name()),
		c.Level(),
		Colorf(Magenta, "(%s)", c.Type()),
		HPBar(c.CurrentHP(), c.MaxHP()),
		c.CurrentHP(), c.MaxHP(),
	)
}

// RenderStatus renders both combatants above the move menu.
func RenderStatus(b *combat.Battle) string {
	var sb strings.Builder
	sb.WriteString(Colorf(Cyan, "--- Turn %d ---", b.TurnNumber()+1))
	sb.WriteString("\n")
	sb.WriteString(RenderCombatant("Foe", b.Opponent))
	sb.WriteString("\n")
	sb.WriteString(RenderCombatant("You", b.Player))
	sb.WriteString("\n")
	return sb.String()
}

// RenderMoves renders the numbered move menu plus the run option.
func RenderMoves(moves []creature.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		power := "-"
		if !m.IsStatus() {
			power = fmt.Sprintf("%d", m.Power)
		}
		sb.WriteString(fmt.Sprintf("  %s %-14s %s pow %-3s acc %d\n",
			Colorf(BrightCyan, "%d.", i+1), m.Name, Colorf(Magenta, "%-8s", m.Type), power, m.Accuracy))
	}
	sb.WriteString(fmt.Sprintf("  %s Run\n", Colorize(BrightCyan, "R.")))
	return sb.String()
}

// RenderEvent narrates one engine event. Events with no narration render as "".
func RenderEvent(ev combat.Event) string {
	actorColor := Green
	if ev.Actor == combat.SideOpponent {
		actorColor = Red
	}
	switch ev.Kind {
	case combat.EventMoveUsed:
		return Colorf(actorColor, "%s used %s!", ev.ActorName, ev.Move)
	case combat.EventMissed:
		return Colorize(Dim, ev.ActorName+"'s attack missed!")
	case combat.EventNoEffect:
		return Colorize(Dim, "But nothing happened.")
	case combat.EventCriticalHit:
		return Colorize(BrightYellow, "A critical hit!")
	case combat.EventEffectiveness:
		switch ev.Effectiveness {
		case typechart.EffectSuper:
			return Colorize(BrightGreen, "It's super effective!")
		case typechart.EffectNotVery:
			return Colorize(Blue, "It's not very effective...")
		case typechart.EffectImmune:
			return Colorize(Yellow, "It had no effect...")
		}
		return ""
	case combat.EventDamage:
		return fmt.Sprintf("%s took %s damage (%d HP left).",
			ev.TargetName, Colorf(BrightRed, "%d", ev.Damage), ev.TargetHP)
	case combat.EventFainted:
		return Colorf(Bold+actorColor, "%s fainted!", ev.ActorName)
	case combat.EventVictory:
		return Colorize(Bold+BrightGreen, "=== You won! ===")
	case combat.EventDefeat:
		return Colorize(Bold+BrightRed, "=== You lost! ===")
	case combat.EventExperience:
		return Colorf(Cyan, "%s gained %d experience.", ev.ActorName, ev.Experience)
	case combat.EventLevelUp:
		return Colorf(BrightYellow, "%s grew to level %d!", ev.ActorName, ev.Level)
	case combat.EventFled:
		return Colorize(Yellow, "Got away safely!")
	default:
		return ""
	}
}

// RenderTurn narrates every event of a turn, one per line.
func RenderTurn(turn combat.Turn) string {
	var sb strings.Builder
	for _, ev := range turn.Events {
		if line := RenderEvent(ev); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
