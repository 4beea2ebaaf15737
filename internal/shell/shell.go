// Package shell is the interactive terminal front end: the main menu, battle
// loop, species list, and save slots.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/config"
	"github.com/cory-johannsen/codemon/internal/game/combat"
	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/dice"
	"github.com/cory-johannsen/codemon/internal/storage"
)

// errQuit unwinds the menu loop when input is exhausted.
var errQuit = errors.New("quit")

const title = `
   ___  ___  ___  ___  __  __  ___  _  _
  / __|/ _ \|   \| __||  \/  |/ _ \| \| |
 | (__| (_) | |) | _| | |\/| | (_) | .' |
  \___|\___/|___/|___||_|  |_|\___/|_|\_|
        Codemon - Battle Simulator
`

// Deps are the collaborators a Shell drives.
type Deps struct {
	Species creature.SpeciesSource
	Lister  creature.SpeciesLister
	Chart   combat.TypeChart
	Store   storage.Store
	Source  dice.Source
}

// Shell runs the menu loop over a line-oriented input and a terminal output.
// A Shell is not safe for concurrent use.
type Shell struct {
	in     *bufio.Scanner
	out    io.Writer
	deps   Deps
	cfg    config.BattleConfig
	logger *zap.Logger
	// player is carried between battles and is what save/load operate on.
	player *creature.Combatant
}

// New creates a Shell.
//
// Precondition: every field of deps and logger must be non-nil; cfg must be valid.
func New(in io.Reader, out io.Writer, deps Deps, cfg config.BattleConfig, logger *zap.Logger) *Shell {
	return &Shell{
		in:     bufio.NewScanner(in),
		out:    out,
		deps:   deps,
		cfg:    cfg,
		logger: logger,
	}
}

// Player returns the current player combatant, or nil before the first battle
// or load.
func (s *Shell) Player() *creature.Combatant { return s.player }

// Run shows the main menu until the user exits or input ends.
//
// Postcondition: Returns nil on exit or end of input, or the first output error.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("%s%s%s", ClearScreen, Colorize(Cyan, title), "\n")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.println(Colorize(Bold+Green, "=== Main Menu ==="))
		s.println("1. Start battle")
		s.println("2. View species list")
		s.println("3. Save game")
		s.println("4. Load game")
		s.println("5. Credits")
		s.println("6. Exit")

		choice, err := s.readChoice("Enter your choice (1-6): ", 1, 6)
		if err != nil {
			return s.finish(err)
		}
		switch choice {
		case 1:
			err = s.startBattle(ctx)
		case 2:
			s.listSpecies(ctx)
		case 3:
			err = s.saveGame(ctx)
		case 4:
			err = s.loadGame(ctx)
		case 5:
			s.credits()
		case 6:
			s.println(Colorize(Cyan, "Thanks for playing Codemon!"))
			return nil
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) {
		s.println("")
		s.println(Colorize(Cyan, "Thanks for playing Codemon!"))
		return nil
	}
	return err
}

func (s *Shell) startBattle(ctx context.Context) error {
	if s.player != nil && !s.player.Fainted() {
		ok, err := s.confirm(fmt.Sprintf("Battle with %s (Lv%d)? [Y/n]: ", s.player.Name(), s.player.Level()))
		if err != nil {
			return err
		}
		if !ok {
			s.player = nil
		}
	}
	if s.player == nil || s.player.Fainted() {
		id, err := s.readLine("Choose your Codemon (dex number or name): ")
		if err != nil {
			return err
		}
		if id == "" {
			id = "1"
		}
		s.player = creature.Spawn(ctx, s.deps.Species, id, s.cfg.StartingLevel, s.logger)
	}

	opponentID := strconv.Itoa(s.deps.Source.Intn(s.cfg.DexSize) + 1)
	opponent := creature.Spawn(ctx, s.deps.Species, opponentID, s.player.Level(), s.logger)

	b := combat.NewBattle(s.player, opponent, s.deps.Chart, s.deps.Source, s.logger)
	s.logger.Info("battle started",
		zap.String("battle_id", b.ID),
		zap.String("player", s.player.Name()),
		zap.String("opponent", opponent.Name()),
	)
	s.println("")
	s.println(Colorize(Bold+BrightYellow, "=== Battle Start ==="))
	s.println(fmt.Sprintf("A wild %s appeared!", Colorize(Bold, opponent.Name())))
	s.println(fmt.Sprintf("Go, %s!", Colorize(Bold, s.player.Name())))

	for !b.State().Terminal() {
		s.println("")
		s.printf("%s", RenderStatus(b))
		s.printf("%s", RenderMoves(s.player.Moves()))

		turn, err := s.playerAction(ctx, b)
		if err != nil {
			return err
		}
		s.printf("%s", RenderTurn(turn))
	}

	if b.Outcome() != combat.OutcomeDefeat {
		s.player = healed(s.player)
		s.println(fmt.Sprintf("%s is fully rested.", s.player.Name()))
	}
	s.pause()
	return nil
}

// playerAction reads input until it maps to a valid action and returns the
// resolved turn.
func (s *Shell) playerAction(ctx context.Context, b *combat.Battle) (combat.Turn, error) {
	for {
		line, err := s.readLine(fmt.Sprintf("Choose a move (1-%d) or R to run: ", len(s.player.Moves())))
		if err != nil {
			return combat.Turn{}, err
		}
		if strings.EqualFold(line, "r") || strings.EqualFold(line, "run") {
			return b.Flee()
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			s.println(Colorize(Red, "Invalid input. Enter a move number or R."))
			continue
		}
		turn, err := b.Fight(ctx, n-1)
		if errors.Is(err, combat.ErrInvalidSelection) {
			s.println(Colorf(Red, "Please enter a number between 1 and %d.", len(s.player.Moves())))
			continue
		}
		return turn, err
	}
}

func (s *Shell) listSpecies(ctx context.Context) {
	names, err := s.deps.Lister.ListSpecies(ctx, s.cfg.DexSize)
	if err != nil {
		s.logger.Warn("listing species failed", zap.Error(err))
		s.println(Colorize(Red, "Failed to load the species list."))
		return
	}
	s.println(Colorize(Bold+Green, "--- Species List ---"))
	for i, n := range names {
		s.println(fmt.Sprintf("%3d. %s", i+1, n))
	}
	s.pause()
}

func (s *Shell) saveGame(ctx context.Context) error {
	if s.player == nil {
		s.println(Colorize(Yellow, "Nothing to save yet. Start a battle first."))
		return nil
	}
	name, err := s.readLine("Enter save name: ")
	if err != nil {
		return err
	}
	if _, err := s.deps.Store.Save(ctx, name, s.player.Snapshot()); err != nil {
		s.reportPersistence(err)
		return nil
	}
	s.println(Colorf(Green, "Game saved as %q.", name))
	return nil
}

func (s *Shell) loadGame(ctx context.Context) error {
	saves, err := s.deps.Store.List(ctx)
	if err != nil {
		s.reportPersistence(err)
		return nil
	}
	if len(saves) == 0 {
		s.println(Colorize(Yellow, "No saved games."))
		return nil
	}
	s.println(Colorize(Bold+Green, "--- Saved Games ---"))
	for _, sv := range saves {
		s.println(fmt.Sprintf("  %-16s %s Lv%d  %s", sv.Name, sv.Player.Name, sv.Player.Level,
			Colorize(Dim, sv.SavedAt.Local().Format("2006-01-02 15:04"))))
	}

	name, err := s.readLine("Enter save name to load: ")
	if err != nil {
		return err
	}
	sv, err := s.deps.Store.Load(ctx, name)
	if err != nil {
		s.reportPersistence(err)
		return nil
	}
	c, err := creature.Restore(sv.Player)
	if err != nil {
		s.logger.Warn("corrupt save", zap.String("name", name), zap.Error(err))
		s.println(Colorf(Red, "Save %q is corrupt.", name))
		return nil
	}
	s.player = c
	s.println(Colorf(Green, "Loaded %s (Lv%d, %d/%d HP).", c.Name(), c.Level(), c.CurrentHP(), c.MaxHP()))
	return nil
}

// reportPersistence shows a store failure to the user. Game state is untouched.
func (s *Shell) reportPersistence(err error) {
	s.logger.Warn("persistence failure", zap.Error(err))
	var pe *storage.PersistenceError
	switch {
	case errors.Is(err, storage.ErrNotFound) && errors.As(err, &pe):
		s.println(Colorf(Red, "No save named %q.", pe.Name))
	case errors.Is(err, storage.ErrInvalidName):
		s.println(Colorize(Red, "Save names are 1-64 letters, digits, '_' or '-'."))
	case errors.As(err, &pe):
		s.println(Colorf(Red, "Could not %s the game: %v", pe.Op, pe.Err))
	default:
		s.println(Colorf(Red, "Storage error: %v", err))
	}
}

func (s *Shell) credits() {
	s.println(Colorize(Bold+Blue, "=== Credits ==="))
	s.println("Species, move, and type data: PokeAPI (https://pokeapi.co)")
	s.println("Battle engine and shell: the Codemon authors")
	s.pause()
}

// healed returns a copy of c restored to full health.
func healed(c *creature.Combatant) *creature.Combatant {
	rec := c.Snapshot()
	rec.CurrentHP = rec.MaxHP
	r, err := creature.Restore(rec)
	if err != nil {
		return c
	}
	return r
}

func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) readChoice(prompt string, lo, hi int) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		s.println(Colorf(Red, "Please enter a number between %d and %d.", lo, hi))
	}
}

func (s *Shell) confirm(prompt string) (bool, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// pause waits for Enter. End of input is left for the next read to report.
func (s *Shell) pause() {
	s.printf("%s", Colorize(Dim, "Press Enter to continue..."))
	s.in.Scan()
	s.println("")
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
