// Package storage defines the named-save persistence contract shared by the
// sqlite and postgres backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/codemon/internal/game/creature"
)

// ErrNotFound is returned (wrapped in a PersistenceError) when no save exists
// under the requested name.
var ErrNotFound = errors.New("save not found")

// ErrInvalidName is returned (wrapped) when a save name fails ValidateName.
var ErrInvalidName = errors.New("invalid save name")

// PersistenceError reports a failed store operation. Callers surface it to
// the user; in-memory battle state is never affected.
type PersistenceError struct {
	Op   string
	Name string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s saves: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s save %q: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap returns nil when err is nil, and otherwise a *PersistenceError for op.
func Wrap(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Name: name, Err: err}
}

// Save is one named snapshot of the player's combatant.
type Save struct {
	ID      uuid.UUID
	Name    string
	Player  creature.Record
	SavedAt time.Time
}

// Store persists named saves.
//
// Save overwrites an existing save of the same name and keeps its ID.
// Load returns a *PersistenceError wrapping ErrNotFound for unknown names.
// List returns all saves ordered by name.
type Store interface {
	Save(ctx context.Context, name string, player creature.Record) (Save, error)
	Load(ctx context.Context, name string) (Save, error)
	List(ctx context.Context) ([]Save, error)
	Close() error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateName checks that name is 1-64 characters of letters, digits, '_'
// or '-', starting with a letter or digit.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must be 1-64 letters, digits, '_' or '-'", ErrInvalidName, name)
	}
	return nil
}
