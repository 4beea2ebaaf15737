// Package sqlite provides a local-file save store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id       TEXT    PRIMARY KEY,
	name     TEXT    NOT NULL UNIQUE,
	player   TEXT    NOT NULL,
	saved_at INTEGER NOT NULL
);`

var _ storage.Store = (*Store)(nil)

// Store is a storage.Store over a single SQLite database file.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and bootstraps the
// schema. Use ":memory:" for a throwaway database.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a ready Store or a *storage.PersistenceError.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, storage.Wrap("open", "", fmt.Errorf("creating %s: %w", dir, err))
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storage.Wrap("open", "", fmt.Errorf("opening %s: %w", path, err))
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storage.Wrap("open", "", fmt.Errorf("pinging %s: %w", path, err))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, storage.Wrap("open", "", fmt.Errorf("creating schema: %w", err))
	}
	logger.Debug("sqlite save store opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Save inserts or replaces the save called name.
//
// Precondition: name must pass storage.ValidateName.
// Postcondition: Returns the stored Save, keeping the ID of any save it replaced.
func (s *Store) Save(ctx context.Context, name string, player creature.Record) (storage.Save, error) {
	if err := storage.ValidateName(name); err != nil {
		return storage.Save{}, storage.Wrap("save", name, err)
	}
	payload, err := json.Marshal(player)
	if err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("encoding player: %w", err))
	}

	saved := storage.Save{
		ID:      uuid.New(),
		Name:    name,
		Player:  player,
		SavedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO saves (id, name, player, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET player = excluded.player, saved_at = excluded.saved_at
		RETURNING id`,
		saved.ID.String(), name, string(payload), saved.SavedAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("upserting: %w", err))
	}
	if saved.ID, err = uuid.Parse(id); err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("parsing id: %w", err))
	}

	s.logger.Info("game saved",
		zap.String("name", name),
		zap.String("save_id", id),
		zap.String("player", player.Name),
	)
	return saved, nil
}

// Load returns the save called name.
//
// Postcondition: Returns a *storage.PersistenceError wrapping storage.ErrNotFound
// when no such save exists.
func (s *Store) Load(ctx context.Context, name string) (storage.Save, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, player, saved_at FROM saves WHERE name = ?`, name)
	sv, err := scanSave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Save{}, storage.Wrap("load", name, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Save{}, storage.Wrap("load", name, err)
	}
	return sv, nil
}

// List returns every save ordered by name.
func (s *Store) List(ctx context.Context) ([]storage.Save, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, player, saved_at FROM saves ORDER BY name`)
	if err != nil {
		return nil, storage.Wrap("list", "", fmt.Errorf("querying: %w", err))
	}
	defer rows.Close()

	saves := make([]storage.Save, 0)
	for rows.Next() {
		sv, err := scanSave(rows)
		if err != nil {
			return nil, storage.Wrap("list", "", err)
		}
		saves = append(saves, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list", "", err)
	}
	return saves, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSave(row scanner) (storage.Save, error) {
	var (
		id, name, payload string
		savedAt           int64
	)
	if err := row.Scan(&id, &name, &payload, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Save{}, err
		}
		return storage.Save{}, fmt.Errorf("scanning save row: %w", err)
	}
	sv := storage.Save{Name: name, SavedAt: time.UnixMilli(savedAt).UTC()}
	var err error
	if sv.ID, err = uuid.Parse(id); err != nil {
		return storage.Save{}, fmt.Errorf("parsing id of %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(payload), &sv.Player); err != nil {
		return storage.Save{}, fmt.Errorf("decoding player of %q: %w", name, err)
	}
	return sv, nil
}
