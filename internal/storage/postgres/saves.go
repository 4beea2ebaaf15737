package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/storage"
)

var _ storage.Store = (*SaveRepository)(nil)

// SaveRepository is a storage.Store over the saves table. The player record is
// stored as JSONB.
type SaveRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewSaveRepository creates a SaveRepository that owns pool.
//
// Precondition: pool must be connected and migrated; logger must be non-nil.
func NewSaveRepository(pool *pgxpool.Pool, logger *zap.Logger) *SaveRepository {
	return &SaveRepository{pool: pool, logger: logger}
}

// Save inserts or replaces the save called name.
//
// Precondition: name must pass storage.ValidateName.
// Postcondition: Returns the stored Save, keeping the ID of any save it replaced.
func (r *SaveRepository) Save(ctx context.Context, name string, player creature.Record) (storage.Save, error) {
	if err := storage.ValidateName(name); err != nil {
		return storage.Save{}, storage.Wrap("save", name, err)
	}
	payload, err := json.Marshal(player)
	if err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("encoding player: %w", err))
	}

	var (
		id      string
		savedAt time.Time
	)
	err = r.pool.QueryRow(ctx, `
		INSERT INTO saves (id, name, player, saved_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET player = EXCLUDED.player, saved_at = NOW()
		RETURNING id, saved_at`,
		uuid.NewString(), name, string(payload),
	).Scan(&id, &savedAt)
	if err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("upserting: %w", err))
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return storage.Save{}, storage.Wrap("save", name, fmt.Errorf("parsing id: %w", err))
	}
	r.logger.Info("game saved",
		zap.String("name", name),
		zap.String("save_id", id),
		zap.String("player", player.Name),
	)
	return storage.Save{ID: parsed, Name: name, Player: player, SavedAt: savedAt.UTC()}, nil
}

// Load returns the save called name.
//
// Postcondition: Returns a *storage.PersistenceError wrapping storage.ErrNotFound
// when no such save exists.
func (r *SaveRepository) Load(ctx context.Context, name string) (storage.Save, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, player, saved_at FROM saves WHERE name = $1`, name)
	sv, err := scanSave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Save{}, storage.Wrap("load", name, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Save{}, storage.Wrap("load", name, err)
	}
	return sv, nil
}

// List returns every save ordered by name.
func (r *SaveRepository) List(ctx context.Context) ([]storage.Save, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, player, saved_at FROM saves ORDER BY name`)
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

// Close closes the underlying pool.
func (r *SaveRepository) Close() error {
	r.pool.Close()
	return nil
}

func scanSave(row pgx.Row) (storage.Save, error) {
	var (
		id, name string
		payload  []byte
		savedAt  time.Time
	)
	if err := row.Scan(&id, &name, &payload, &savedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Save{}, err
		}
		return storage.Save{}, fmt.Errorf("scanning save row: %w", err)
	}
	sv := storage.Save{Name: name, SavedAt: savedAt.UTC()}
	var err error
	if sv.ID, err = uuid.Parse(id); err != nil {
		return storage.Save{}, fmt.Errorf("parsing id of %q: %w", name, err)
	}
	if err := json.Unmarshal(payload, &sv.Player); err != nil {
		return storage.Save{}, fmt.Errorf("decoding player of %q: %w", name, err)
	}
	return sv, nil
}
