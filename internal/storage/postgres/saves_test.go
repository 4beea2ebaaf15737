package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/config"
	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/storage"
	"github.com/cory-johannsen/codemon/internal/storage/postgres"
	"github.com/cory-johannsen/codemon/internal/testutil"
)

func setupRepo(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewSaveRepository(pc.Pool, zap.NewNop())
}

func sampleRecord() creature.Record {
	return creature.Record{
		Name:      "Squirtle",
		Type:      "water",
		Level:     9,
		CurrentHP: 30,
		MaxHP:     44,
		Attack:    48,
		Defense:   65,
		Moves: []creature.Move{
			{Name: "Tackle", Type: "normal", Power: 40, Accuracy: 100, DamageClass: creature.Physical},
			{Name: "Water Gun", Type: "water", Power: 40, Accuracy: 100, DamageClass: creature.Special},
		},
	}
}

func TestSaveRepository(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		saved, err := repo.Save(ctx, "blue", sampleRecord())
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), saved.SavedAt, time.Minute)

		loaded, err := repo.Load(ctx, "blue")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, loaded.ID)
		assert.Equal(t, sampleRecord(), loaded.Player)
	})

	t.Run("overwrite keeps id", func(t *testing.T) {
		first, err := repo.Save(ctx, "green", sampleRecord())
		require.NoError(t, err)
		rec := sampleRecord()
		rec.Level = 10
		second, err := repo.Save(ctx, "green", rec)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		loaded, err := repo.Load(ctx, "green")
		require.NoError(t, err)
		assert.Equal(t, 10, loaded.Player.Level)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing")
		var pe *storage.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "load", pe.Op)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := repo.Save(ctx, "drop table", sampleRecord())
		assert.ErrorIs(t, err, storage.ErrInvalidName)
	})

	t.Run("list ordered", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "blue", all[0].Name)
		assert.Equal(t, "green", all[1].Name)
	})
}

func TestOpen(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	t.Run("schema missing", func(t *testing.T) {
		_, err := postgres.Open(ctx, pc.Config, zap.NewNop())
		var pe *storage.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "open", pe.Op)
		assert.ErrorIs(t, err, postgres.ErrSchemaMissing)
	})

	t.Run("migrated", func(t *testing.T) {
		pc.ApplyMigrations(t)
		repo, err := postgres.Open(ctx, pc.Config, zap.NewNop())
		require.NoError(t, err)
		defer repo.Close()
		assert.NoError(t, repo.Ping(ctx, 5*time.Second))
	})
}

func TestOpen_Unreachable(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "nobody",
		Password:        "nobody",
		Name:            "nothing",
		SSLMode:         "disable",
		MaxConns:        1,
		MinConns:        0,
		MaxConnLifetime: time.Minute,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := postgres.Open(ctx, cfg, zap.NewNop())
	require.Error(t, err)
	var pe *storage.PersistenceError
	assert.True(t, errors.As(err, &pe))
}
