package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/codemon/internal/config"
	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/dex"
	"github.com/cory-johannsen/codemon/internal/game/dice"
	"github.com/cory-johannsen/codemon/internal/game/typechart"
	"github.com/cory-johannsen/codemon/internal/observability"
	"github.com/cory-johannsen/codemon/internal/pokeapi"
	"github.com/cory-johannsen/codemon/internal/shell"
	"github.com/cory-johannsen/codemon/internal/storage"
	"github.com/cory-johannsen/codemon/internal/storage/postgres"
	"github.com/cory-johannsen/codemon/internal/storage/sqlite"
)

// ConfigPath is the path of the YAML configuration file.
type ConfigPath string

// DataSource supplies species, the species list, and type relations.
type DataSource interface {
	creature.SpeciesSource
	creature.SpeciesLister
	typechart.RelationSource
}

// App is the fully wired application.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Shell  *shell.Shell
}

// ProviderSet builds an App from a config path and terminal streams.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideDataSource,
	ProvideTypeTable,
	ProvideStore,
	ProvideRandom,
	ProvideShell,
	wire.Struct(new(App), "*"),
)

// ProvideConfig loads and validates the configuration file.
func ProvideConfig(path ConfigPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// ProvideLogger builds the process logger. The cleanup flushes buffered entries.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideDataSource selects the PokeAPI client or the YAML fixture dex.
func ProvideDataSource(cfg config.Config, logger *zap.Logger) (DataSource, error) {
	switch cfg.Dex.Source {
	case "fixture":
		d, err := dex.LoadFromDir(cfg.Dex.FixtureDir)
		if err != nil {
			return nil, fmt.Errorf("loading fixture dex: %w", err)
		}
		if cfg.Battle.DexSize > d.Len() {
			logger.Warn("battle.dex_size exceeds fixture dex; some opponents will be MissingNo",
				zap.Int("dex_size", cfg.Battle.DexSize),
				zap.Int("species", d.Len()),
			)
		}
		logger.Info("fixture dex loaded",
			zap.String("dir", cfg.Dex.FixtureDir),
			zap.Int("species", d.Len()),
		)
		return d, nil
	default:
		logger.Info("using pokeapi",
			zap.String("base_url", cfg.PokeAPI.BaseURL),
			zap.Duration("timeout", cfg.PokeAPI.Timeout),
		)
		return pokeapi.NewClient(cfg.PokeAPI, logger), nil
	}
}

// ProvideTypeTable creates the shared type multiplier cache.
func ProvideTypeTable(src DataSource, logger *zap.Logger) *typechart.Table {
	return typechart.NewTable(src, logger)
}

// ProvideStore opens the configured save backend. The cleanup closes it.
func ProvideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage.Driver {
	case "postgres":
		store, err = postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
	default:
		store, err = sqlite.Open(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening save file: %w", err)
		}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing save store", zap.Error(err))
		}
	}, nil
}

// ProvideRandom returns the battle randomness source, logging every draw at
// debug. A non-zero battle.seed selects a reproducible source.
func ProvideRandom(cfg config.Config, logger *zap.Logger) dice.Source {
	if cfg.Battle.Seed != 0 {
		logger.Info("using seeded randomness", zap.Uint64("seed", cfg.Battle.Seed))
		return dice.NewLoggedSource(dice.NewSeededSource(cfg.Battle.Seed), logger)
	}
	return dice.NewLoggedSource(dice.NewCryptoSource(), logger)
}

// ProvideShell assembles the interactive shell.
func ProvideShell(
	in io.Reader,
	out io.Writer,
	cfg config.Config,
	src DataSource,
	table *typechart.Table,
	store storage.Store,
	rng dice.Source,
	logger *zap.Logger,
) *shell.Shell {
	return shell.New(in, out, shell.Deps{
		Species: src,
		Lister:  src,
		Chart:   table,
		Store:   store,
		Source:  rng,
	}, cfg.Battle, logger)
}
