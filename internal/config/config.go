// Package config provides Viper-based configuration loading for Codemon.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path. The interactive shell owns
	// stdout, so logs default to stderr.
	Output string `mapstructure:"output"`
}

// BattleConfig holds battle setup settings.
type BattleConfig struct {
	// StartingLevel is the level freshly spawned combatants start at.
	StartingLevel int `mapstructure:"starting_level"`
	// DexSize is the highest species number picked for random opponents and
	// the length of the species list.
	DexSize int `mapstructure:"dex_size"`
	// Seed makes every draw reproducible when non-zero. Zero uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// DexConfig selects where species and type data come from.
type DexConfig struct {
	// Source is "pokeapi" or "fixture".
	Source string `mapstructure:"source"`
	// FixtureDir is the directory of YAML dex files used when Source is "fixture".
	FixtureDir string `mapstructure:"fixture_dir"`
}

// PokeAPIConfig holds PokeAPI client settings.
type PokeAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxMoveLookups bounds how many of a species' moves are fetched while
	// searching for four damaging moves.
	MaxMoveLookups int `mapstructure:"max_move_lookups"`
}

// StorageConfig selects the save backend.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Dex      DexConfig      `mapstructure:"dex"`
	PokeAPI  PokeAPIConfig  `mapstructure:"pokeapi"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants. The database section is only
// checked when the postgres storage driver is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateBattle(c.Battle),
		validateDex(c.Dex),
		validatePokeAPI(c.Dex, c.PokeAPI),
		validateStorage(c.Storage),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.StartingLevel < 1 || b.StartingLevel > 100 {
		errs = append(errs, fmt.Sprintf("battle.starting_level must be 1-100, got %d", b.StartingLevel))
	}
	if b.DexSize < 1 {
		errs = append(errs, fmt.Sprintf("battle.dex_size must be >= 1, got %d", b.DexSize))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDex(d DexConfig) error {
	switch d.Source {
	case "pokeapi":
		return nil
	case "fixture":
		if d.FixtureDir == "" {
			return errors.New("dex.fixture_dir must not be empty when dex.source is fixture")
		}
		return nil
	default:
		return fmt.Errorf("dex.source must be one of [pokeapi, fixture], got %q", d.Source)
	}
}

func validatePokeAPI(d DexConfig, p PokeAPIConfig) error {
	if d.Source != "pokeapi" {
		return nil
	}
	var errs []string
	if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("pokeapi.base_url must be an absolute URL, got %q", p.BaseURL))
	}
	if p.Timeout <= 0 {
		errs = append(errs, "pokeapi.timeout must be positive")
	}
	if p.MaxMoveLookups < 1 {
		errs = append(errs, fmt.Sprintf("pokeapi.max_move_lookups must be >= 1, got %d", p.MaxMoveLookups))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case "sqlite":
		if s.SQLitePath == "" {
			return errors.New("storage.sqlite_path must not be empty when storage.driver is sqlite")
		}
		return nil
	case "postgres":
		return nil
	default:
		return fmt.Errorf("storage.driver must be one of [sqlite, postgres], got %q", s.Driver)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies CODEMON_
// environment variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("CODEMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance carrying only default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("battle.starting_level", 5)
	v.SetDefault("battle.dex_size", 151)
	v.SetDefault("battle.seed", 0)

	v.SetDefault("dex.source", "pokeapi")
	v.SetDefault("dex.fixture_dir", "content/dex")

	v.SetDefault("pokeapi.base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("pokeapi.timeout", "10s")
	v.SetDefault("pokeapi.max_move_lookups", 20)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "codemon.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "codemon")
	v.SetDefault("database.password", "codemon")
	v.SetDefault("database.name", "codemon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
