// Package dex provides an in-memory species and type data source loaded from
// YAML fixture files, for offline play and tests.
package dex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/typechart"
)

// yamlDexFile is the top-level YAML structure for dex files. A file may carry
// species, types, or both.
type yamlDexFile struct {
	Species []creature.Species            `yaml:"species"`
	Types   map[string]typechart.Relations `yaml:"types"`
}

// Dex is an immutable species and type catalogue. It implements
// creature.SpeciesSource, creature.SpeciesLister, and typechart.RelationSource.
// All methods are safe for concurrent use.
type Dex struct {
	species []creature.Species
	index   map[string]int
	types   map[string]typechart.Relations
}

// LoadFromBytes parses and validates a single dex document.
//
// Precondition: data must be valid YAML conforming to the dex schema.
// Postcondition: Returns a validated Dex or a non-nil error.
func LoadFromBytes(data []byte) (*Dex, error) {
	d := &Dex{
		index: make(map[string]int),
		types: make(map[string]typechart.Relations),
	}
	if err := d.add(data); err != nil {
		return nil, err
	}
	d.sort()
	return d, nil
}

// LoadFromDir loads every YAML file in dir into one Dex.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Dex or the first error encountered.
func LoadFromDir(dir string) (*Dex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dex directory %s: %w", dir, err)
	}

	d := &Dex{
		index: make(map[string]int),
		types: make(map[string]typechart.Relations),
	}
	files := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := d.add(data); err != nil {
			return nil, fmt.Errorf("loading dex from %s: %w", name, err)
		}
		files++
	}
	if files == 0 {
		return nil, fmt.Errorf("no dex files found in %s", dir)
	}
	d.sort()
	return d, nil
}

func (d *Dex) add(data []byte) error {
	var file yamlDexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing dex YAML: %w", err)
	}
	var errs []error
	for _, sp := range file.Species {
		if err := validateSpecies(sp); err != nil {
			errs = append(errs, err)
			continue
		}
		sp.Type = creature.NormalizeType(sp.Type)
		if _, dup := d.index[sp.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate species id %q", sp.ID))
			continue
		}
		if _, dup := d.index[strings.ToLower(sp.Name)]; dup {
			errs = append(errs, fmt.Errorf("duplicate species name %q", sp.Name))
			continue
		}
		d.species = append(d.species, sp)
		d.index[sp.ID] = -1
		d.index[strings.ToLower(sp.Name)] = -1
	}
	for typ, rel := range file.Types {
		key := creature.NormalizeType(typ)
		if _, dup := d.types[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate type %q", key))
			continue
		}
		d.types[key] = rel
	}
	return errors.Join(errs...)
}

// sort orders species by numeric id and rebuilds the lookup index.
func (d *Dex) sort() {
	slices.SortStableFunc(d.species, func(a, b creature.Species) int {
		if len(a.ID) != len(b.ID) {
			return len(a.ID) - len(b.ID)
		}
		return strings.Compare(a.ID, b.ID)
	})
	for i, sp := range d.species {
		d.index[sp.ID] = i
		d.index[strings.ToLower(sp.Name)] = i
	}
}

func validateSpecies(sp creature.Species) error {
	var errs []error
	if sp.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	for _, r := range sp.ID {
		if r < '0' || r > '9' {
			errs = append(errs, fmt.Errorf("id must be a dex number, got %q", sp.ID))
			break
		}
	}
	if sp.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if sp.Type == "" {
		errs = append(errs, errors.New("type must not be empty"))
	}
	if sp.HP < 1 || sp.Attack < 1 || sp.Defense < 1 {
		errs = append(errs, errors.New("hp, attack, and defense must be >= 1"))
	}
	for _, m := range sp.Moves {
		if m.Name == "" {
			errs = append(errs, errors.New("move name must not be empty"))
		}
		if m.Power < 0 {
			errs = append(errs, fmt.Errorf("move %q power must be >= 0", m.Name))
		}
		if m.Accuracy < 0 || m.Accuracy > 100 {
			errs = append(errs, fmt.Errorf("move %q accuracy must be 0-100", m.Name))
		}
		if !m.DamageClass.Valid() {
			errs = append(errs, fmt.Errorf("move %q has unknown damage class %q", m.Name, m.DamageClass))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %q: %w", sp.Name, errors.Join(errs...))
	}
	return nil
}

// Len returns the number of species in the dex.
func (d *Dex) Len() int { return len(d.species) }

// Species looks up a species by dex number or case-insensitive name.
//
// Postcondition: Returns a copy of the species, or an error wrapping
// creature.ErrDataUnavailable when id is unknown.
func (d *Dex) Species(ctx context.Context, id string) (creature.Species, error) {
	if err := ctx.Err(); err != nil {
		return creature.Species{}, fmt.Errorf("species %q: %w: %w", id, creature.ErrDataUnavailable, err)
	}
	i, ok := d.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return creature.Species{}, fmt.Errorf("species %q not in dex: %w", id, creature.ErrDataUnavailable)
	}
	sp := d.species[i]
	sp.Moves = slices.Clone(sp.Moves)
	return sp, nil
}

// ListSpecies returns up to limit species names in dex order.
func (d *Dex) ListSpecies(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("listing species: %w: %w", creature.ErrDataUnavailable, err)
	}
	n := min(max(limit, 0), len(d.species))
	out := make([]string, 0, n)
	for _, sp := range d.species[:n] {
		out = append(out, sp.Name)
	}
	return out, nil
}

// TypeRelations returns the damage relations of attackType.
//
// Postcondition: Returns an error wrapping creature.ErrDataUnavailable when the
// type is unknown.
func (d *Dex) TypeRelations(ctx context.Context, attackType string) (typechart.Relations, error) {
	if err := ctx.Err(); err != nil {
		return typechart.Relations{}, fmt.Errorf("type %q: %w: %w", attackType, creature.ErrDataUnavailable, err)
	}
	rel, ok := d.types[creature.NormalizeType(attackType)]
	if !ok {
		return typechart.Relations{}, fmt.Errorf("type %q not in dex: %w", attackType, creature.ErrDataUnavailable)
	}
	return rel, nil
}
