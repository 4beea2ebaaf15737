// Package pokeapi implements the species, move, and type data sources on top
// of the public PokeAPI REST service.
package pokeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/codemon/internal/config"
	"github.com/cory-johannsen/codemon/internal/game/creature"
	"github.com/cory-johannsen/codemon/internal/game/typechart"
)

const userAgent = "codemon/1.0"

// Client fetches game data from a PokeAPI-compatible server.
// All methods are safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	maxMoveLookups int
	logger         *zap.Logger
}

// NewClient creates a Client from cfg.
//
// Precondition: cfg.BaseURL must be an absolute URL; logger must be non-nil.
// Postcondition: Returns a ready Client. No request is made.
func NewClient(cfg config.PokeAPIConfig, logger *zap.Logger) *Client {
	lookups := cfg.MaxMoveLookups
	if lookups < 1 {
		lookups = creature.MaxMoves
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           &http.Client{Timeout: cfg.Timeout},
		maxMoveLookups: lookups,
		logger:         logger,
	}
}

// Species fetches /pokemon/{id}. The species keeps its first listed type and
// the first four moves with power > 0, examining at most maxMoveLookups moves.
// Moves that fail to load are skipped.
//
// Postcondition: Returns species data or an error wrapping creature.ErrDataUnavailable.
func (c *Client) Species(ctx context.Context, id string) (creature.Species, error) {
	doc, err := c.get(ctx, "/pokemon/"+url.PathEscape(strings.ToLower(strings.TrimSpace(id))))
	if err != nil {
		return creature.Species{}, fmt.Errorf("loading species %q: %w", id, err)
	}
	name := doc.Get("name").String()
	if name == "" {
		return creature.Species{}, fmt.Errorf("loading species %q: missing name: %w", id, creature.ErrDataUnavailable)
	}

	sp := creature.Species{
		ID:      strconv.FormatInt(doc.Get("id").Int(), 10),
		Name:    DisplayName(name),
		Type:    doc.Get("types.0.type.name").String(),
		HP:      int(doc.Get(`stats.#(stat.name=="hp").base_stat`).Int()),
		Attack:  int(doc.Get(`stats.#(stat.name=="attack").base_stat`).Int()),
		Defense: int(doc.Get(`stats.#(stat.name=="defense").base_stat`).Int()),
	}

	names := doc.Get("moves.#.move.name").Array()
	for i, mv := range names {
		if i >= c.maxMoveLookups || len(sp.Moves) >= creature.MaxMoves {
			break
		}
		m, err := c.Move(ctx, mv.String())
		if err != nil {
			if ctx.Err() != nil {
				return creature.Species{}, fmt.Errorf("loading species %q: %w: %w", id, creature.ErrDataUnavailable, ctx.Err())
			}
			c.logger.Debug("skipping move",
				zap.String("species", sp.Name),
				zap.String("move", mv.String()),
				zap.Error(err),
			)
			continue
		}
		if m.IsStatus() {
			continue
		}
		sp.Moves = append(sp.Moves, m)
	}
	return sp, nil
}

// Move fetches /move/{name}. A null power reads as 0 and a null accuracy as 100.
//
// Postcondition: Returns the move or an error wrapping creature.ErrDataUnavailable.
func (c *Client) Move(ctx context.Context, name string) (creature.Move, error) {
	doc, err := c.get(ctx, "/move/"+url.PathEscape(strings.ToLower(name)))
	if err != nil {
		return creature.Move{}, fmt.Errorf("loading move %q: %w", name, err)
	}
	accuracy := 100
	if acc := doc.Get("accuracy"); acc.Exists() && acc.Type != gjson.Null {
		accuracy = int(acc.Int())
	}
	return creature.Move{
		Name:        DisplayName(name),
		Type:        doc.Get("type.name").String(),
		Power:       int(doc.Get("power").Int()),
		Accuracy:    accuracy,
		DamageClass: creature.DamageClass(doc.Get("damage_class.name").String()),
	}, nil
}

// TypeRelations fetches /type/{name} and returns its outgoing damage relations.
//
// Postcondition: Returns the relations or an error wrapping creature.ErrDataUnavailable.
func (c *Client) TypeRelations(ctx context.Context, attackType string) (typechart.Relations, error) {
	doc, err := c.get(ctx, "/type/"+url.PathEscape(attackType))
	if err != nil {
		return typechart.Relations{}, fmt.Errorf("loading type %q: %w", attackType, err)
	}
	rel := doc.Get("damage_relations")
	if !rel.Exists() {
		return typechart.Relations{}, fmt.Errorf("loading type %q: missing damage_relations: %w", attackType, creature.ErrDataUnavailable)
	}
	return typechart.Relations{
		DoubleDamageTo: names(rel.Get("double_damage_to.#.name")),
		HalfDamageTo:   names(rel.Get("half_damage_to.#.name")),
		NoDamageTo:     names(rel.Get("no_damage_to.#.name")),
	}, nil
}

// ListSpecies fetches /pokemon?limit=N and returns display names in dex order.
//
// Precondition: limit must be >= 1.
func (c *Client) ListSpecies(ctx context.Context, limit int) ([]string, error) {
	doc, err := c.get(ctx, "/pokemon?limit="+strconv.Itoa(limit))
	if err != nil {
		return nil, fmt.Errorf("listing species: %w", err)
	}
	raw := names(doc.Get("results.#.name"))
	out := make([]string, 0, len(raw))
	for _, n := range raw {
		out = append(out, DisplayName(n))
	}
	return out, nil
}

// DisplayName turns an API slug such as "thunder-punch" into "Thunder Punch".
func DisplayName(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

func names(r gjson.Result) []string {
	arr := r.Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.String())
	}
	return out
}

func (c *Client) get(ctx context.Context, path string) (gjson.Result, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("building request: %w: %w", creature.ErrDataUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("GET %s: %w: %w", path, creature.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading %s: %w: %w", path, creature.ErrDataUnavailable, err)
	}
	c.logger.Debug("pokeapi request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("GET %s: status %d: %w", path, resp.StatusCode, creature.ErrDataUnavailable)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("GET %s: invalid JSON: %w", path, creature.ErrDataUnavailable)
	}
	return gjson.ParseBytes(body), nil
}
