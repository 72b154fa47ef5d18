// Package content loads board definitions from YAML bundles and writes
// them into storage. Bundles are authored with short human keys; ids are
// derived deterministically from the event id so re-imports are idempotent.
package content

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"stabilityparty/internal/board"
)

// Writer is the storage surface the importer needs.
type Writer interface {
	SaveRegion(ctx context.Context, reg board.Region) error
	SaveTile(ctx context.Context, t board.Tile) error
	SaveChallenge(ctx context.Context, ch board.Challenge, tasks []board.Task) error
	SaveMapping(ctx context.Context, m board.ChallengeMapping) error
}

// Bundle is one board's worth of content.
type Bundle struct {
	Regions    []RegionDef    `yaml:"regions"`
	Challenges []ChallengeDef `yaml:"challenges"`
	Mappings   []MappingDef   `yaml:"mappings"`
}

type RegionDef struct {
	Key         string         `yaml:"key"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Hotspot     bool           `yaml:"hotspot"`
	StartTile   string         `yaml:"start_tile"`
	Charters    map[string]int `yaml:"charters"`
	Tiles       []TileDef      `yaml:"tiles"`
}

type TileDef struct {
	Key            string   `yaml:"key"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Type           string   `yaml:"type"`
	Next           []string `yaml:"next"`
	RandomCategory bool     `yaml:"random_category"`
	ShopTier       int      `yaml:"shop_tier"`
}

type ChallengeDef struct {
	Key   string    `yaml:"key"`
	Name  string    `yaml:"name"`
	Mode  string    `yaml:"mode"`
	Tasks []TaskDef `yaml:"tasks"`
}

type TaskDef struct {
	Name     string       `yaml:"name"`
	Quantity int          `yaml:"quantity"`
	Triggers []TriggerDef `yaml:"triggers"`
}

type TriggerDef struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

type MappingDef struct {
	Tile      string `yaml:"tile"`
	Region    string `yaml:"region"`
	Challenge string `yaml:"challenge"`
	Kind      string `yaml:"kind"`
}

// Load reads and validates a bundle file.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates bundle bytes.
func Parse(raw []byte) (*Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	if len(b.Regions) == 0 {
		return fmt.Errorf("bundle has no regions")
	}
	regionKeys := map[string]bool{}
	tileKeys := map[string]bool{}
	for _, reg := range b.Regions {
		if reg.Key == "" || reg.Name == "" {
			return fmt.Errorf("region needs key and name")
		}
		if regionKeys[reg.Key] {
			return fmt.Errorf("duplicate region key %q", reg.Key)
		}
		regionKeys[reg.Key] = true
		for _, tile := range reg.Tiles {
			if tile.Key == "" || tile.Name == "" {
				return fmt.Errorf("tile in region %q needs key and name", reg.Key)
			}
			if tileKeys[tile.Key] {
				return fmt.Errorf("duplicate tile key %q", tile.Key)
			}
			tileKeys[tile.Key] = true
			switch tile.Type {
			case "", string(board.TilePlain), string(board.TileShop), string(board.TileDock):
			default:
				return fmt.Errorf("tile %q has unknown type %q", tile.Key, tile.Type)
			}
		}
	}
	for _, reg := range b.Regions {
		if reg.StartTile != "" && !tileKeys[reg.StartTile] {
			return fmt.Errorf("region %q start tile %q not defined", reg.Key, reg.StartTile)
		}
		for dest := range reg.Charters {
			if !regionKeys[dest] {
				return fmt.Errorf("region %q charters unknown region %q", reg.Key, dest)
			}
		}
		for _, tile := range reg.Tiles {
			for _, next := range tile.Next {
				if !tileKeys[next] {
					return fmt.Errorf("tile %q points at unknown tile %q", tile.Key, next)
				}
			}
		}
	}

	challengeKeys := map[string]bool{}
	for _, ch := range b.Challenges {
		if ch.Key == "" || ch.Name == "" {
			return fmt.Errorf("challenge needs key and name")
		}
		if challengeKeys[ch.Key] {
			return fmt.Errorf("duplicate challenge key %q", ch.Key)
		}
		challengeKeys[ch.Key] = true
		switch board.ChallengeMode(ch.Mode) {
		case board.ModeOr, board.ModeAnd, board.ModeCumulative:
		default:
			return fmt.Errorf("challenge %q has unknown mode %q", ch.Key, ch.Mode)
		}
		if len(ch.Tasks) == 0 {
			return fmt.Errorf("challenge %q has no tasks", ch.Key)
		}
		for _, task := range ch.Tasks {
			if task.Name == "" {
				return fmt.Errorf("challenge %q has a task without a name", ch.Key)
			}
			if task.Quantity < 1 {
				return fmt.Errorf("task %q needs quantity >= 1", task.Name)
			}
			if len(task.Triggers) == 0 {
				return fmt.Errorf("task %q has no triggers", task.Name)
			}
			for _, trig := range task.Triggers {
				if trig.Name == "" {
					return fmt.Errorf("task %q has a trigger without a name", task.Name)
				}
			}
		}
	}

	for i, m := range b.Mappings {
		if (m.Tile == "") == (m.Region == "") {
			return fmt.Errorf("mapping %d must name exactly one of tile or region", i)
		}
		if m.Tile != "" && !tileKeys[m.Tile] {
			return fmt.Errorf("mapping %d targets unknown tile %q", i, m.Tile)
		}
		if m.Region != "" && !regionKeys[m.Region] {
			return fmt.Errorf("mapping %d targets unknown region %q", i, m.Region)
		}
		if !challengeKeys[m.Challenge] {
			return fmt.Errorf("mapping %d uses unknown challenge %q", i, m.Challenge)
		}
		switch board.MappingKind(m.Kind) {
		case board.MappingTile, board.MappingRegion, board.MappingCoin:
		default:
			return fmt.Errorf("mapping %d has unknown kind %q", i, m.Kind)
		}
	}
	return nil
}

// keyID derives a stable id for a human key scoped to one event.
func keyID(eventID uuid.UUID, kind, key string) uuid.UUID {
	return uuid.NewSHA1(eventID, []byte(kind+":"+key))
}

// Apply writes the bundle's content for eventID through w. Applying the
// same bundle twice yields the same rows.
func (b *Bundle) Apply(ctx context.Context, eventID uuid.UUID, w Writer) error {
	regionIDs := map[string]uuid.UUID{}
	tileIDs := map[string]uuid.UUID{}
	challengeIDs := map[string]uuid.UUID{}
	for _, reg := range b.Regions {
		regionIDs[reg.Key] = keyID(eventID, "region", reg.Key)
		for _, tile := range reg.Tiles {
			tileIDs[tile.Key] = keyID(eventID, "tile", tile.Key)
		}
	}
	for _, ch := range b.Challenges {
		challengeIDs[ch.Key] = keyID(eventID, "challenge", ch.Key)
	}

	for _, reg := range b.Regions {
		out := board.Region{
			ID:          regionIDs[reg.Key],
			EventID:     eventID,
			Name:        reg.Name,
			Description: reg.Description,
			Hotspot:     reg.Hotspot,
		}
		if reg.StartTile != "" {
			id := tileIDs[reg.StartTile]
			out.StartTile = &id
		}
		if len(reg.Charters) > 0 {
			out.CharterCosts = map[string]int{}
			for dest, cost := range reg.Charters {
				out.CharterCosts[regionIDs[dest].String()] = cost
			}
		}
		if err := w.SaveRegion(ctx, out); err != nil {
			return fmt.Errorf("region %q: %w", reg.Key, err)
		}
		for _, tile := range reg.Tiles {
			typ := board.TileType(tile.Type)
			if tile.Type == "" {
				typ = board.TilePlain
			}
			next := make([]uuid.UUID, 0, len(tile.Next))
			for _, key := range tile.Next {
				next = append(next, tileIDs[key])
			}
			if err := w.SaveTile(ctx, board.Tile{
				ID:             tileIDs[tile.Key],
				EventID:        eventID,
				RegionID:       regionIDs[reg.Key],
				Name:           tile.Name,
				Description:    tile.Description,
				Type:           typ,
				NextTiles:      next,
				RandomCategory: tile.RandomCategory,
				ShopTier:       tile.ShopTier,
			}); err != nil {
				return fmt.Errorf("tile %q: %w", tile.Key, err)
			}
		}
	}

	for _, ch := range b.Challenges {
		chID := challengeIDs[ch.Key]
		tasks := make([]board.Task, 0, len(ch.Tasks))
		for _, task := range ch.Tasks {
			taskID := keyID(eventID, "task", ch.Key+"/"+task.Name)
			triggers := make([]board.Trigger, 0, len(task.Triggers))
			for _, trig := range task.Triggers {
				triggers = append(triggers, board.Trigger{
					ID:     keyID(eventID, "trigger", ch.Key+"/"+task.Name+"/"+trig.Name+"/"+trig.Source),
					TaskID: taskID,
					Name:   trig.Name,
					Source: trig.Source,
				})
			}
			tasks = append(tasks, board.Task{
				ID:          taskID,
				ChallengeID: chID,
				Name:        task.Name,
				Quantity:    task.Quantity,
				Triggers:    triggers,
			})
		}
		if err := w.SaveChallenge(ctx, board.Challenge{
			ID:      chID,
			EventID: eventID,
			Name:    ch.Name,
			Mode:    board.ChallengeMode(ch.Mode),
		}, tasks); err != nil {
			return fmt.Errorf("challenge %q: %w", ch.Key, err)
		}
	}

	for i, m := range b.Mappings {
		out := board.ChallengeMapping{
			ID:          keyID(eventID, "mapping", fmt.Sprintf("%s/%s/%s/%s", m.Tile, m.Region, m.Challenge, m.Kind)),
			EventID:     eventID,
			ChallengeID: challengeIDs[m.Challenge],
			Kind:        board.MappingKind(m.Kind),
		}
		if m.Tile != "" {
			id := tileIDs[m.Tile]
			out.TileID = &id
		}
		if m.Region != "" {
			id := regionIDs[m.Region]
			out.RegionID = &id
		}
		if err := w.SaveMapping(ctx, out); err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
	}
	return nil
}
