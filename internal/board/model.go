// Package board holds the read-only content graph an event is played on:
// regions, tiles, and the challenge/task/trigger definitions mapped onto
// them. Content is authored externally and never mutated at runtime.
package board

import "github.com/google/uuid"

// TileType marks tiles that interrupt movement with a player decision.
type TileType string

const (
	TilePlain TileType = "plain"
	TileShop  TileType = "shop"
	TileDock  TileType = "dock"
)

// ChallengeMode is the completion rule over a challenge's tasks.
type ChallengeMode string

const (
	// ModeOr completes when any one task reaches its quantity. Progress on
	// the satisfying task is decremented by its quantity so the challenge
	// can repeat.
	ModeOr ChallengeMode = "OR"
	// ModeAnd completes only when every task reaches its quantity.
	ModeAnd ChallengeMode = "AND"
	// ModeCumulative never resets on tile landing and completes at most
	// once per event lifetime.
	ModeCumulative ChallengeMode = "CUMULATIVE"
)

// MappingKind is what completing a mapped challenge awards.
type MappingKind string

const (
	MappingTile   MappingKind = "TILE"
	MappingRegion MappingKind = "REGION"
	MappingCoin   MappingKind = "COIN"
)

// Region groups tiles into an island with its own challenge set and a
// charter cost table to other regions.
type Region struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// StartTile is where charters and first rolls land. Regions without one
	// cannot be chosen as a starting island or charter destination.
	StartTile *uuid.UUID `json:"start_tile_id,omitempty"`

	// Hotspot regions pay flat tile rewards regardless of laps.
	Hotspot bool `json:"hotspot"`

	// CharterCosts maps destination region id -> coins.
	CharterCosts map[string]int `json:"charter_costs,omitempty"`
}

// Tile is a node in the board graph.
type Tile struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	RegionID    uuid.UUID `json:"region_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        TileType  `json:"type"`

	// NextTiles are the movement successors. More than one makes this tile
	// a crossroad.
	NextTiles []uuid.UUID `json:"next_tiles"`

	// RandomCategory tiles track a single randomly-chosen challenge per
	// landing instead of all mapped challenges.
	RandomCategory bool `json:"random_category,omitempty"`

	// ShopTier shifts shop generation toward rarer items. Zero is the
	// baseline tier.
	ShopTier int `json:"shop_tier,omitempty"`
}

// ChallengeMapping attaches a challenge to a tile or to a whole region.
type ChallengeMapping struct {
	ID          uuid.UUID   `json:"id"`
	EventID     uuid.UUID   `json:"event_id"`
	TileID      *uuid.UUID  `json:"tile_id,omitempty"`
	RegionID    *uuid.UUID  `json:"region_id,omitempty"`
	ChallengeID uuid.UUID   `json:"challenge_id"`
	Kind        MappingKind `json:"kind"`
}

// Challenge is a completion rule over a set of tasks.
type Challenge struct {
	ID      uuid.UUID     `json:"id"`
	EventID uuid.UUID     `json:"event_id"`
	Name    string        `json:"name"`
	Mode    ChallengeMode `json:"mode"`
}

// Task is a progress counter target tied to one or more triggers.
type Task struct {
	ID          uuid.UUID `json:"id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Triggers    []Trigger `json:"triggers"`
}

// Trigger matches an inbound submission by name and optional source, both
// case-insensitive. An empty source is a wildcard.
type Trigger struct {
	ID     uuid.UUID `json:"id"`
	TaskID uuid.UUID `json:"task_id"`
	Name   string    `json:"name"`
	Source string    `json:"source,omitempty"`
}
