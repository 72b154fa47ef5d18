// Package item defines the purchasable item catalog and the activation
// engine that applies item effects to a team's save state.
package item

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/config"
	"stabilityparty/internal/save"
)

var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrInventoryFull    = errors.New("inventory is full")
	ErrNoSuchActivation = errors.New("no activation pending")
	ErrBadSelection     = errors.New("selection does not match a pending option")
)

// Rarity buckets drive shop generation weights.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Definition is one catalog entry. Definitions are immutable after
// registry construction.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
	BasePrice   int    `json:"base_price"`

	// Uses is how many activations an instance carries. Zero means the
	// item is never consumed (equipment).
	Uses int `json:"uses,omitempty"`

	// Slot is the equipment slot this item occupies, empty for
	// consumables.
	Slot string `json:"slot,omitempty"`

	// RequiresSelection marks items whose activation suspends until the
	// team picks one of the offered options.
	RequiresSelection bool `json:"requires_selection,omitempty"`

	// Data holds per-item numeric tuning read by its handler.
	Data map[string]int `json:"data,omitempty"`
}

// TeamStanding is the slice of another team the star stealer can see.
type TeamStanding struct {
	ID    uuid.UUID
	Name  string
	Stars int
}

// Context carries everything a handler may read while applying an
// effect. Save is mutated in place; cross-team consequences are returned
// on the Effect for the caller to apply under its own locks.
type Context struct {
	Ctx       context.Context
	EventID   uuid.UUID
	TeamID    uuid.UUID
	Save      *save.SaveData
	Def       Definition
	ItemIndex int
	Selection string
	Balance   config.Balance

	Regions   []board.Region
	StarTiles []board.Tile
	Teams     []TeamStanding

	// Rand returns a uniform int in [0,n).
	Rand func(n int) int
}

// Effect is the outcome of one activation step.
type Effect struct {
	// Message is shown to the team.
	Message string

	// Options, when non-empty, suspend the activation until one option is
	// chosen.
	Options []string

	// RemoveOnUse overrides the default consumption of the instance. A
	// handler sets it to false when the activation suspended or failed
	// softly.
	RemoveOnUse *bool

	// TeleportTo asks the caller to move the team to this tile.
	TeleportTo *uuid.UUID

	// StealStarFrom asks the caller to transfer one star from this team.
	StealStarFrom *uuid.UUID
}

func keepItem() *bool {
	v := false
	return &v
}

// HandlerFunc applies one item's effect.
type HandlerFunc func(*Context) (Effect, error)
