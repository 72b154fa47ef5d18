package save

import "github.com/google/uuid"

// Action discriminates what the client must do next while a roll is
// suspended. ActionNone means movement can continue without input.
type Action string

const (
	ActionNone            Action = "none"
	ActionCrossroad       Action = "crossroad"
	ActionShop            Action = "shop"
	ActionStar            Action = "star"
	ActionDock            Action = "dock"
	ActionComplete        Action = "complete"
	ActionFirstRoll       Action = "first_roll"
	ActionIslandSelection Action = "island_selection"
)

// ShopOffer is one purchasable entry of a generated shop inventory. The
// offer is persisted with the roll state so the price quoted at suspension
// is the price charged at resolution.
type ShopOffer struct {
	ItemID      string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Price       int    `json:"price"`
}

// CrossroadOption is one selectable successor tile at a branch.
type CrossroadOption struct {
	TileID uuid.UUID `json:"tile_id"`
	Name   string    `json:"name"`
}

// DockDestination is one charterable region with its cost from the dock's
// region. Cost is zero when a free-travel buff will be consumed.
type DockDestination struct {
	RegionID uuid.UUID `json:"region_id"`
	Name     string    `json:"name"`
	Cost     int       `json:"cost"`
}

// IslandOption is one starting region offered on a team's first roll.
type IslandOption struct {
	RegionID uuid.UUID `json:"region_id"`
	Name     string    `json:"name"`
}

// RollState exists only while a roll is in progress. It records the dice
// outcome, the movement budget left, the path walked so far, and - when the
// roll is suspended - exactly what the client must resolve.
type RollState struct {
	StartingTile *uuid.UUID `json:"starting_tile_id,omitempty"`

	RollTotal     int   `json:"roll_total_for_turn"`
	RollRemaining int   `json:"roll_remaining"`
	DiceRolled    []int `json:"dice_results_for_roll"`
	Modifier      int   `json:"modifier_for_roll"`

	Path []uuid.UUID `json:"path_taken_this_turn"`

	ActionRequired Action `json:"action_required"`

	// Exactly one of the following is set while suspended, matching
	// ActionRequired.
	Shop      []ShopOffer       `json:"shop,omitempty"`
	StarPrice int               `json:"star_price,omitempty"`
	Crossroad []CrossroadOption `json:"crossroad,omitempty"`
	Dock      []DockDestination `json:"dock,omitempty"`
	Islands   []IslandOption    `json:"islands,omitempty"`
}

func (r *RollState) normalize() {
	if r.DiceRolled == nil {
		r.DiceRolled = []int{}
	}
	if r.Path == nil {
		r.Path = []uuid.UUID{}
	}
	if r.ActionRequired == "" {
		r.ActionRequired = ActionNone
	}
}

// ClearAction resets the suspension payload before movement resumes.
func (r *RollState) ClearAction() {
	r.ActionRequired = ActionNone
	r.Shop = nil
	r.StarPrice = 0
	r.Crossroad = nil
	r.Dock = nil
	r.Islands = nil
}
