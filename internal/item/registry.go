package item

import (
	"fmt"
	"strings"

	"stabilityparty/internal/save"
)

// Registry holds the item catalog together with the activation and
// selection handlers. It is immutable after construction and safe for
// concurrent use.
type Registry struct {
	defs       map[string]Definition
	order      []string
	handlers   map[string]HandlerFunc
	selections map[string]HandlerFunc
}

// NewRegistry builds the full catalog.
func NewRegistry() *Registry {
	r := &Registry{
		defs:       make(map[string]Definition),
		handlers:   make(map[string]HandlerFunc),
		selections: make(map[string]HandlerFunc),
	}

	// Coin pouches.
	r.add(Definition{
		ID: "coin_pouch_small", Name: "Small Coin Pouch", Rarity: Common, BasePrice: 10,
		Description: "A worn leather pouch holding 10 coins.",
		Data:        map[string]int{"coins": 10},
	}, coinPouch)
	r.add(Definition{
		ID: "coin_pouch_medium", Name: "Coin Pouch", Rarity: Uncommon, BasePrice: 20,
		Description: "A sturdy pouch holding 25 coins.",
		Data:        map[string]int{"coins": 25},
	}, coinPouch)
	r.add(Definition{
		ID: "coin_pouch_large", Name: "Bulging Coin Pouch", Rarity: Rare, BasePrice: 35,
		Description: "A heavy pouch holding 50 coins.",
		Data:        map[string]int{"coins": 50},
	}, coinPouch)

	// Roll modifiers.
	r.add(Definition{
		ID: "lucky_die", Name: "Lucky Die", Rarity: Common, BasePrice: 15,
		Description: "Adds +1 to your next roll.",
		Data:        map[string]int{"modifier": 1},
	}, diceBoost)
	r.add(Definition{
		ID: "weighted_die", Name: "Weighted Die", Rarity: Uncommon, BasePrice: 25,
		Description: "Adds +2 to your next roll.",
		Data:        map[string]int{"modifier": 2},
	}, diceBoost)
	r.add(Definition{
		ID: "loaded_die", Name: "Loaded Die", Rarity: Rare, BasePrice: 40,
		Description: "Adds +3 to your next roll.",
		Data:        map[string]int{"modifier": 3},
	}, diceBoost)

	// Extra dice.
	r.add(Definition{
		ID: "bronze_die", Name: "Bronze Die", Rarity: Uncommon, BasePrice: 20,
		Description: "Roll an extra d4 on your next roll.",
		Data:        map[string]int{"sides": 4},
	}, extraDie)
	r.add(Definition{
		ID: "silver_die", Name: "Silver Die", Rarity: Rare, BasePrice: 35,
		Description: "Roll an extra d6 on your next roll.",
		Data:        map[string]int{"sides": 6},
	}, extraDie)
	r.add(Definition{
		ID: "golden_die", Name: "Golden Die", Rarity: Epic, BasePrice: 50,
		Description: "Roll an extra d8 on your next roll.",
		Data:        map[string]int{"sides": 8},
	}, extraDie)

	// Buff consumables.
	r.add(Definition{
		ID: "travel_potion", Name: "Sailor's Brew", Rarity: Rare, BasePrice: 30,
		Description: "Your next charter between islands is free.",
	}, func(c *Context) (Effect, error) {
		c.Save.Buffs = append(c.Save.Buffs, save.Buff{Type: save.BuffFreeTravel, Uses: 1})
		return Effect{Message: "The brew settles your sea legs. Your next charter is free."}, nil
	})
	r.add(Definition{
		ID: "bargain_horn", Name: "Horn of Bargains", Rarity: Epic, BasePrice: 50,
		Description: "Your next star costs half as much.",
	}, func(c *Context) (Effect, error) {
		c.Save.Buffs = append(c.Save.Buffs, save.Buff{Type: save.BuffStarDiscount, Uses: 1})
		return Effect{Message: "The horn sounds. Your next star is half price."}, nil
	})

	// Star compass reveals where the stars currently sit.
	r.add(Definition{
		ID: "star_compass", Name: "Star Compass", Rarity: Epic, BasePrice: 45,
		Description: "Reveals which tiles the stars rest on.",
	}, func(c *Context) (Effect, error) {
		if len(c.StarTiles) == 0 {
			return Effect{Message: "The needle spins. No star is placed right now."}, nil
		}
		names := make([]string, 0, len(c.StarTiles))
		for _, t := range c.StarTiles {
			names = append(names, t.Name)
		}
		return Effect{Message: "The needle steadies: " + strings.Join(names, ", ")}, nil
	})

	// Teleport scroll: pick an island, land on its start tile.
	r.addSelection(Definition{
		ID: "teleport_scroll", Name: "Teleport Scroll", Rarity: Epic, BasePrice: 60,
		Description: "Whisks your party to the island of your choice.",
		RequiresSelection: true,
	}, func(c *Context) (Effect, error) {
		opts := regionOptions(c)
		if len(opts) == 0 {
			return Effect{Message: "The scroll fizzles. Nowhere to go.", RemoveOnUse: keepItem()}, nil
		}
		return Effect{Options: opts, RemoveOnUse: keepItem()}, nil
	}, func(c *Context) (Effect, error) {
		for _, reg := range c.Regions {
			if reg.Name == c.Selection && reg.StartTile != nil {
				return Effect{
					Message:    fmt.Sprintf("A flash of light. You arrive at %s.", reg.Name),
					TeleportTo: reg.StartTile,
				}, nil
			}
		}
		return Effect{}, ErrBadSelection
	})

	// Star stealer: pick a rival holding stars.
	r.addSelection(Definition{
		ID: "star_stealer", Name: "Hand of the Thief", Rarity: Legendary, BasePrice: 120,
		Description: "Steals a star from a rival team.",
		RequiresSelection: true,
	}, func(c *Context) (Effect, error) {
		opts := make([]string, 0, len(c.Teams))
		for _, t := range c.Teams {
			if t.ID != c.TeamID && t.Stars > 0 {
				opts = append(opts, t.Name)
			}
		}
		if len(opts) == 0 {
			return Effect{Message: "No rival holds a star worth taking.", RemoveOnUse: keepItem()}, nil
		}
		return Effect{Options: opts, RemoveOnUse: keepItem()}, nil
	}, func(c *Context) (Effect, error) {
		for _, t := range c.Teams {
			if t.Name == c.Selection && t.ID != c.TeamID && t.Stars > 0 {
				id := t.ID
				return Effect{
					Message:       fmt.Sprintf("The hand reaches out and plucks a star from %s.", t.Name),
					StealStarFrom: &id,
				}, nil
			}
		}
		return Effect{}, ErrBadSelection
	})

	// Magic lamp: three wishes, one per rub.
	r.addSelection(Definition{
		ID: "magic_lamp", Name: "Magic Lamp", Rarity: Legendary, BasePrice: 100, Uses: 3,
		Description: "Grants a wish. Three rubs before the genie departs.",
		RequiresSelection: true,
	}, func(c *Context) (Effect, error) {
		return Effect{Options: []string{"Wealth", "Fortune", "Haste"}, RemoveOnUse: keepItem()}, nil
	}, func(c *Context) (Effect, error) {
		switch c.Selection {
		case "Wealth":
			c.Save.Coins += 50
			return Effect{Message: "The genie showers you in 50 coins."}, nil
		case "Fortune":
			c.Save.Dice = append(c.Save.Dice, 8)
			return Effect{Message: "The genie slips a golden d8 into your next roll."}, nil
		case "Haste":
			c.Save.Modifier += 3
			return Effect{Message: "The genie hurries you along, +3 to your next roll."}, nil
		}
		return Effect{}, ErrBadSelection
	})

	// Equipment. Uses stays zero: equipment is never consumed.
	r.add(Definition{
		ID: "prospectors_helmet", Name: "Prospector's Helmet", Rarity: Uncommon, BasePrice: 30,
		Description: "Earn 3 extra coins from every tile reward.",
		Slot:        "helmet",
		Data:        map[string]int{"coin_bonus": 3},
	}, equip)
	r.add(Definition{
		ID: "gilded_armor", Name: "Gilded Armor", Rarity: Epic, BasePrice: 65,
		Description: "Earn 8 extra coins from every tile reward.",
		Slot:        "armor",
		Data:        map[string]int{"coin_bonus": 8},
	}, equip)
	r.add(Definition{
		ID: "duelists_blade", Name: "Duelist's Blade", Rarity: Epic, BasePrice: 60,
		Description: "Adds +2 to every roll while equipped.",
		Slot:        "weapon",
		Data:        map[string]int{"modifier": 2},
	}, equip)
	r.add(Definition{
		ID: "lucky_ring", Name: "Lucky Ring", Rarity: Rare, BasePrice: 45,
		Description: "Adds +1 to every roll while equipped.",
		Slot:        "jewelry",
		Data:        map[string]int{"modifier": 1},
	}, equip)
	r.add(Definition{
		ID: "merchants_cape", Name: "Merchant's Cape", Rarity: Rare, BasePrice: 40,
		Description: "Shops knock 10% off their prices while worn.",
		Slot:        "cape",
		Data:        map[string]int{"shop_discount": 10},
	}, equip)

	return r
}

func (r *Registry) add(def Definition, h HandlerFunc) {
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	r.handlers[def.ID] = h
}

func (r *Registry) addSelection(def Definition, activate, selection HandlerFunc) {
	r.add(def, activate)
	r.selections[def.ID] = selection
}

// Definition looks up one catalog entry.
func (r *Registry) Definition(id string) (Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return def, nil
}

// Definitions returns the catalog in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Activate runs the first stage of an item's effect. The caller owns
// instance consumption and any cross-team consequences on the Effect.
func (r *Registry) Activate(c *Context) (Effect, error) {
	h, ok := r.handlers[c.Def.ID]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %s", ErrUnknownItem, c.Def.ID)
	}
	return h(c)
}

// CompleteSelection runs the second stage for items that suspended on an
// option list.
func (r *Registry) CompleteSelection(c *Context) (Effect, error) {
	h, ok := r.selections[c.Def.ID]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %s", ErrNoSuchActivation, c.Def.ID)
	}
	return h(c)
}

// EquipmentBonus sums the named Data value across all equipped items.
func (r *Registry) EquipmentBonus(eq save.Equipment, key string) int {
	total := 0
	for _, id := range []string{eq.Helmet, eq.Armor, eq.Weapon, eq.Jewelry, eq.Cape} {
		if id == "" {
			continue
		}
		if def, ok := r.defs[id]; ok {
			total += def.Data[key]
		}
	}
	return total
}

func regionOptions(c *Context) []string {
	var opts []string
	for _, reg := range c.Regions {
		if reg.StartTile == nil {
			continue
		}
		if c.Save.IslandID != nil && *c.Save.IslandID == reg.ID {
			continue
		}
		opts = append(opts, reg.Name)
	}
	return opts
}

func coinPouch(c *Context) (Effect, error) {
	amount := c.Def.Data["coins"]
	c.Save.Coins += amount
	return Effect{Message: fmt.Sprintf("You empty the pouch: %d coins.", amount)}, nil
}

func diceBoost(c *Context) (Effect, error) {
	n := c.Def.Data["modifier"]
	c.Save.Modifier += n
	return Effect{Message: fmt.Sprintf("Your next roll gains +%d.", n)}, nil
}

func extraDie(c *Context) (Effect, error) {
	sides := c.Def.Data["sides"]
	c.Save.Dice = append(c.Save.Dice, sides)
	return Effect{Message: fmt.Sprintf("A d%d joins your next roll.", sides)}, nil
}

func equip(c *Context) (Effect, error) {
	slot := c.Save.Equipment.Slot(c.Def.Slot)
	if slot == nil {
		return Effect{}, fmt.Errorf("item %s has no equipment slot", c.Def.ID)
	}
	evicted := *slot
	*slot = c.Def.ID
	c.Save.Items = append(c.Save.Items[:c.ItemIndex], c.Save.Items[c.ItemIndex+1:]...)
	if evicted != "" {
		c.Save.Items = append(c.Save.Items, save.ItemInstance{ID: evicted})
	}
	msg := fmt.Sprintf("You equip the %s.", c.Def.Name)
	if evicted != "" {
		msg += " The previous piece goes back in your pack."
	}
	return Effect{Message: msg, RemoveOnUse: keepItem()}, nil
}
