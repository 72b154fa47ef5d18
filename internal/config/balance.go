package config

// Balance holds gameplay balance configuration
type Balance struct {
	// Turn movement
	DefaultDieSides int `json:"default_die_sides"`
	MaxStepsPerTurn int `json:"max_steps_per_turn"`

	// Tile challenge rewards
	TileCoinBase     int `json:"tile_coin_base"`
	TileCoinLapStep  int `json:"tile_coin_lap_step"`
	TileCoinMin      int `json:"tile_coin_min"`
	FallbackDieSides int `json:"fallback_die_sides"`

	// Region challenge rewards
	RegionCoinAward    int `json:"region_coin_award"`
	RegionDieSides     int `json:"region_die_sides"`
	CoinChallengeAward int `json:"coin_challenge_award"`

	// Star economy
	StarPrice int `json:"star_price"`

	// Dock economy
	DockLapBonus int `json:"dock_lap_bonus"`

	// Shop
	ShopItemCount int `json:"shop_item_count"`

	// Inventory
	InventoryCap int `json:"inventory_cap"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		DefaultDieSides:    6,
		MaxStepsPerTurn:    64,
		TileCoinBase:       20,
		TileCoinLapStep:    5,
		TileCoinMin:        5,
		FallbackDieSides:   4,
		RegionCoinAward:    40,
		RegionDieSides:     8,
		CoinChallengeAward: 10,
		StarPrice:          50,
		DockLapBonus:       15,
		ShopItemCount:      5,
		InventoryCap:       3,
	}
}
