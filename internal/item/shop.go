package item

import (
	"math/rand"

	"stabilityparty/internal/save"
)

// rarityOrder fixes iteration order for weighted sampling.
var rarityOrder = []Rarity{Common, Uncommon, Rare, Epic, Legendary}

// TierWeights returns the rarity weights for a shop tier. Tier zero is
// the baseline; each tier above it drains weight out of common and into
// the rarer buckets.
func TierWeights(tier int) map[Rarity]int {
	if tier < 0 {
		tier = 0
	}
	common := 50 - tier*10
	if common < 10 {
		common = 10
	}
	return map[Rarity]int{
		Common:    common,
		Uncommon:  30 + tier*2,
		Rare:      15 + tier*5,
		Epic:      4 + tier*2,
		Legendary: 1 + tier,
	}
}

// GenerateShop rolls a shop inventory of count distinct offers. Prices
// vary up to 20% either side of the catalog base price.
func (r *Registry) GenerateShop(rng *rand.Rand, tier, count int) []save.ShopOffer {
	weights := TierWeights(tier)
	byRarity := make(map[Rarity][]Definition)
	for _, id := range r.order {
		def := r.defs[id]
		byRarity[def.Rarity] = append(byRarity[def.Rarity], def)
	}

	offered := make(map[string]bool)
	var offers []save.ShopOffer
	for attempts := 0; len(offers) < count && attempts < count*20; attempts++ {
		rarity := rollRarity(rng, weights)
		pool := byRarity[rarity]
		if len(pool) == 0 {
			continue
		}
		def := pool[rng.Intn(len(pool))]
		if offered[def.ID] {
			continue
		}
		offered[def.ID] = true
		offers = append(offers, save.ShopOffer{
			ItemID:      def.ID,
			Name:        def.Name,
			Description: def.Description,
			Rarity:      string(def.Rarity),
			Price:       variedPrice(rng, def.BasePrice),
		})
	}
	return offers
}

func rollRarity(rng *rand.Rand, weights map[Rarity]int) Rarity {
	total := 0
	for _, r := range rarityOrder {
		total += weights[r]
	}
	pick := rng.Intn(total)
	for _, r := range rarityOrder {
		pick -= weights[r]
		if pick < 0 {
			return r
		}
	}
	return Common
}

func variedPrice(rng *rand.Rand, base int) int {
	price := base * (80 + rng.Intn(41)) / 100
	if price < 1 {
		price = 1
	}
	return price
}
