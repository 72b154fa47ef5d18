package item

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShopDistinctOffersWithinPriceBounds(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(7))

	offers := r.GenerateShop(rng, 0, 5)
	require.Len(t, offers, 5)

	seen := map[string]bool{}
	for _, o := range offers {
		assert.False(t, seen[o.ItemID], "duplicate offer %s", o.ItemID)
		seen[o.ItemID] = true

		def, err := r.Definition(o.ItemID)
		require.NoError(t, err)
		lo := def.BasePrice * 80 / 100
		hi := def.BasePrice * 120 / 100
		assert.GreaterOrEqual(t, o.Price, lo, o.ItemID)
		assert.LessOrEqual(t, o.Price, hi, o.ItemID)
	}
}

func TestTierWeightsShiftTowardRare(t *testing.T) {
	base := TierWeights(0)
	assert.Equal(t, 50, base[Common])
	assert.Equal(t, 30, base[Uncommon])
	assert.Equal(t, 15, base[Rare])
	assert.Equal(t, 4, base[Epic])
	assert.Equal(t, 1, base[Legendary])

	high := TierWeights(3)
	assert.Less(t, high[Common], base[Common])
	assert.Greater(t, high[Rare], base[Rare])
	assert.Greater(t, high[Legendary], base[Legendary])

	// Common never drains below its floor.
	assert.Equal(t, 10, TierWeights(10)[Common])
}

func TestGenerateShopHighTierStillFillsSlots(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(42))
	offers := r.GenerateShop(rng, 5, 5)
	assert.Len(t, offers, 5)
}
