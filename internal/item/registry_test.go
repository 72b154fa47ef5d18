package item

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
	"stabilityparty/internal/save"
)

func TestCatalogIntegrity(t *testing.T) {
	r := NewRegistry()
	defs := r.Definitions()
	require.NotEmpty(t, defs)

	seen := map[string]bool{}
	for _, def := range defs {
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
		assert.NotEmpty(t, def.Name, def.ID)
		assert.NotEmpty(t, def.Description, def.ID)
		assert.Greater(t, def.BasePrice, 0, def.ID)
		if def.Slot != "" {
			var eq save.Equipment
			assert.NotNil(t, eq.Slot(def.Slot), "bad slot on %s", def.ID)
		}
		if def.RequiresSelection {
			_, ok := r.selections[def.ID]
			assert.True(t, ok, "selection item %s has no selection handler", def.ID)
		}
	}
}

func TestCoinPouchAddsCoins(t *testing.T) {
	r := NewRegistry()
	s := save.New("", "")
	def, err := r.Definition("coin_pouch_large")
	require.NoError(t, err)

	eff, err := r.Activate(&Context{Save: s, Def: def})
	require.NoError(t, err)
	assert.Equal(t, 50, s.Coins)
	assert.Nil(t, eff.RemoveOnUse)
}

func TestEquipSwapsPreviousPieceBack(t *testing.T) {
	r := NewRegistry()
	s := save.New("", "")
	s.Equipment.Jewelry = "old_ring"
	s.Items = []save.ItemInstance{{ID: "lucky_ring"}}
	def, err := r.Definition("lucky_ring")
	require.NoError(t, err)

	eff, err := r.Activate(&Context{Save: s, Def: def, ItemIndex: 0})
	require.NoError(t, err)
	require.NotNil(t, eff.RemoveOnUse)
	assert.False(t, *eff.RemoveOnUse)
	assert.Equal(t, "lucky_ring", s.Equipment.Jewelry)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "old_ring", s.Items[0].ID)
}

func TestEquipmentBonusSumsEquippedData(t *testing.T) {
	r := NewRegistry()
	eq := save.Equipment{Jewelry: "lucky_ring", Weapon: "duelists_blade"}
	assert.Equal(t, 3, r.EquipmentBonus(eq, "modifier"))
	assert.Equal(t, 0, r.EquipmentBonus(eq, "coin_bonus"))
}

func TestTeleportScrollTwoStage(t *testing.T) {
	r := NewRegistry()
	s := save.New("", "")
	def, err := r.Definition("teleport_scroll")
	require.NoError(t, err)

	home := uuid.New()
	start := uuid.New()
	regions := []board.Region{
		{ID: home, Name: "Home Isle", StartTile: &home},
		{ID: uuid.New(), Name: "Far Isle", StartTile: &start},
	}
	s.IslandID = &home

	eff, err := r.Activate(&Context{Save: s, Def: def, Regions: regions})
	require.NoError(t, err)
	require.Equal(t, []string{"Far Isle"}, eff.Options)
	require.NotNil(t, eff.RemoveOnUse)
	assert.False(t, *eff.RemoveOnUse)

	eff, err = r.CompleteSelection(&Context{Save: s, Def: def, Regions: regions, Selection: "Far Isle"})
	require.NoError(t, err)
	require.NotNil(t, eff.TeleportTo)
	assert.Equal(t, start, *eff.TeleportTo)

	_, err = r.CompleteSelection(&Context{Save: s, Def: def, Regions: regions, Selection: "Atlantis"})
	assert.ErrorIs(t, err, ErrBadSelection)
}

func TestStarStealerSkipsStarlessRivals(t *testing.T) {
	r := NewRegistry()
	s := save.New("", "")
	def, err := r.Definition("star_stealer")
	require.NoError(t, err)

	me := uuid.New()
	rich := uuid.New()
	teams := []TeamStanding{
		{ID: me, Name: "Us", Stars: 2},
		{ID: rich, Name: "Them", Stars: 1},
		{ID: uuid.New(), Name: "Broke", Stars: 0},
	}

	eff, err := r.Activate(&Context{Save: s, Def: def, TeamID: me, Teams: teams})
	require.NoError(t, err)
	assert.Equal(t, []string{"Them"}, eff.Options)

	eff, err = r.CompleteSelection(&Context{Save: s, Def: def, TeamID: me, Teams: teams, Selection: "Them"})
	require.NoError(t, err)
	require.NotNil(t, eff.StealStarFrom)
	assert.Equal(t, rich, *eff.StealStarFrom)
}
