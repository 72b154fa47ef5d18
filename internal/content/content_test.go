package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
)

const sampleBundle = `
regions:
  - key: aldergate
    name: Aldergate
    start_tile: a1
    charters:
      brinewatch: 30
    tiles:
      - key: a1
        name: Harbour Gate
        type: shop
        shop_tier: 1
        next: [a2]
      - key: a2
        name: Old Row
        next: [a1]
  - key: brinewatch
    name: Brinewatch
    hotspot: true
    start_tile: b1
    tiles:
      - key: b1
        name: Salt Pier
        type: dock
        next: [b1]
challenges:
  - key: fishing
    name: Fishing
    mode: OR
    tasks:
      - name: Sharks
        quantity: 10
        triggers:
          - name: Shark
            source: fishing
mappings:
  - tile: a2
    challenge: fishing
    kind: TILE
  - region: brinewatch
    challenge: fishing
    kind: REGION
`

type memWriter struct {
	regions    []board.Region
	tiles      []board.Tile
	challenges []board.Challenge
	tasks      map[uuid.UUID][]board.Task
	mappings   []board.ChallengeMapping
}

func newMemWriter() *memWriter {
	return &memWriter{tasks: map[uuid.UUID][]board.Task{}}
}

func (w *memWriter) SaveRegion(_ context.Context, reg board.Region) error {
	w.regions = append(w.regions, reg)
	return nil
}

func (w *memWriter) SaveTile(_ context.Context, t board.Tile) error {
	w.tiles = append(w.tiles, t)
	return nil
}

func (w *memWriter) SaveChallenge(_ context.Context, ch board.Challenge, tasks []board.Task) error {
	w.challenges = append(w.challenges, ch)
	w.tasks[ch.ID] = tasks
	return nil
}

func (w *memWriter) SaveMapping(_ context.Context, m board.ChallengeMapping) error {
	w.mappings = append(w.mappings, m)
	return nil
}

func TestParseAndApply(t *testing.T) {
	bundle, err := Parse([]byte(sampleBundle))
	require.NoError(t, err)

	eventID := uuid.New()
	w := newMemWriter()
	require.NoError(t, bundle.Apply(context.Background(), eventID, w))

	require.Len(t, w.regions, 2)
	require.Len(t, w.tiles, 3)
	require.Len(t, w.challenges, 1)
	require.Len(t, w.mappings, 2)

	aldergate := w.regions[0]
	assert.Equal(t, "Aldergate", aldergate.Name)
	require.NotNil(t, aldergate.StartTile)
	assert.Equal(t, *aldergate.StartTile, w.tiles[0].ID)

	brinewatchID := w.regions[1].ID
	assert.Equal(t, map[string]int{brinewatchID.String(): 30}, aldergate.CharterCosts)

	harbour := w.tiles[0]
	assert.Equal(t, board.TileShop, harbour.Type)
	assert.Equal(t, 1, harbour.ShopTier)
	require.Len(t, harbour.NextTiles, 1)
	assert.Equal(t, w.tiles[1].ID, harbour.NextTiles[0])

	// Untyped tiles come out plain.
	assert.Equal(t, board.TilePlain, w.tiles[1].Type)

	tasks := w.tasks[w.challenges[0].ID]
	require.Len(t, tasks, 1)
	assert.Equal(t, 10, tasks[0].Quantity)
	require.Len(t, tasks[0].Triggers, 1)
	assert.Equal(t, "fishing", tasks[0].Triggers[0].Source)

	require.NotNil(t, w.mappings[0].TileID)
	assert.Nil(t, w.mappings[0].RegionID)
	require.NotNil(t, w.mappings[1].RegionID)
	assert.Equal(t, board.MappingRegion, w.mappings[1].Kind)
}

func TestApplyIsDeterministic(t *testing.T) {
	bundle, err := Parse([]byte(sampleBundle))
	require.NoError(t, err)

	eventID := uuid.New()
	first := newMemWriter()
	second := newMemWriter()
	require.NoError(t, bundle.Apply(context.Background(), eventID, first))
	require.NoError(t, bundle.Apply(context.Background(), eventID, second))

	assert.Equal(t, first.regions, second.regions)
	assert.Equal(t, first.tiles, second.tiles)
	assert.Equal(t, first.mappings, second.mappings)

	// A different event gets different ids.
	other := newMemWriter()
	require.NoError(t, bundle.Apply(context.Background(), uuid.New(), other))
	assert.NotEqual(t, first.tiles[0].ID, other.tiles[0].ID)
}

func TestParseRejectsBrokenBundles(t *testing.T) {
	cases := map[string]string{
		"no regions":      `challenges: []`,
		"unknown next":    "regions:\n  - key: a\n    name: A\n    tiles:\n      - key: t1\n        name: T1\n        next: [missing]",
		"unknown type":    "regions:\n  - key: a\n    name: A\n    tiles:\n      - key: t1\n        name: T1\n        type: volcano",
		"bad mode":        "regions:\n  - key: a\n    name: A\n    tiles:\n      - key: t1\n        name: T1\nchallenges:\n  - key: c\n    name: C\n    mode: MAYBE\n    tasks:\n      - name: X\n        quantity: 1\n        triggers:\n          - name: Y",
		"mapping no ref":  "regions:\n  - key: a\n    name: A\n    tiles:\n      - key: t1\n        name: T1\nmappings:\n  - challenge: c\n    kind: TILE",
		"duplicate tiles": "regions:\n  - key: a\n    name: A\n    tiles:\n      - key: t1\n        name: T1\n      - key: t1\n        name: T1 again",
		"unknown field":   "regions: []\nextra: true",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}
