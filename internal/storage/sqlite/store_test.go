package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ev := event.Event{
		ID:         uuid.New(),
		Name:       "Spring Party",
		Type:       event.TypeBoardGame,
		StartTime:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
		WebhookURL: "https://example.com/hook",
		StarTiles:  []uuid.UUID{uuid.New()},
	}
	require.NoError(t, store.CreateEvent(ctx, ev))

	got, err := store.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = store.Event(ctx, uuid.New())
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestActiveEventsWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	live := event.Event{ID: uuid.New(), Name: "Live", Type: event.TypeBoardGame,
		StartTime: start, EndTime: start.Add(7 * 24 * time.Hour)}
	past := event.Event{ID: uuid.New(), Name: "Past", Type: event.TypeBoardGame,
		StartTime: start.Add(-48 * time.Hour), EndTime: start.Add(-24 * time.Hour)}
	require.NoError(t, store.CreateEvent(ctx, live))
	require.NoError(t, store.CreateEvent(ctx, past))

	active, err := store.ActiveEvents(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, live.ID, active[0].ID)
}

func TestStarTilesUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ev := event.Event{ID: uuid.New(), Name: "Party", Type: event.TypeBoardGame,
		StartTime: time.Now().UTC(), EndTime: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, store.CreateEvent(ctx, ev))

	tiles := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, store.UpdateStarTiles(ctx, ev.ID, tiles))

	got, err := store.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, tiles, got.StarTiles)

	assert.ErrorIs(t, store.UpdateStarTiles(ctx, uuid.New(), nil), event.ErrNotFound)
}

func TestTeamAndRoster(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ev := event.Event{ID: uuid.New(), Name: "Party", Type: event.TypeBoardGame,
		StartTime: time.Now().UTC(), EndTime: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, store.CreateEvent(ctx, ev))

	team := event.Team{ID: uuid.New(), EventID: ev.ID, Name: "Kittens", Data: []byte(`{}`)}
	require.NoError(t, store.CreateTeam(ctx, team))

	m := event.Member{ID: uuid.New(), EventID: ev.ID, TeamID: team.ID,
		Username: "SoloMission", DiscordID: "1234"}
	require.NoError(t, store.AddMember(ctx, m))

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		got, err := store.TeamForMember(ctx, ev.ID, "solomission")
		require.NoError(t, err)
		assert.Equal(t, team.ID, got.ID)
	})

	t.Run("lookup by discord id", func(t *testing.T) {
		got, err := store.TeamForDiscordID(ctx, ev.ID, "1234")
		require.NoError(t, err)
		assert.Equal(t, team.ID, got.ID)

		_, err = store.TeamForDiscordID(ctx, ev.ID, "")
		assert.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("team data update survives reload", func(t *testing.T) {
		require.NoError(t, store.UpdateTeamData(ctx, team.ID, []byte(`{"coins":40}`)))
		got, err := store.Team(ctx, team.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"coins":40}`, string(got.Data))
	})

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, store.UpdateTeamName(ctx, team.ID, "Lions"))
		got, err := store.Team(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lions", got.Name)
	})

	t.Run("remove member", func(t *testing.T) {
		require.NoError(t, store.RemoveMember(ctx, ev.ID, "SOLOMISSION"))
		members, err := store.MembersForTeam(ctx, team.ID)
		require.NoError(t, err)
		assert.Empty(t, members)

		assert.ErrorIs(t, store.RemoveMember(ctx, ev.ID, "ghost"), event.ErrNotFound)
	})
}

func TestBoardContentRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ev := event.Event{ID: uuid.New(), Name: "Party", Type: event.TypeBoardGame,
		StartTime: time.Now().UTC(), EndTime: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, store.CreateEvent(ctx, ev))

	start := uuid.New()
	reg := board.Region{
		ID: uuid.New(), EventID: ev.ID, Name: "Aldergate",
		StartTile: &start, Hotspot: true,
		CharterCosts: map[string]int{uuid.NewString(): 30},
	}
	require.NoError(t, store.SaveRegion(ctx, reg))

	tile := board.Tile{
		ID: start, EventID: ev.ID, RegionID: reg.ID, Name: "Harbour Gate",
		Type: board.TileShop, NextTiles: []uuid.UUID{uuid.New()}, ShopTier: 2,
	}
	require.NoError(t, store.SaveTile(ctx, tile))

	ch := board.Challenge{ID: uuid.New(), EventID: ev.ID, Name: "Fishing", Mode: board.ModeOr}
	task := board.Task{ID: uuid.New(), ChallengeID: ch.ID, Name: "Sharks", Quantity: 10,
		Triggers: []board.Trigger{{ID: uuid.New(), Name: "Shark", Source: "fishing"}}}
	require.NoError(t, store.SaveChallenge(ctx, ch, []board.Task{task}))

	mapping := board.ChallengeMapping{ID: uuid.New(), EventID: ev.ID,
		TileID: &tile.ID, ChallengeID: ch.ID, Kind: board.MappingTile}
	require.NoError(t, store.SaveMapping(ctx, mapping))

	t.Run("region", func(t *testing.T) {
		got, err := store.Region(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, reg, got)

		regions, err := store.RegionsForEvent(ctx, ev.ID)
		require.NoError(t, err)
		require.Len(t, regions, 1)
	})

	t.Run("tile", func(t *testing.T) {
		got, err := store.Tile(ctx, tile.ID)
		require.NoError(t, err)
		assert.Equal(t, tile, got)

		_, err = store.Tile(ctx, uuid.New())
		assert.ErrorIs(t, err, board.ErrNotFound)
	})

	t.Run("challenge and tasks", func(t *testing.T) {
		got, err := store.Challenge(ctx, ch.ID)
		require.NoError(t, err)
		assert.Equal(t, ch, got)

		tasks, err := store.TasksForChallenge(ctx, ch.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Sharks", tasks[0].Name)
		require.Len(t, tasks[0].Triggers, 1)
		assert.Equal(t, "Shark", tasks[0].Triggers[0].Name)
	})

	t.Run("mappings", func(t *testing.T) {
		tileMaps, err := store.MappingsForTile(ctx, tile.ID)
		require.NoError(t, err)
		require.Len(t, tileMaps, 1)
		assert.Equal(t, ch.ID, tileMaps[0].ChallengeID)

		regionMaps, err := store.MappingsForRegion(ctx, reg.ID)
		require.NoError(t, err)
		assert.Empty(t, regionMaps)
	})

	t.Run("challenge replace clears old tasks", func(t *testing.T) {
		replacement := board.Task{ID: uuid.New(), ChallengeID: ch.ID, Name: "Rays", Quantity: 5,
			Triggers: []board.Trigger{{ID: uuid.New(), Name: "Ray"}}}
		require.NoError(t, store.SaveChallenge(ctx, ch, []board.Task{replacement}))

		tasks, err := store.TasksForChallenge(ctx, ch.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Rays", tasks[0].Name)
	})
}
