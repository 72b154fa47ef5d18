package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
	"stabilityparty/internal/config"
	"stabilityparty/internal/event"
	"stabilityparty/internal/item"
	"stabilityparty/internal/save"
)

// fixture builds a two-island board:
//
//	Aldergate:  a1(start) -> a2 -> a3 -> a4 -> a1
//	Brinewatch: b1(start) -> b2 -> b1
//
// All tiles are plain with no challenges unless a test reshapes them.
type fixture struct {
	t      *testing.T
	engine *Engine
	events *event.MemoryRepo
	board  *board.MemoryRepo
	clock  *FakeClock

	ev      event.Event
	team    event.Team
	regionA board.Region
	regionB board.Region
	a       [4]board.Tile
	b       [2]board.Tile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		events: event.NewMemoryRepo(),
		board:  board.NewMemoryRepo(),
		clock:  NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	f.ev = event.Event{
		ID:        uuid.New(),
		Name:      "Stability Party",
		Type:      event.TypeBoardGame,
		StartTime: f.clock.Now().Add(-time.Hour),
		EndTime:   f.clock.Now().Add(24 * time.Hour),
		StarTiles: []uuid.UUID{},
	}
	require.NoError(t, f.events.CreateEvent(ctx, f.ev))

	var aIDs [4]uuid.UUID
	for i := range aIDs {
		aIDs[i] = uuid.New()
	}
	var bIDs [2]uuid.UUID
	for i := range bIDs {
		bIDs[i] = uuid.New()
	}
	regA := uuid.New()
	regB := uuid.New()
	f.regionA = board.Region{
		ID: regA, EventID: f.ev.ID, Name: "Aldergate", StartTile: &aIDs[0],
		CharterCosts: map[string]int{regB.String(): 30},
	}
	f.regionB = board.Region{
		ID: regB, EventID: f.ev.ID, Name: "Brinewatch", StartTile: &bIDs[0],
		CharterCosts: map[string]int{regA.String(): 30},
	}
	f.board.PutRegion(f.regionA)
	f.board.PutRegion(f.regionB)

	names := [4]string{"Alder Gate", "Mossy Row", "Old Market", "High Cliffs"}
	for i := range aIDs {
		f.a[i] = board.Tile{
			ID: aIDs[i], EventID: f.ev.ID, RegionID: regA, Name: names[i],
			Type: board.TilePlain, NextTiles: []uuid.UUID{aIDs[(i+1)%len(aIDs)]},
		}
		f.board.PutTile(f.a[i])
	}
	bNames := [2]string{"Brine Dock", "Salt Flats"}
	for i := range bIDs {
		f.b[i] = board.Tile{
			ID: bIDs[i], EventID: f.ev.ID, RegionID: regB, Name: bNames[i],
			Type: board.TilePlain, NextTiles: []uuid.UUID{bIDs[(i+1)%len(bIDs)]},
		}
		f.board.PutTile(f.b[i])
	}

	f.engine = &Engine{
		Events:  f.events,
		Board:   f.board,
		Items:   item.NewRegistry(),
		Balance: config.Default(),
		Clock:   f.clock,
		Rand:    rand.New(rand.NewSource(1)),
	}

	team, err := f.engine.CreateTeam(ctx, f.ev.ID, "Kittens", "cap", "thread-1", "voice-1")
	require.NoError(t, err)
	f.team = team
	return f
}

// mutate rewrites the team's save state in place.
func (f *fixture) mutate(fn func(*save.SaveData)) {
	f.t.Helper()
	ctx := context.Background()
	team, err := f.events.Team(ctx, f.team.ID)
	require.NoError(f.t, err)
	s, err := save.Decode(team.Data)
	require.NoError(f.t, err)
	fn(s)
	data, err := s.Encode()
	require.NoError(f.t, err)
	require.NoError(f.t, f.events.UpdateTeamData(ctx, f.team.ID, data))
}

// state returns the team's current save state.
func (f *fixture) state() *save.SaveData {
	f.t.Helper()
	team, err := f.events.Team(context.Background(), f.team.ID)
	require.NoError(f.t, err)
	s, err := save.Decode(team.Data)
	require.NoError(f.t, err)
	return s
}

// placeOn parks the team on a tile, tile completed, ready to roll.
func (f *fixture) placeOn(tile board.Tile) {
	f.mutate(func(s *save.SaveData) {
		id := tile.ID
		rid := tile.RegionID
		s.CurrentTile = &id
		s.IslandID = &rid
		s.IsTileCompleted = true
		s.IsRolling = false
		s.Roll = nil
	})
}

// suspendOn crafts an in-progress roll suspended on the given tile.
func (f *fixture) suspendOn(tile board.Tile, remaining int, arm func(*save.RollState)) {
	f.mutate(func(s *save.SaveData) {
		id := tile.ID
		rid := tile.RegionID
		start := f.a[0].ID
		s.CurrentTile = &id
		s.IslandID = &rid
		s.IsTileCompleted = true
		s.IsRolling = true
		s.Roll = &save.RollState{
			StartingTile:  &start,
			RollTotal:     remaining + 1,
			RollRemaining: remaining,
			DiceRolled:    []int{remaining + 1},
			Path:          []uuid.UUID{id},
		}
		arm(s.Roll)
	})
}
