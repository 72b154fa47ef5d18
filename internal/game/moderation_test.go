package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stabilityparty/internal/board"
	"stabilityparty/internal/save"
)

func TestCreateTeamStartsReadyToRoll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team, err := f.engine.CreateTeam(ctx, f.ev.ID, "Otters", "cap", "t-chan", "v-chan")
	require.NoError(t, err)
	s, err := save.Decode(team.Data)
	require.NoError(t, err)
	assert.True(t, s.IsTileCompleted, "a fresh team may roll immediately")
	assert.Nil(t, s.CurrentTile)
	assert.Equal(t, "t-chan", s.TextChannelID)

	_, err = f.engine.CreateTeam(ctx, f.ev.ID, "otters", "", "", "")
	assert.ErrorIs(t, err, ErrValidation, "names are unique ignoring case")
}

func TestAddMemberRejectsDoubleEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.enroll("Zezima")

	other, err := f.engine.CreateTeam(ctx, f.ev.ID, "Rivals", "", "", "")
	require.NoError(t, err)
	_, err = f.engine.AddMember(ctx, f.ev.ID, other.ID, "zezima", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestForceCompleteTile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.onIncompleteTile(f.a[1])

	require.NoError(t, f.engine.ForceCompleteTile(ctx, f.ev.ID, f.team.ID))
	assert.True(t, f.state().IsTileCompleted)
}

func TestMoveToTileArmsChallenges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTileChallenge(f.a[2], board.ModeOr, board.MappingTile,
		makeTask("Sharks", 1, "Shark", ""))
	f.placeOn(f.a[0])

	require.NoError(t, f.engine.MoveToTile(ctx, f.ev.ID, f.team.ID, f.a[2].ID))
	s := f.state()
	require.NotNil(t, s.CurrentTile)
	assert.Equal(t, f.a[2].ID, *s.CurrentTile)
	assert.False(t, s.IsTileCompleted, "the destination's challenges arm on arrival")
}

func TestSetStarsAndCoins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.SetStars(ctx, f.ev.ID, f.team.ID, 3))
	require.NoError(t, f.engine.SetCoins(ctx, f.ev.ID, f.team.ID, 75))
	s := f.state()
	assert.Equal(t, 3, s.Stars)
	assert.Equal(t, 75, s.Coins)

	assert.ErrorIs(t, f.engine.SetStars(ctx, f.ev.ID, f.team.ID, -1), ErrValidation)
}

func TestCreateEventValidatesWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	_, err := f.engine.CreateEvent(ctx, "Party", "", "", now, now)
	assert.ErrorIs(t, err, ErrValidation)

	ev, err := f.engine.CreateEvent(ctx, "Party", "spring run", "", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, "", ev.ID.String())
}

func TestPlaceStar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.PlaceStar(ctx, f.ev.ID, f.a[2].ID))
	assert.ErrorIs(t, f.engine.PlaceStar(ctx, f.ev.ID, f.a[2].ID), ErrValidation)

	ev, err := f.events.Event(ctx, f.ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.a[2].ID}, ev.StarTiles)
}
