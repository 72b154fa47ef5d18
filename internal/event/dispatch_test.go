package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	name  string
	notes []Notification
	err   error
	seen  []Submission
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) Handle(_ context.Context, sub Submission) ([]Notification, error) {
	s.seen = append(s.seen, sub)
	return s.notes, s.err
}

func TestDispatcherFansOut(t *testing.T) {
	d := NewDispatcher(nil)
	a := &stubHandler{name: "a", notes: []Notification{{Title: "from a"}}}
	b := &stubHandler{name: "b", notes: []Notification{{Title: "from b"}, {Title: "also b"}}}
	require.NoError(t, d.Register(a))
	require.NoError(t, d.Register(b))

	notes := d.Dispatch(context.Background(), Submission{RSN: "Zezima", Trigger: "Abyssal whip"})

	require.Len(t, notes, 3)
	assert.Equal(t, "from a", notes[0].Title)
	assert.Equal(t, "from b", notes[1].Title)
	require.Len(t, a.seen, 1)
	assert.Equal(t, "Zezima", a.seen[0].RSN)
}

func TestDispatcherSkipsFailingHandler(t *testing.T) {
	d := NewDispatcher(nil)
	bad := &stubHandler{name: "bad", err: errors.New("boom")}
	good := &stubHandler{name: "good", notes: []Notification{{Title: "ok"}}}
	require.NoError(t, d.Register(bad))
	require.NoError(t, d.Register(good))

	notes := d.Dispatch(context.Background(), Submission{RSN: "x", Trigger: "y"})

	require.Len(t, notes, 1)
	assert.Equal(t, "ok", notes[0].Title)
}

func TestDispatcherRejectsDuplicatesAndNil(t *testing.T) {
	d := NewDispatcher(nil)
	require.NoError(t, d.Register(&stubHandler{name: "dup"}))
	assert.Error(t, d.Register(&stubHandler{name: "dup"}))
	assert.Error(t, d.Register(nil))
}

func TestTeamForMemberIsCaseInsensitive(t *testing.T) {
	r := NewMemoryRepo()
	ev := Event{ID: uuid.New(), Type: TypeBoardGame}
	require.NoError(t, r.CreateEvent(context.Background(), ev))
	team := Team{ID: uuid.New(), EventID: ev.ID, Name: "Kittens"}
	require.NoError(t, r.CreateTeam(context.Background(), team))
	require.NoError(t, r.AddMember(context.Background(), Member{
		ID: uuid.New(), EventID: ev.ID, TeamID: team.ID, Username: "Lil Baddie",
	}))

	got, err := r.TeamForMember(context.Background(), ev.ID, "lil baddie")
	require.NoError(t, err)
	assert.Equal(t, team.ID, got.ID)

	_, err = r.TeamForMember(context.Background(), ev.ID, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
