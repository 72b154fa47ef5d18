package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an event, team, or member does not exist.
var ErrNotFound = errors.New("event record not found")

// Repository abstracts event and roster storage.
type Repository interface {
	CreateEvent(ctx context.Context, ev Event) error
	Event(ctx context.Context, id uuid.UUID) (Event, error)
	// ActiveEvents returns events whose window covers t.
	ActiveEvents(ctx context.Context, t time.Time) ([]Event, error)
	UpdateStarTiles(ctx context.Context, eventID uuid.UUID, tiles []uuid.UUID) error

	CreateTeam(ctx context.Context, t Team) error
	Team(ctx context.Context, id uuid.UUID) (Team, error)
	TeamsForEvent(ctx context.Context, eventID uuid.UUID) ([]Team, error)
	UpdateTeamData(ctx context.Context, teamID uuid.UUID, data []byte) error
	UpdateTeamName(ctx context.Context, teamID uuid.UUID, name string) error

	AddMember(ctx context.Context, m Member) error
	RemoveMember(ctx context.Context, eventID uuid.UUID, username string) error
	MembersForTeam(ctx context.Context, teamID uuid.UUID) ([]Member, error)
	// TeamForMember resolves a roster username case-insensitively.
	TeamForMember(ctx context.Context, eventID uuid.UUID, username string) (Team, error)
	TeamForDiscordID(ctx context.Context, eventID uuid.UUID, discordID string) (Team, error)
}
