package board

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when referenced content does not exist.
var ErrNotFound = errors.New("board content not found")

// Repository is the read side of the content graph. Implementations must
// return deterministic ordering for list methods so gameplay stays
// reproducible under a seeded roller.
type Repository interface {
	Region(ctx context.Context, id uuid.UUID) (Region, error)
	RegionsForEvent(ctx context.Context, eventID uuid.UUID) ([]Region, error)
	Tile(ctx context.Context, id uuid.UUID) (Tile, error)
	TilesForEvent(ctx context.Context, eventID uuid.UUID) ([]Tile, error)
	MappingsForTile(ctx context.Context, tileID uuid.UUID) ([]ChallengeMapping, error)
	MappingsForRegion(ctx context.Context, regionID uuid.UUID) ([]ChallengeMapping, error)
	Challenge(ctx context.Context, id uuid.UUID) (Challenge, error)
	TasksForChallenge(ctx context.Context, challengeID uuid.UUID) ([]Task, error)
}
