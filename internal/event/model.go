// Package event holds the mutable side of a running party: events, teams,
// their rosters, and the submission dispatch fan-out.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type distinguishes game modes sharing the submission pipeline. Only the
// board game is implemented today.
type Type string

const TypeBoardGame Type = "STABILITY_PARTY"

// Event is a scheduled competition window.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        Type      `json:"type"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	// WebhookURL receives notification embeds. Empty disables delivery.
	WebhookURL string `json:"webhook_url,omitempty"`

	// StarTiles are where stars currently sit. Mutated under the event
	// lock as stars are bought and relocated.
	StarTiles []uuid.UUID `json:"star_tiles"`
}

// Active reports whether the event window covers t.
func (e Event) Active(t time.Time) bool {
	return !t.Before(e.StartTime) && t.Before(e.EndTime)
}

// Team is a competing group. Data is the opaque per-team save blob owned
// by the game engine.
type Team struct {
	ID      uuid.UUID `json:"id"`
	EventID uuid.UUID `json:"event_id"`
	Name    string    `json:"name"`
	Captain string    `json:"captain,omitempty"`
	Image   string    `json:"image,omitempty"`
	Data    []byte    `json:"-"`
}

// Member is one roster entry. Username is the in-game name submissions
// arrive under; alts get their own rows pointing at the same team.
type Member struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	TeamID    uuid.UUID `json:"team_id"`
	Username  string    `json:"username"`
	DiscordID string    `json:"discord_id,omitempty"`
}
