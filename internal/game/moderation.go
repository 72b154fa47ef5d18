package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stabilityparty/internal/event"
	"stabilityparty/internal/save"
)

// Moderation operations bypass the normal rules so operators can repair
// game state. They still go through the same locks and save codec.

// CreateEvent schedules a new event.
func (e *Engine) CreateEvent(ctx context.Context, name, description, webhookURL string, start, end time.Time) (event.Event, error) {
	if strings.TrimSpace(name) == "" {
		return event.Event{}, fmt.Errorf("%w: event name is required", ErrValidation)
	}
	if !end.After(start) {
		return event.Event{}, fmt.Errorf("%w: event window must end after it starts", ErrValidation)
	}
	ev := event.Event{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Type:        event.TypeBoardGame,
		StartTime:   start,
		EndTime:     end,
		WebhookURL:  webhookURL,
		StarTiles:   []uuid.UUID{},
	}
	if err := e.Events.CreateEvent(ctx, ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

// PlaceStar drops a star onto a tile, for initial event setup.
func (e *Engine) PlaceStar(ctx context.Context, eventID, tileID uuid.UUID) error {
	tile, err := e.Board.Tile(ctx, tileID)
	if err != nil || tile.EventID != eventID {
		return fmt.Errorf("%w: tile %s", ErrNotFound, tileID)
	}
	defer e.lockEvent(eventID)()
	ev, err := e.Events.Event(ctx, eventID)
	if err != nil {
		return fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	for _, st := range ev.StarTiles {
		if st == tileID {
			return fmt.Errorf("%w: tile already holds a star", ErrValidation)
		}
	}
	return e.Events.UpdateStarTiles(ctx, eventID, append(ev.StarTiles, tileID))
}

// CreateTeam registers a team with a fresh save state.
func (e *Engine) CreateTeam(ctx context.Context, eventID uuid.UUID, name, captain, textChannelID, voiceChannelID string) (event.Team, error) {
	if strings.TrimSpace(name) == "" {
		return event.Team{}, fmt.Errorf("%w: team name is required", ErrValidation)
	}
	if _, err := e.Events.Event(ctx, eventID); err != nil {
		return event.Team{}, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	existing, err := e.Events.TeamsForEvent(ctx, eventID)
	if err != nil {
		return event.Team{}, err
	}
	for _, t := range existing {
		if strings.EqualFold(t.Name, name) {
			return event.Team{}, fmt.Errorf("%w: team %q already exists", ErrValidation, name)
		}
	}
	data, err := save.New(textChannelID, voiceChannelID).Encode()
	if err != nil {
		return event.Team{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	team := event.Team{
		ID:      uuid.New(),
		EventID: eventID,
		Name:    name,
		Captain: captain,
		Data:    data,
	}
	if err := e.Events.CreateTeam(ctx, team); err != nil {
		return event.Team{}, err
	}
	return team, nil
}

// RenameTeam changes a team's display name.
func (e *Engine) RenameTeam(ctx context.Context, eventID, teamID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: team name is required", ErrValidation)
	}
	if _, _, _, err := e.loadTeam(ctx, eventID, teamID); err != nil {
		return err
	}
	return e.Events.UpdateTeamName(ctx, teamID, name)
}

// AddMember puts a username on a team's roster. Alt names get their own
// entries pointing at the same team.
func (e *Engine) AddMember(ctx context.Context, eventID, teamID uuid.UUID, username, discordID string) (event.Member, error) {
	if strings.TrimSpace(username) == "" {
		return event.Member{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if _, _, _, err := e.loadTeam(ctx, eventID, teamID); err != nil {
		return event.Member{}, err
	}
	if existing, err := e.Events.TeamForMember(ctx, eventID, username); err == nil {
		return event.Member{}, fmt.Errorf("%w: %q is already on team %q", ErrValidation, username, existing.Name)
	}
	m := event.Member{
		ID:        uuid.New(),
		EventID:   eventID,
		TeamID:    teamID,
		Username:  username,
		DiscordID: discordID,
	}
	if err := e.Events.AddMember(ctx, m); err != nil {
		return event.Member{}, err
	}
	return m, nil
}

// RemoveMember takes a username off whatever roster it is on.
func (e *Engine) RemoveMember(ctx context.Context, eventID uuid.UUID, username string) error {
	if err := e.Events.RemoveMember(ctx, eventID, username); err != nil {
		return fmt.Errorf("%w: %q is not on any roster", ErrNotFound, username)
	}
	return nil
}

// ForceCompleteTile marks the current tile complete without challenge
// progress.
func (e *Engine) ForceCompleteTile(ctx context.Context, eventID, teamID uuid.UUID) error {
	defer e.lockTeam(teamID)()
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return err
	}
	if s.IsRolling {
		return fmt.Errorf("%w: a roll is in progress", ErrStateConflict)
	}
	s.IsTileCompleted = true
	s.CurrentChallenges = nil
	return e.commit(ctx, teamID, s)
}

// SetStars overwrites a team's star count.
func (e *Engine) SetStars(ctx context.Context, eventID, teamID uuid.UUID, stars int) error {
	if stars < 0 {
		return fmt.Errorf("%w: stars cannot be negative", ErrValidation)
	}
	defer e.lockTeam(teamID)()
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return err
	}
	s.Stars = stars
	return e.commit(ctx, teamID, s)
}

// SetCoins overwrites a team's coin count.
func (e *Engine) SetCoins(ctx context.Context, eventID, teamID uuid.UUID, coins int) error {
	if coins < 0 {
		return fmt.Errorf("%w: coins cannot be negative", ErrValidation)
	}
	defer e.lockTeam(teamID)()
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return err
	}
	s.Coins = coins
	return e.commit(ctx, teamID, s)
}

// MoveToTile teleports a team onto a tile and arms that tile's
// challenges as if it had landed there.
func (e *Engine) MoveToTile(ctx context.Context, eventID, teamID, tileID uuid.UUID) error {
	defer e.lockTeam(teamID)()
	_, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return err
	}
	tile, err := e.Board.Tile(ctx, tileID)
	if err != nil || tile.EventID != eventID {
		return fmt.Errorf("%w: tile %s", ErrNotFound, tileID)
	}
	e.placeTeam(s, tile.ID, tile.RegionID)
	if _, _, err := e.land(ctx, team, s); err != nil {
		return err
	}
	return e.commit(ctx, teamID, s)
}

// UndoRoll aborts an in-progress roll and puts the team back where the
// roll started. Consumed boost dice are not restored.
func (e *Engine) UndoRoll(ctx context.Context, eventID, teamID uuid.UUID) error {
	defer e.lockTeam(teamID)()
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return err
	}
	if !s.IsRolling || s.Roll == nil {
		return fmt.Errorf("%w: no roll in progress", ErrStateConflict)
	}
	start := s.Roll.StartingTile
	s.CurrentTile = start
	if start != nil {
		if tile, err := e.Board.Tile(ctx, *start); err == nil {
			rid := tile.RegionID
			s.IslandID = &rid
		}
	} else {
		s.IslandID = nil
	}
	s.IsRolling = false
	s.Roll = nil
	s.IsTileCompleted = true
	s.CurrentChallenges = nil
	return e.commit(ctx, teamID, s)
}
