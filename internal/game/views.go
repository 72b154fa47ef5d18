package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/save"
)

// StatsView is the at-a-glance summary for one team.
type StatsView struct {
	TeamID     uuid.UUID  `json:"team_id"`
	Name       string     `json:"name"`
	Stars      int        `json:"stars"`
	Coins      int        `json:"coins"`
	TileID     *uuid.UUID `json:"tile_id,omitempty"`
	TileName   string     `json:"tile_name,omitempty"`
	RegionName string     `json:"region_name,omitempty"`
	Laps       int        `json:"laps"`
	ItemCount  int        `json:"item_count"`
	Buffs      []string   `json:"buffs,omitempty"`
	IsRolling  bool       `json:"is_rolling"`
}

// TaskProgress pairs one task with the team's accumulated count.
type TaskProgress struct {
	TaskID   uuid.UUID `json:"task_id"`
	Name     string    `json:"name"`
	Progress int       `json:"progress"`
	Quantity int       `json:"quantity"`
}

// ChallengeProgress is one challenge on the current tile or island.
type ChallengeProgress struct {
	ChallengeID uuid.UUID           `json:"challenge_id"`
	Name        string              `json:"name"`
	Mode        board.ChallengeMode `json:"mode"`
	Kind        board.MappingKind   `json:"kind"`
	Active      bool                `json:"active"`
	Completed   bool                `json:"completed,omitempty"`
	Tasks       []TaskProgress      `json:"tasks"`
}

// ProgressView lists every challenge currently in reach of the team.
type ProgressView struct {
	TileCompleted bool                `json:"tile_completed"`
	Challenges    []ChallengeProgress `json:"challenges"`
}

// ActionsView tells a client what it may legally do next.
type ActionsView struct {
	Actions []string        `json:"actions"`
	Roll    *save.RollState `json:"roll_state,omitempty"`
}

// Standing is one row of the event leaderboard.
type Standing struct {
	TeamID   uuid.UUID `json:"team_id"`
	Name     string    `json:"name"`
	Stars    int       `json:"stars"`
	Coins    int       `json:"coins"`
	TileName string    `json:"tile_name,omitempty"`
}

// TeamStats summarizes a team's position and holdings.
func (e *Engine) TeamStats(ctx context.Context, eventID, teamID uuid.UUID) (StatsView, error) {
	_, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return StatsView{}, err
	}
	view := StatsView{
		TeamID:    team.ID,
		Name:      team.Name,
		Stars:     s.Stars,
		Coins:     s.Coins,
		TileID:    s.CurrentTile,
		Laps:      s.IslandLaps,
		ItemCount: len(s.Items),
		IsRolling: s.IsRolling,
	}
	for _, b := range s.Buffs {
		view.Buffs = append(view.Buffs, b.Type)
	}
	if s.CurrentTile != nil {
		if t, err := e.Board.Tile(ctx, *s.CurrentTile); err == nil {
			view.TileName = t.Name
		}
	}
	if s.IslandID != nil {
		if r, err := e.Board.Region(ctx, *s.IslandID); err == nil {
			view.RegionName = r.Name
		}
	}
	return view, nil
}

// TileProgress reports challenge progress for the current tile and the
// island the team stands on.
func (e *Engine) TileProgress(ctx context.Context, eventID, teamID uuid.UUID) (ProgressView, error) {
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return ProgressView{}, err
	}
	view := ProgressView{TileCompleted: s.IsTileCompleted, Challenges: []ChallengeProgress{}}

	var mappings []board.ChallengeMapping
	if s.CurrentTile != nil {
		tileMaps, err := e.Board.MappingsForTile(ctx, *s.CurrentTile)
		if err != nil {
			return ProgressView{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		mappings = append(mappings, tileMaps...)
	}
	if s.IslandID != nil {
		regionMaps, err := e.Board.MappingsForRegion(ctx, *s.IslandID)
		if err != nil {
			return ProgressView{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		mappings = append(mappings, regionMaps...)
	}

	for _, m := range mappings {
		ch, err := e.Board.Challenge(ctx, m.ChallengeID)
		if err != nil {
			return ProgressView{}, fmt.Errorf("%w: challenge %s", ErrConfiguration, m.ChallengeID)
		}
		tasks, err := e.Board.TasksForChallenge(ctx, ch.ID)
		if err != nil {
			return ProgressView{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		cp := ChallengeProgress{
			ChallengeID: ch.ID,
			Name:        ch.Name,
			Mode:        ch.Mode,
			Kind:        m.Kind,
			Active:      s.ChallengeActive(ch.ID),
			Completed:   ch.Mode == board.ModeCumulative && s.HasCompletedCumulative(ch.ID),
		}
		for _, task := range tasks {
			cp.Tasks = append(cp.Tasks, TaskProgress{
				TaskID:   task.ID,
				Name:     task.Name,
				Progress: s.Progress(ch.ID, task.ID),
				Quantity: task.Quantity,
			})
		}
		view.Challenges = append(view.Challenges, cp)
	}
	return view, nil
}

// AvailableActions derives what the team may do from its save state.
func (e *Engine) AvailableActions(ctx context.Context, eventID, teamID uuid.UUID) (ActionsView, error) {
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return ActionsView{}, err
	}
	view := ActionsView{Actions: []string{}}
	if s.Roll != nil {
		view.Roll = s.Roll
		view.Actions = append(view.Actions, string(s.Roll.ActionRequired))
		return view, nil
	}
	if s.Pending != nil {
		view.Actions = append(view.Actions, "item_selection")
	}
	switch {
	case s.CurrentTile == nil:
		view.Actions = append(view.Actions, string(save.ActionFirstRoll))
	case s.IsTileCompleted:
		view.Actions = append(view.Actions, "roll")
	default:
		view.Actions = append(view.Actions, string(save.ActionComplete))
	}
	return view, nil
}

// EventProgress is the leaderboard: stars first, coins as tiebreak.
func (e *Engine) EventProgress(ctx context.Context, eventID uuid.UUID) ([]Standing, error) {
	if _, err := e.Events.Event(ctx, eventID); err != nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	teams, err := e.Events.TeamsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	standings := make([]Standing, 0, len(teams))
	for _, team := range teams {
		s, err := save.Decode(team.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: team %s: %v", ErrConfiguration, team.ID, err)
		}
		row := Standing{TeamID: team.ID, Name: team.Name, Stars: s.Stars, Coins: s.Coins}
		if s.CurrentTile != nil {
			if t, err := e.Board.Tile(ctx, *s.CurrentTile); err == nil {
				row.TileName = t.Name
			}
		}
		standings = append(standings, row)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Stars != standings[j].Stars {
			return standings[i].Stars > standings[j].Stars
		}
		if standings[i].Coins != standings[j].Coins {
			return standings[i].Coins > standings[j].Coins
		}
		return standings[i].Name < standings[j].Name
	})
	return standings, nil
}
