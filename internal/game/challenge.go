package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
	"stabilityparty/internal/save"
	"stabilityparty/internal/telemetry"
)

// SubmissionHandler adapts the engine to the dispatcher's Handler
// interface.
type SubmissionHandler struct {
	Engine *Engine
}

func (h *SubmissionHandler) Name() string { return "stability-party" }

func (h *SubmissionHandler) Handle(ctx context.Context, sub event.Submission) ([]event.Notification, error) {
	return h.Engine.HandleSubmission(ctx, sub)
}

// HandleSubmission routes an accomplishment to every active event whose
// roster contains the submitting player and applies challenge progress.
func (e *Engine) HandleSubmission(ctx context.Context, sub event.Submission) ([]event.Notification, error) {
	if strings.TrimSpace(sub.RSN) == "" || strings.TrimSpace(sub.Trigger) == "" {
		return nil, fmt.Errorf("%w: rsn and trigger are required", ErrValidation)
	}
	events, err := e.Events.ActiveEvents(ctx, e.nowTime())
	if err != nil {
		return nil, err
	}
	var all []event.Notification
	for _, ev := range events {
		if ev.Type != event.TypeBoardGame {
			continue
		}
		team, err := e.Events.TeamForMember(ctx, ev.ID, sub.RSN)
		if err != nil {
			continue
		}
		notes, err := e.applySubmission(ctx, ev, team.ID, sub)
		if err != nil {
			e.logf(`{"msg":"submission failed","event":%q,"team":%q,"rsn":%q,"err":%q}`, ev.ID, team.ID, sub.RSN, err.Error())
			continue
		}
		all = append(all, notes...)
	}
	return all, nil
}

func (e *Engine) applySubmission(ctx context.Context, ev event.Event, teamID uuid.UUID, sub event.Submission) ([]event.Notification, error) {
	defer e.lockTeam(teamID)()
	_, team, s, err := e.loadTeam(ctx, ev.ID, teamID)
	if err != nil {
		return nil, err
	}
	qty := int(sub.Quantity)
	if qty <= 0 {
		qty = 1
	}

	var notes []event.Notification
	changed := false

	// Region challenges accrue whenever the team is on the island,
	// regardless of tile state. A region completion short-circuits the
	// rest of the submission.
	if s.IslandID != nil {
		regionMaps, err := e.Board.MappingsForRegion(ctx, *s.IslandID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		for _, m := range regionMaps {
			matched, completed, n, err := e.applyMapping(ctx, team, s, m, sub, qty, nil)
			if err != nil {
				return nil, err
			}
			changed = changed || matched
			notes = append(notes, n...)
			if completed {
				if err := e.commit(ctx, teamID, s); err != nil {
					return nil, err
				}
				e.publish(ctx, ev, notes)
				return notes, nil
			}
		}
	}

	// Tile challenges only accrue while standing on an incomplete tile.
	if s.CurrentTile != nil && !s.IsTileCompleted && !s.IsRolling {
		tile, err := e.Board.Tile(ctx, *s.CurrentTile)
		if err != nil {
			return nil, fmt.Errorf("%w: tile %s", ErrConfiguration, *s.CurrentTile)
		}
		tileMaps, err := e.Board.MappingsForTile(ctx, tile.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		for _, m := range tileMaps {
			if !s.ChallengeActive(m.ChallengeID) {
				continue
			}
			matched, completed, n, err := e.applyMapping(ctx, team, s, m, sub, qty, &tile)
			if err != nil {
				return nil, err
			}
			changed = changed || matched
			notes = append(notes, n...)
			if completed && s.IsTileCompleted {
				break
			}
		}
	}

	if changed {
		if err := e.commit(ctx, teamID, s); err != nil {
			return nil, err
		}
		e.publish(ctx, ev, notes)
	}
	return notes, nil
}

// applyMapping matches the submission against one mapped challenge and,
// on completion, pays out the mapping's award.
func (e *Engine) applyMapping(ctx context.Context, team event.Team, s *save.SaveData, m board.ChallengeMapping, sub event.Submission, qty int, tile *board.Tile) (matched, completed bool, notes []event.Notification, err error) {
	ch, err := e.Board.Challenge(ctx, m.ChallengeID)
	if err != nil {
		return false, false, nil, fmt.Errorf("%w: challenge %s", ErrConfiguration, m.ChallengeID)
	}
	if ch.Mode == board.ModeCumulative && s.HasCompletedCumulative(ch.ID) {
		return false, false, nil, nil
	}
	if ch.Mode == board.ModeAnd && s.HasCompletedChallenge(ch.ID) {
		return false, false, nil, nil
	}
	tasks, err := e.Board.TasksForChallenge(ctx, ch.ID)
	if err != nil {
		return false, false, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	for _, task := range tasks {
		if matchesTask(task, sub) {
			s.AddProgress(ch.ID, task.ID, qty)
			matched = true
		}
	}
	if !matched {
		return false, false, nil, nil
	}

	completed = e.evalCompletion(ch, tasks, s)
	if !completed {
		return matched, false, nil, nil
	}

	note, err := e.awardCompletion(ctx, team, s, m, ch, tile)
	if err != nil {
		return matched, true, nil, err
	}
	return matched, true, []event.Notification{note}, nil
}

func matchesTask(task board.Task, sub event.Submission) bool {
	for _, trig := range task.Triggers {
		if !strings.EqualFold(trig.Name, sub.Trigger) {
			continue
		}
		if trig.Source == "" || strings.EqualFold(trig.Source, sub.Source) {
			return true
		}
	}
	return false
}

// evalCompletion checks the challenge's mode against accumulated
// progress and performs the mode's post-completion bookkeeping.
func (e *Engine) evalCompletion(ch board.Challenge, tasks []board.Task, s *save.SaveData) bool {
	switch ch.Mode {
	case board.ModeOr:
		for _, task := range tasks {
			if task.Quantity > 0 && s.Progress(ch.ID, task.ID) >= task.Quantity {
				// Spend the quantity so the challenge can repeat.
				s.AddProgress(ch.ID, task.ID, -task.Quantity)
				return true
			}
		}
		return false
	case board.ModeAnd:
		for _, task := range tasks {
			if s.Progress(ch.ID, task.ID) < task.Quantity {
				return false
			}
		}
		// Progress stays put; the completion marker keeps the challenge
		// dormant until the next landing resets it.
		s.CompletedChallenges = append(s.CompletedChallenges, ch.ID)
		return true
	case board.ModeCumulative:
		for _, task := range tasks {
			if s.Progress(ch.ID, task.ID) < task.Quantity {
				return false
			}
		}
		s.CompletedCumulative = append(s.CompletedCumulative, ch.ID)
		return true
	}
	return false
}

func (e *Engine) awardCompletion(ctx context.Context, team event.Team, s *save.SaveData, m board.ChallengeMapping, ch board.Challenge, tile *board.Tile) (event.Notification, error) {
	bonus := e.Items.EquipmentBonus(s.Equipment, "coin_bonus")
	startCoins := s.Coins
	var desc string
	switch m.Kind {
	case board.MappingTile:
		award := e.Balance.TileCoinBase
		if tile != nil {
			reg, err := e.Board.Region(ctx, tile.RegionID)
			if err != nil {
				return event.Notification{}, fmt.Errorf("%w: region %s", ErrConfiguration, tile.RegionID)
			}
			if !reg.Hotspot {
				award -= s.IslandLaps * e.Balance.TileCoinLapStep
				if award < e.Balance.TileCoinMin {
					award = e.Balance.TileCoinMin
				}
			}
		}
		s.Coins += award + bonus
		s.IsTileCompleted = true
		s.CurrentChallenges = nil
		desc = fmt.Sprintf("Tile complete! %d coins earned. Roll when ready.", award+bonus)
		if len(s.Dice) == 0 {
			// A dieless team gets a fallback die for the next roll.
			s.Dice = append(s.Dice, e.Balance.FallbackDieSides)
			desc += fmt.Sprintf(" A d%d joins your next roll.", e.Balance.FallbackDieSides)
		}
	case board.MappingRegion:
		s.Coins += e.Balance.RegionCoinAward + bonus
		s.Dice = append(s.Dice, e.Balance.RegionDieSides)
		// An island completion also finishes whatever tile the team is on.
		s.IsTileCompleted = true
		s.CurrentChallenges = nil
		desc = fmt.Sprintf("Island challenge complete! %d coins and a d%d for your next roll.",
			e.Balance.RegionCoinAward+bonus, e.Balance.RegionDieSides)
	case board.MappingCoin:
		s.Coins += e.Balance.CoinChallengeAward + bonus
		desc = fmt.Sprintf("Bonus complete! %d coins earned.", e.Balance.CoinChallengeAward+bonus)
	default:
		return event.Notification{}, fmt.Errorf("%w: unknown mapping kind %q", ErrConfiguration, m.Kind)
	}
	e.audit(telemetry.EventChallengeCompleted, telemetry.Metadata{
		"team": team.Name, "challenge": ch.Name, "kind": string(m.Kind),
	})
	e.audit(telemetry.EventCoinsAwarded, telemetry.Metadata{"team": team.Name, "coins": s.Coins - startCoins})
	return event.Notification{
		ThreadID:    s.TextChannelID,
		Title:       fmt.Sprintf("%s completed %s", team.Name, ch.Name),
		Color:       event.DefaultEmbedColor,
		Description: desc,
		Fields: []event.EmbedField{
			{Name: "Coins", Value: fmt.Sprintf("%d", s.Coins), Inline: true},
			{Name: "Stars", Value: fmt.Sprintf("%d", s.Stars), Inline: true},
		},
	}, nil
}
