package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
	"stabilityparty/internal/item"
	"stabilityparty/internal/save"
	"stabilityparty/internal/telemetry"
)

// ItemResult is the outcome of an item activation step.
type ItemResult struct {
	Message           string   `json:"message,omitempty"`
	Options           []string `json:"options,omitempty"`
	SelectionRequired bool     `json:"selection_required"`
	Coins             int      `json:"coins"`
	Stars             int      `json:"stars"`
}

// InventoryItem is one owned item with its catalog description.
type InventoryItem struct {
	Index         int    `json:"index"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	UsesRemaining int    `json:"uses_remaining,omitempty"`
}

// InventoryView is the full item picture for one team.
type InventoryView struct {
	Items     []InventoryItem         `json:"items"`
	Equipment save.Equipment          `json:"equipment"`
	Pending   *save.PendingActivation `json:"pending_activation,omitempty"`
	Coins     int                     `json:"coins"`
	Stars     int                     `json:"stars"`
}

// UseItem activates an owned item. Items that need a target suspend into
// a pending activation resolved by CompleteSelection.
func (e *Engine) UseItem(ctx context.Context, eventID, teamID uuid.UUID, itemIndex int) (ItemResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return ItemResult{}, err
	}
	if s.Pending != nil {
		return ItemResult{}, fmt.Errorf("%w: an item activation is already pending", ErrStateConflict)
	}
	if itemIndex < 0 || itemIndex >= len(s.Items) {
		return ItemResult{}, fmt.Errorf("%w: no item at index %d", ErrValidation, itemIndex)
	}
	inst := s.Items[itemIndex]
	def, err := e.Items.Definition(inst.ID)
	if err != nil {
		return ItemResult{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	ictx, err := e.itemContext(ctx, ev, teamID, s, def, itemIndex, "")
	if err != nil {
		return ItemResult{}, err
	}
	eff, err := e.Items.Activate(ictx)
	if err != nil {
		return ItemResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var notes []event.Notification
	if len(eff.Options) > 0 {
		s.Pending = &save.PendingActivation{ItemIndex: itemIndex, Effect: def.ID, Options: eff.Options}
	} else {
		notes, err = e.applyEffect(ctx, ev, team, s, eff)
		if err != nil {
			return ItemResult{}, err
		}
	}
	if eff.RemoveOnUse == nil || *eff.RemoveOnUse {
		consumeItem(s, itemIndex, def)
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return ItemResult{}, err
	}
	e.audit(telemetry.EventItemUsed, telemetry.Metadata{"team": team.Name, "item": def.ID})
	e.publish(ctx, ev, notes)
	return ItemResult{
		Message:           eff.Message,
		Options:           eff.Options,
		SelectionRequired: len(eff.Options) > 0,
		Coins:             s.Coins,
		Stars:             s.Stars,
	}, nil
}

// CompleteSelection resolves a pending two-stage activation with the
// chosen option.
func (e *Engine) CompleteSelection(ctx context.Context, eventID, teamID uuid.UUID, selection string) (ItemResult, error) {
	// Peek at the pending item before locking: a star steal needs both
	// team locks, taken in global order.
	peek, err := e.Events.Team(ctx, teamID)
	if err != nil || peek.EventID != eventID {
		return ItemResult{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	peeked, err := save.Decode(peek.Data)
	if err != nil {
		return ItemResult{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if peeked.Pending == nil {
		return ItemResult{}, fmt.Errorf("%w: no item activation pending", ErrStateConflict)
	}

	lockIDs := []uuid.UUID{teamID}
	if peeked.Pending.Effect == "star_stealer" {
		teams, err := e.Events.TeamsForEvent(ctx, eventID)
		if err != nil {
			return ItemResult{}, err
		}
		for _, t := range teams {
			if t.Name == selection && t.ID != teamID {
				lockIDs = append(lockIDs, t.ID)
				break
			}
		}
	}
	defer e.lockTeams(lockIDs...)()

	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return ItemResult{}, err
	}
	if s.Pending == nil || s.Pending.Effect != peeked.Pending.Effect {
		return ItemResult{}, fmt.Errorf("%w: pending activation changed", ErrStateConflict)
	}
	valid := false
	for _, opt := range s.Pending.Options {
		if opt == selection {
			valid = true
			break
		}
	}
	if !valid {
		return ItemResult{}, fmt.Errorf("%w: %q is not one of the offered options", ErrValidation, selection)
	}
	def, err := e.Items.Definition(s.Pending.Effect)
	if err != nil {
		return ItemResult{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	itemIndex := s.Pending.ItemIndex

	ictx, err := e.itemContext(ctx, ev, teamID, s, def, itemIndex, selection)
	if err != nil {
		return ItemResult{}, err
	}
	eff, err := e.Items.CompleteSelection(ictx)
	if err != nil {
		return ItemResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	notes, err := e.applyEffect(ctx, ev, team, s, eff)
	if err != nil {
		return ItemResult{}, err
	}
	s.Pending = nil
	if eff.RemoveOnUse == nil || *eff.RemoveOnUse {
		consumeItem(s, itemIndex, def)
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return ItemResult{}, err
	}
	e.publish(ctx, ev, notes)
	return ItemResult{Message: eff.Message, Coins: s.Coins, Stars: s.Stars}, nil
}

// Inventory lists a team's items, equipment, and any pending activation.
func (e *Engine) Inventory(ctx context.Context, eventID, teamID uuid.UUID) (InventoryView, error) {
	_, _, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return InventoryView{}, err
	}
	view := InventoryView{
		Items:     []InventoryItem{},
		Equipment: s.Equipment,
		Pending:   s.Pending,
		Coins:     s.Coins,
		Stars:     s.Stars,
	}
	for i, inst := range s.Items {
		entry := InventoryItem{Index: i, ID: inst.ID, UsesRemaining: inst.UsesRemaining}
		if def, err := e.Items.Definition(inst.ID); err == nil {
			entry.Name = def.Name
			entry.Description = def.Description
		}
		view.Items = append(view.Items, entry)
	}
	return view, nil
}

// applyEffect carries out the cross-cutting consequences a handler
// cannot apply itself: teleports and star theft.
func (e *Engine) applyEffect(ctx context.Context, ev event.Event, team event.Team, s *save.SaveData, eff item.Effect) ([]event.Notification, error) {
	var notes []event.Notification
	if eff.TeleportTo != nil {
		if s.IsRolling {
			return nil, fmt.Errorf("%w: cannot travel while a roll is in progress", ErrStateConflict)
		}
		tile, err := e.Board.Tile(ctx, *eff.TeleportTo)
		if err != nil {
			return nil, fmt.Errorf("%w: tile %s", ErrConfiguration, *eff.TeleportTo)
		}
		e.placeTeam(s, tile.ID, tile.RegionID)
		n, _, err := e.land(ctx, team, s)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n...)
	}
	if eff.StealStarFrom != nil {
		victim, err := e.Events.Team(ctx, *eff.StealStarFrom)
		if err != nil || victim.EventID != ev.ID {
			return nil, fmt.Errorf("%w: team %s", ErrNotFound, *eff.StealStarFrom)
		}
		vs, err := save.Decode(victim.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if vs.Stars <= 0 {
			return nil, fmt.Errorf("%w: %s no longer holds a star", ErrStateConflict, victim.Name)
		}
		vs.Stars--
		if err := e.commit(ctx, victim.ID, vs); err != nil {
			return nil, err
		}
		s.Stars++
		notes = append(notes, event.Notification{
			ThreadID:    s.TextChannelID,
			Title:       fmt.Sprintf("%s stole a star from %s!", team.Name, victim.Name),
			Color:       event.DefaultEmbedColor,
			Description: fmt.Sprintf("%s now holds %d stars.", team.Name, s.Stars),
		})
	}
	return notes, nil
}

func consumeItem(s *save.SaveData, idx int, def item.Definition) {
	if idx < 0 || idx >= len(s.Items) {
		return
	}
	if def.Uses > 1 {
		s.Items[idx].UsesRemaining--
		if s.Items[idx].UsesRemaining > 0 {
			return
		}
	}
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
}

func (e *Engine) itemContext(ctx context.Context, ev event.Event, teamID uuid.UUID, s *save.SaveData, def item.Definition, idx int, selection string) (*item.Context, error) {
	regions, err := e.Board.RegionsForEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	var starTiles []board.Tile
	for _, id := range ev.StarTiles {
		if t, err := e.Board.Tile(ctx, id); err == nil {
			starTiles = append(starTiles, t)
		}
	}
	teams, err := e.Events.TeamsForEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	standings := make([]item.TeamStanding, 0, len(teams))
	for _, t := range teams {
		stars := 0
		if t.ID == teamID {
			stars = s.Stars
		} else if ts, err := save.Decode(t.Data); err == nil {
			stars = ts.Stars
		}
		standings = append(standings, item.TeamStanding{ID: t.ID, Name: t.Name, Stars: stars})
	}
	return &item.Context{
		Ctx:       ctx,
		EventID:   ev.ID,
		TeamID:    teamID,
		Save:      s,
		Def:       def,
		ItemIndex: idx,
		Selection: selection,
		Balance:   e.Balance,
		Regions:   regions,
		StarTiles: starTiles,
		Teams:     standings,
		Rand:      e.intn,
	}, nil
}
