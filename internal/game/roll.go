package game

import (
	"fmt"
	"math/rand"
	"time"

	"context"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/event"
	"stabilityparty/internal/save"
	"stabilityparty/internal/telemetry"
)

// TurnResult is returned by every roll and resolution call: where the
// team is now and what, if anything, it must resolve next.
type TurnResult struct {
	Action      save.Action     `json:"action_required"`
	Roll        *save.RollState `json:"roll_state,omitempty"`
	CurrentTile *uuid.UUID      `json:"current_tile,omitempty"`
	TileName    string          `json:"tile_name,omitempty"`
	Coins       int             `json:"coins"`
	Stars       int             `json:"stars"`
	Messages    []string        `json:"messages,omitempty"`
}

// StartRoll rolls the team's dice and begins movement. The first roll of
// an event suspends on island selection before any movement happens.
func (e *Engine) StartRoll(ctx context.Context, eventID, teamID uuid.UUID) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if !ev.Active(e.nowTime()) {
		return TurnResult{}, fmt.Errorf("%w: event window is closed", ErrStateConflict)
	}
	if s.IsRolling {
		return TurnResult{}, fmt.Errorf("%w: a roll is already in progress", ErrStateConflict)
	}
	if !s.IsTileCompleted && s.CurrentTile != nil {
		return TurnResult{}, fmt.Errorf("%w: current tile is not complete", ErrStateConflict)
	}

	dice := append([]int{e.Balance.DefaultDieSides}, s.Dice...)
	mod := s.Modifier + e.Items.EquipmentBonus(s.Equipment, "modifier")
	results := make([]int, 0, len(dice))
	total := mod
	for _, sides := range dice {
		r := e.rollDie(sides)
		results = append(results, r)
		total += r
	}
	if total < 1 {
		total = 1
	}
	s.Dice = []int{}
	s.Modifier = 0
	s.IsRolling = true
	s.Roll = &save.RollState{
		StartingTile:   s.CurrentTile,
		RollTotal:      total,
		RollRemaining:  total,
		DiceRolled:     results,
		Modifier:       mod,
		Path:           []uuid.UUID{},
		ActionRequired: save.ActionNone,
	}

	msgs := []string{fmt.Sprintf("You rolled %d.", total)}
	var notes []event.Notification
	if s.CurrentTile == nil {
		islands, err := e.islandOptions(ctx, eventID)
		if err != nil {
			return TurnResult{}, err
		}
		if len(islands) == 0 {
			return TurnResult{}, fmt.Errorf("%w: no region has a start tile", ErrConfiguration)
		}
		s.Roll.ActionRequired = save.ActionIslandSelection
		s.Roll.Islands = islands
	} else {
		notes, msgs, err = e.advance(ctx, ev, team, s, msgs)
		if err != nil {
			return TurnResult{}, err
		}
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.audit(telemetry.EventRollStarted, telemetry.Metadata{"team": team.Name, "total": total})
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// Continue declines a pending shop, star, or dock stop and resumes
// movement.
func (e *Engine) Continue(ctx context.Context, eventID, teamID uuid.UUID) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionShop, save.ActionStar, save.ActionDock); err != nil {
		return TurnResult{}, err
	}
	s.Roll.ClearAction()
	notes, msgs, err := e.advance(ctx, ev, team, s, nil)
	if err != nil {
		return TurnResult{}, err
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// ResolveCrossroad picks one successor at a branch and resumes movement.
func (e *Engine) ResolveCrossroad(ctx context.Context, eventID, teamID, tileID uuid.UUID) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionCrossroad); err != nil {
		return TurnResult{}, err
	}
	valid := false
	for _, opt := range s.Roll.Crossroad {
		if opt.TileID == tileID {
			valid = true
			break
		}
	}
	if !valid {
		return TurnResult{}, fmt.Errorf("%w: tile %s is not an option here", ErrValidation, tileID)
	}
	s.Roll.ClearAction()
	suspended, notes, msgs, err := e.step(ctx, ev, team, s, tileID)
	if err != nil {
		return TurnResult{}, err
	}
	if !suspended {
		var more []event.Notification
		more, msgs, err = e.advance(ctx, ev, team, s, msgs)
		if err != nil {
			return TurnResult{}, err
		}
		notes = append(notes, more...)
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// ResolveShop buys one offered item and resumes movement; declining a
// shop goes through Continue instead.
func (e *Engine) ResolveShop(ctx context.Context, eventID, teamID uuid.UUID, itemID string) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionShop); err != nil {
		return TurnResult{}, err
	}
	idx := -1
	for i, offer := range s.Roll.Shop {
		if offer.ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return TurnResult{}, fmt.Errorf("%w: item %s is not on offer", ErrValidation, itemID)
	}
	offer := s.Roll.Shop[idx]
	def, err := e.Items.Definition(offer.ItemID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if len(s.Items) >= e.Balance.InventoryCap {
		return TurnResult{}, fmt.Errorf("%w: inventory is full", ErrValidation)
	}
	price := offer.Price
	if discount := e.Items.EquipmentBonus(s.Equipment, "shop_discount"); discount > 0 {
		price = price * (100 - discount) / 100
		if price < 1 {
			price = 1
		}
	}
	if s.Coins < price {
		return TurnResult{}, fmt.Errorf("%w: not enough coins (%d needed)", ErrValidation, price)
	}
	s.Coins -= price
	s.Items = append(s.Items, save.ItemInstance{
		ID:            def.ID,
		UsesRemaining: def.Uses,
		PurchasedAt:   e.nowTime(),
	})
	msgs := []string{fmt.Sprintf("You buy the %s for %d coins.", def.Name, price)}
	notes := []event.Notification{{
		ThreadID:    s.TextChannelID,
		Title:       fmt.Sprintf("%s bought %s", team.Name, def.Name),
		Color:       event.DefaultEmbedColor,
		Description: fmt.Sprintf("%d coins changed hands. %d remain in the purse.", price, s.Coins),
	}}
	s.Roll.ClearAction()
	more, msgs, err := e.advance(ctx, ev, team, s, msgs)
	if err != nil {
		return TurnResult{}, err
	}
	notes = append(notes, more...)
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.audit(telemetry.EventShopPurchase, telemetry.Metadata{"item": def.ID, "price": price})
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// ResolveStar buys (or declines) the star on the current tile. A
// purchased star immediately relocates to a plain tile in a region no
// team is currently on.
func (e *Engine) ResolveStar(ctx context.Context, eventID, teamID uuid.UUID, buy bool) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionStar); err != nil {
		return TurnResult{}, err
	}
	var msgs []string
	var notes []event.Notification
	if buy {
		price := s.Roll.StarPrice
		if s.Coins < price {
			return TurnResult{}, fmt.Errorf("%w: not enough coins (%d needed)", ErrValidation, price)
		}
		newTile, err := e.relocateStar(ctx, ev.ID, *s.CurrentTile)
		if err != nil {
			return TurnResult{}, err
		}
		s.Coins -= price
		s.Stars++
		s.ConsumeBuff(save.BuffStarDiscount)
		msgs = append(msgs, fmt.Sprintf("You claim the star for %d coins!", price))
		notes = append(notes, event.Notification{
			ThreadID:    s.TextChannelID,
			Title:       fmt.Sprintf("%s claimed a star!", team.Name),
			Color:       event.DefaultEmbedColor,
			Description: fmt.Sprintf("That makes %d. The star has moved to a new hiding place.", s.Stars),
		})
		e.logf(`{"msg":"star purchased","team":%q,"new_tile":%q}`, team.ID, newTile)
		e.audit(telemetry.EventStarPurchased, telemetry.Metadata{"team": team.Name, "price": price})
	}
	s.Roll.ClearAction()
	more, msgs, err := e.advance(ctx, ev, team, s, msgs)
	if err != nil {
		return TurnResult{}, err
	}
	notes = append(notes, more...)
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// ResolveDock charters to another island's start tile and resumes
// movement there.
func (e *Engine) ResolveDock(ctx context.Context, eventID, teamID, regionID uuid.UUID) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionDock); err != nil {
		return TurnResult{}, err
	}
	var dest *save.DockDestination
	for i := range s.Roll.Dock {
		if s.Roll.Dock[i].RegionID == regionID {
			dest = &s.Roll.Dock[i]
			break
		}
	}
	if dest == nil {
		return TurnResult{}, fmt.Errorf("%w: region %s is not charterable from here", ErrValidation, regionID)
	}
	if s.Coins < dest.Cost {
		return TurnResult{}, fmt.Errorf("%w: not enough coins (%d needed)", ErrValidation, dest.Cost)
	}
	reg, err := e.Board.Region(ctx, dest.RegionID)
	if err != nil || reg.StartTile == nil {
		return TurnResult{}, fmt.Errorf("%w: region %s has no start tile", ErrConfiguration, dest.RegionID)
	}
	s.Coins -= dest.Cost
	if dest.Cost == 0 && s.HasBuff(save.BuffFreeTravel) {
		s.ConsumeBuff(save.BuffFreeTravel)
	}
	e.placeTeam(s, *reg.StartTile, reg.ID)
	// The crossing itself spends one step; declining a dock spends none.
	s.Roll.RollRemaining--
	e.audit(telemetry.EventCharterTaken, telemetry.Metadata{"team": team.Name, "to": reg.Name, "cost": dest.Cost})
	msgs := []string{fmt.Sprintf("You charter a ship to %s.", reg.Name)}
	s.Roll.ClearAction()
	notes, msgs, err := e.advance(ctx, ev, team, s, msgs)
	if err != nil {
		return TurnResult{}, err
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// ResolveFirstIsland places the team on its chosen starting island and
// spends the already-rolled movement from there.
func (e *Engine) ResolveFirstIsland(ctx context.Context, eventID, teamID, regionID uuid.UUID) (TurnResult, error) {
	defer e.lockTeam(teamID)()
	ev, team, s, err := e.loadTeam(ctx, eventID, teamID)
	if err != nil {
		return TurnResult{}, err
	}
	if err := requireAction(s, save.ActionIslandSelection); err != nil {
		return TurnResult{}, err
	}
	valid := false
	for _, opt := range s.Roll.Islands {
		if opt.RegionID == regionID {
			valid = true
			break
		}
	}
	if !valid {
		return TurnResult{}, fmt.Errorf("%w: region %s is not a starting option", ErrValidation, regionID)
	}
	reg, err := e.Board.Region(ctx, regionID)
	if err != nil || reg.StartTile == nil {
		return TurnResult{}, fmt.Errorf("%w: region %s has no start tile", ErrConfiguration, regionID)
	}
	e.placeTeam(s, *reg.StartTile, reg.ID)
	// Landfall spends one step of the rolled movement.
	s.Roll.RollRemaining--
	s.Roll.ClearAction()
	msgs := []string{fmt.Sprintf("You make landfall on %s.", reg.Name)}
	notes, msgs, err := e.advance(ctx, ev, team, s, msgs)
	if err != nil {
		return TurnResult{}, err
	}
	if err := e.commit(ctx, teamID, s); err != nil {
		return TurnResult{}, err
	}
	e.publish(ctx, ev, notes)
	return e.turnResult(ctx, s, msgs), nil
}

// advance walks the board until the movement budget runs out or a
// decision suspends the roll. The iteration cap turns content cycles into
// configuration errors instead of livelock.
func (e *Engine) advance(ctx context.Context, ev event.Event, team event.Team, s *save.SaveData, msgs []string) ([]event.Notification, []string, error) {
	var notes []event.Notification
	for steps := 0; steps < e.Balance.MaxStepsPerTurn; steps++ {
		if s.Roll.RollRemaining <= 0 {
			n, m, err := e.land(ctx, team, s)
			return append(notes, n...), append(msgs, m...), err
		}
		cur, err := e.Board.Tile(ctx, *s.CurrentTile)
		if err != nil {
			return notes, msgs, fmt.Errorf("%w: tile %s", ErrConfiguration, *s.CurrentTile)
		}
		switch len(cur.NextTiles) {
		case 0:
			// Dead end: the roll stops here regardless of budget.
			n, m, err := e.land(ctx, team, s)
			return append(notes, n...), append(msgs, m...), err
		case 1:
			suspended, n, m, err := e.step(ctx, ev, team, s, cur.NextTiles[0])
			notes = append(notes, n...)
			msgs = append(msgs, m...)
			if err != nil || suspended {
				return notes, msgs, err
			}
		default:
			opts := make([]save.CrossroadOption, 0, len(cur.NextTiles))
			for _, id := range cur.NextTiles {
				t, err := e.Board.Tile(ctx, id)
				if err != nil {
					return notes, msgs, fmt.Errorf("%w: tile %s", ErrConfiguration, id)
				}
				opts = append(opts, save.CrossroadOption{TileID: id, Name: t.Name})
			}
			s.Roll.ActionRequired = save.ActionCrossroad
			s.Roll.Crossroad = opts
			return notes, msgs, nil
		}
	}
	return notes, msgs, fmt.Errorf("%w: movement exceeded %d steps", ErrConfiguration, e.Balance.MaxStepsPerTurn)
}

// step moves one tile forward, spends one movement point, and runs the
// pass-by checks. It reports whether the roll suspended on this tile.
func (e *Engine) step(ctx context.Context, ev event.Event, team event.Team, s *save.SaveData, nextID uuid.UUID) (bool, []event.Notification, []string, error) {
	t, err := e.Board.Tile(ctx, nextID)
	if err != nil {
		return false, nil, nil, fmt.Errorf("%w: tile %s", ErrConfiguration, nextID)
	}
	reg, err := e.Board.Region(ctx, t.RegionID)
	if err != nil {
		return false, nil, nil, fmt.Errorf("%w: region %s", ErrConfiguration, t.RegionID)
	}

	s.PreviousTile = s.CurrentTile
	id := nextID
	s.CurrentTile = &id
	if s.IslandID == nil || *s.IslandID != t.RegionID {
		rid := t.RegionID
		s.IslandID = &rid
		s.IslandLaps = 0
		s.LapsRewarded = 0
	}
	s.Roll.Path = append(s.Roll.Path, nextID)
	s.Roll.RollRemaining--

	var msgs []string
	if reg.StartTile != nil && *reg.StartTile == nextID {
		s.IslandLaps++
		msgs = append(msgs, fmt.Sprintf("Another lap around %s.", reg.Name))
	}

	// Special tiles suspend even on the last step of the budget; the
	// movement loop lands the roll once the stop is resolved.
	switch t.Type {
	case board.TileShop:
		s.Roll.ActionRequired = save.ActionShop
		s.Roll.Shop = e.generateShop(t.ShopTier)
		msgs = append(msgs, fmt.Sprintf("You pass %s. The shopkeeper waves you in.", t.Name))
		return true, nil, msgs, nil
	case board.TileDock:
		dests, err := e.dockDestinations(ctx, ev.ID, reg, s)
		if err != nil {
			return false, nil, msgs, err
		}
		if len(dests) > 0 {
			if bonus := e.lapBonus(reg, s); bonus > 0 {
				s.Coins += bonus
				msgs = append(msgs, fmt.Sprintf("The harbourmaster pays %d coins for your laps around %s.", bonus, reg.Name))
				e.audit(telemetry.EventCoinsAwarded, telemetry.Metadata{"team": team.Name, "coins": bonus})
			}
			s.Roll.ActionRequired = save.ActionDock
			s.Roll.Dock = dests
			msgs = append(msgs, "You reach a dock. Ships wait at anchor.")
			return true, nil, msgs, nil
		}
	}
	for _, st := range ev.StarTiles {
		if st == nextID {
			price := e.Balance.StarPrice
			if s.HasBuff(save.BuffStarDiscount) {
				price /= 2
			}
			s.Roll.ActionRequired = save.ActionStar
			s.Roll.StarPrice = price
			msgs = append(msgs, fmt.Sprintf("A star glimmers here, yours for %d coins.", price))
			return true, nil, msgs, nil
		}
	}
	return false, nil, msgs, nil
}

// land finishes the roll on the current tile and arms its challenges.
func (e *Engine) land(ctx context.Context, team event.Team, s *save.SaveData) ([]event.Notification, []string, error) {
	tile, err := e.Board.Tile(ctx, *s.CurrentTile)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tile %s", ErrConfiguration, *s.CurrentTile)
	}
	mappings, err := e.Board.MappingsForTile(ctx, tile.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	s.IsRolling = false
	s.Roll = nil
	s.CurrentChallenges = nil
	s.CompletedChallenges = nil

	var msgs []string
	if len(mappings) == 0 {
		s.IsTileCompleted = true
		msgs = append(msgs, fmt.Sprintf("You land on %s. Nothing to do here; roll again when ready.", tile.Name))
	} else {
		s.IsTileCompleted = false
		for _, m := range mappings {
			ch, err := e.Board.Challenge(ctx, m.ChallengeID)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: challenge %s", ErrConfiguration, m.ChallengeID)
			}
			if ch.Mode != board.ModeCumulative {
				s.ResetChallengeProgress(ch.ID)
			}
		}
		if tile.RandomCategory && len(mappings) > 1 {
			pick := mappings[e.intn(len(mappings))]
			s.CurrentChallenges = []uuid.UUID{pick.ChallengeID}
		}
		msgs = append(msgs, fmt.Sprintf("You land on %s.", tile.Name))
	}

	notes := []event.Notification{{
		ThreadID:    s.TextChannelID,
		Title:       fmt.Sprintf("%s landed on %s", team.Name, tile.Name),
		Color:       event.DefaultEmbedColor,
		Description: tile.Description,
	}}
	return notes, msgs, nil
}

// relocateStar removes the star from fromTile and hides it on a plain
// tile in a region no team currently occupies. Runs under the event lock
// so two simultaneous purchases cannot race the placement.
func (e *Engine) relocateStar(ctx context.Context, eventID, fromTile uuid.UUID) (uuid.UUID, error) {
	defer e.lockEvent(eventID)()
	ev, err := e.Events.Event(ctx, eventID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	remaining := make([]uuid.UUID, 0, len(ev.StarTiles))
	found := false
	for _, st := range ev.StarTiles {
		if st == fromTile && !found {
			found = true
			continue
		}
		remaining = append(remaining, st)
	}
	if !found {
		return uuid.Nil, fmt.Errorf("%w: the star is already gone", ErrStateConflict)
	}
	next, err := e.pickStarTile(ctx, ev, remaining, fromTile)
	if err != nil {
		return uuid.Nil, err
	}
	remaining = append(remaining, next)
	if err := e.Events.UpdateStarTiles(ctx, eventID, remaining); err != nil {
		return uuid.Nil, fmt.Errorf("persist star tiles: %w", err)
	}
	return next, nil
}

func (e *Engine) pickStarTile(ctx context.Context, ev event.Event, taken []uuid.UUID, fromTile uuid.UUID) (uuid.UUID, error) {
	tiles, err := e.Board.TilesForEvent(ctx, ev.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	occupied := map[uuid.UUID]bool{}
	teams, err := e.Events.TeamsForEvent(ctx, ev.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list teams: %w", err)
	}
	for _, team := range teams {
		ts, err := save.Decode(team.Data)
		if err != nil {
			continue
		}
		if ts.IslandID != nil {
			occupied[*ts.IslandID] = true
		}
	}
	isTaken := func(id uuid.UUID) bool {
		if id == fromTile {
			return true
		}
		for _, t := range taken {
			if t == id {
				return true
			}
		}
		return false
	}
	var preferred, fallback []uuid.UUID
	for _, t := range tiles {
		if t.Type != board.TilePlain || isTaken(t.ID) {
			continue
		}
		if occupied[t.RegionID] {
			fallback = append(fallback, t.ID)
		} else {
			preferred = append(preferred, t.ID)
		}
	}
	pool := preferred
	if len(pool) == 0 {
		pool = fallback
	}
	if len(pool) == 0 {
		return uuid.Nil, fmt.Errorf("%w: no tile can hold a star", ErrConfiguration)
	}
	return pool[e.intn(len(pool))], nil
}

// lapBonus pays out laps around the region being left that have not been
// rewarded at a dock yet. Hotspot regions pay double.
func (e *Engine) lapBonus(reg board.Region, s *save.SaveData) int {
	laps := s.IslandLaps - s.LapsRewarded
	if laps <= 0 {
		return 0
	}
	s.LapsRewarded = s.IslandLaps
	bonus := laps * e.Balance.DockLapBonus
	if reg.Hotspot {
		bonus *= 2
	}
	return bonus
}

func (e *Engine) dockDestinations(ctx context.Context, eventID uuid.UUID, from board.Region, s *save.SaveData) ([]save.DockDestination, error) {
	regions, err := e.Board.RegionsForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	free := s.HasBuff(save.BuffFreeTravel)
	var dests []save.DockDestination
	for _, reg := range regions {
		if reg.ID == from.ID || reg.StartTile == nil {
			continue
		}
		cost, ok := from.CharterCosts[reg.ID.String()]
		if !ok {
			continue
		}
		if free {
			cost = 0
		}
		dests = append(dests, save.DockDestination{RegionID: reg.ID, Name: reg.Name, Cost: cost})
	}
	return dests, nil
}

func (e *Engine) islandOptions(ctx context.Context, eventID uuid.UUID) ([]save.IslandOption, error) {
	regions, err := e.Board.RegionsForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	var opts []save.IslandOption
	for _, reg := range regions {
		if reg.StartTile != nil {
			opts = append(opts, save.IslandOption{RegionID: reg.ID, Name: reg.Name})
		}
	}
	return opts, nil
}

// placeTeam moves the team to a tile without spending movement. Used by
// charters, first landfall, teleports, and moderation moves.
func (e *Engine) placeTeam(s *save.SaveData, tileID, regionID uuid.UUID) {
	s.PreviousTile = s.CurrentTile
	tid := tileID
	s.CurrentTile = &tid
	if s.IslandID == nil || *s.IslandID != regionID {
		rid := regionID
		s.IslandID = &rid
		s.IslandLaps = 0
		s.LapsRewarded = 0
	}
	if s.Roll != nil {
		s.Roll.Path = append(s.Roll.Path, tileID)
	}
}

func (e *Engine) generateShop(tier int) []save.ShopOffer {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.Items.GenerateShop(e.Rand, tier, e.Balance.ShopItemCount)
}

func requireAction(s *save.SaveData, allowed ...save.Action) error {
	if !s.IsRolling || s.Roll == nil {
		return fmt.Errorf("%w: no roll in progress", ErrStateConflict)
	}
	for _, a := range allowed {
		if s.Roll.ActionRequired == a {
			return nil
		}
	}
	return fmt.Errorf("%w: pending action is %s", ErrStateConflict, s.Roll.ActionRequired)
}

func (e *Engine) turnResult(ctx context.Context, s *save.SaveData, msgs []string) TurnResult {
	res := TurnResult{
		Action:      save.ActionNone,
		CurrentTile: s.CurrentTile,
		Coins:       s.Coins,
		Stars:       s.Stars,
		Messages:    msgs,
	}
	if s.Roll != nil {
		res.Action = s.Roll.ActionRequired
		res.Roll = s.Roll
	} else if s.CurrentTile != nil && !s.IsTileCompleted {
		res.Action = save.ActionComplete
	}
	if s.CurrentTile != nil {
		if t, err := e.Board.Tile(ctx, *s.CurrentTile); err == nil {
			res.TileName = t.Name
		}
	}
	return res
}
