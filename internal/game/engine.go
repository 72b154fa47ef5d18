// Package game is the rules engine: rolls, movement, shops, stars,
// challenge progression, and item activation. The engine owns no storage
// of its own; it reads board content through board.Repository and team
// state through event.Repository.
package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stabilityparty/internal/board"
	"stabilityparty/internal/config"
	"stabilityparty/internal/event"
	"stabilityparty/internal/item"
	"stabilityparty/internal/save"
	"stabilityparty/internal/telemetry"
)

// Notifier receives notifications produced by committed game actions.
// Delivery failures must never affect game state.
type Notifier interface {
	Publish(ctx context.Context, ev event.Event, notes []event.Notification)
}

// Engine applies game rules to team state. Mutating methods take a
// per-team lock; star placement additionally takes a per-event lock.
// Lock order is always team locks first, event lock second.
type Engine struct {
	Events   event.Repository
	Board    board.Repository
	Items    *item.Registry
	Balance  config.Balance
	Logger   *log.Logger
	Notifier Notifier
	Clock    Clock

	// Audit receives gameplay events for balance review. Optional.
	Audit telemetry.Recorder

	// Rand may be set by tests for deterministic dice.
	Rand *rand.Rand

	rngMu      sync.Mutex
	teamLocks  sync.Map
	eventLocks sync.Map
}

func (e *Engine) nowTime() time.Time {
	if e.Clock != nil {
		return e.Clock.Now()
	}
	return time.Now()
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.Rand.Intn(n)
}

// rollDie returns a uniform result in [1,sides].
func (e *Engine) rollDie(sides int) int { return e.intn(sides) + 1 }

func (e *Engine) lockTeam(id uuid.UUID) func() {
	v, _ := e.teamLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lockTeams acquires several team locks in a fixed global order so two
// cross-team operations can never deadlock each other.
func (e *Engine) lockTeams(ids ...uuid.UUID) func() {
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	unlocks := make([]func(), 0, len(sorted))
	for _, id := range sorted {
		unlocks = append(unlocks, e.lockTeam(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func (e *Engine) lockEvent(id uuid.UUID) func() {
	v, _ := e.eventLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// loadTeam fetches the event, the team, and its decoded save state,
// verifying the team belongs to the event.
func (e *Engine) loadTeam(ctx context.Context, eventID, teamID uuid.UUID) (event.Event, event.Team, *save.SaveData, error) {
	ev, err := e.Events.Event(ctx, eventID)
	if err != nil {
		return event.Event{}, event.Team{}, nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	team, err := e.Events.Team(ctx, teamID)
	if err != nil || team.EventID != eventID {
		return event.Event{}, event.Team{}, nil, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	s, err := save.Decode(team.Data)
	if err != nil {
		return event.Event{}, event.Team{}, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return ev, team, s, nil
}

func (e *Engine) commit(ctx context.Context, teamID uuid.UUID, s *save.SaveData) error {
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := e.Events.UpdateTeamData(ctx, teamID, data); err != nil {
		return fmt.Errorf("persist team state: %w", err)
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, ev event.Event, notes []event.Notification) {
	if e.Notifier == nil || len(notes) == 0 {
		return
	}
	e.Notifier.Publish(ctx, ev, notes)
}

func (e *Engine) audit(t telemetry.EventType, meta telemetry.Metadata) {
	if e.Audit == nil {
		return
	}
	if err := e.Audit.Record(t, meta); err != nil {
		e.logf(`{"msg":"audit record failed","err":%q}`, err.Error())
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}
