package event

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repository for tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	events  map[uuid.UUID]Event
	teams   map[uuid.UUID]Team
	members map[uuid.UUID]Member
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		events:  make(map[uuid.UUID]Event),
		teams:   make(map[uuid.UUID]Team),
		members: make(map[uuid.UUID]Member),
	}
}

func (r *MemoryRepo) CreateEvent(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.ID] = ev
	return nil
}

func (r *MemoryRepo) Event(_ context.Context, id uuid.UUID) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return ev, nil
}

func (r *MemoryRepo) ActiveEvents(_ context.Context, t time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Active(t) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *MemoryRepo) UpdateStarTiles(_ context.Context, eventID uuid.UUID, tiles []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[eventID]
	if !ok {
		return ErrNotFound
	}
	ev.StarTiles = append([]uuid.UUID(nil), tiles...)
	r.events[eventID] = ev
	return nil
}

func (r *MemoryRepo) CreateTeam(_ context.Context, t Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[t.ID] = t
	return nil
}

func (r *MemoryRepo) Team(_ context.Context, id uuid.UUID) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[id]
	if !ok {
		return Team{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) TeamsForEvent(_ context.Context, eventID uuid.UUID) ([]Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Team
	for _, t := range r.teams {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) UpdateTeamData(_ context.Context, teamID uuid.UUID, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	t.Data = append([]byte(nil), data...)
	r.teams[teamID] = t
	return nil
}

func (r *MemoryRepo) UpdateTeamName(_ context.Context, teamID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	t.Name = name
	r.teams[teamID] = t
	return nil
}

func (r *MemoryRepo) AddMember(_ context.Context, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
	return nil
}

func (r *MemoryRepo) RemoveMember(_ context.Context, eventID uuid.UUID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.members {
		if m.EventID == eventID && strings.EqualFold(m.Username, username) {
			delete(r.members, id)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) MembersForTeam(_ context.Context, teamID uuid.UUID) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Member
	for _, m := range r.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *MemoryRepo) TeamForMember(_ context.Context, eventID uuid.UUID, username string) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.EventID == eventID && strings.EqualFold(m.Username, username) {
			t, ok := r.teams[m.TeamID]
			if !ok {
				return Team{}, ErrNotFound
			}
			return t, nil
		}
	}
	return Team{}, ErrNotFound
}

func (r *MemoryRepo) TeamForDiscordID(_ context.Context, eventID uuid.UUID, discordID string) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.EventID == eventID && m.DiscordID == discordID && discordID != "" {
			t, ok := r.teams[m.TeamID]
			if !ok {
				return Team{}, ErrNotFound
			}
			return t, nil
		}
	}
	return Team{}, ErrNotFound
}
