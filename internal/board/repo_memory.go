package board

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repository, used by tests and the content
// importer before content reaches durable storage.
type MemoryRepo struct {
	mu         sync.RWMutex
	regions    map[uuid.UUID]Region
	tiles      map[uuid.UUID]Tile
	challenges map[uuid.UUID]Challenge
	tasks      map[uuid.UUID][]Task             // keyed by challenge id
	mappings   map[uuid.UUID][]ChallengeMapping // keyed by tile or region id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		regions:    make(map[uuid.UUID]Region),
		tiles:      make(map[uuid.UUID]Tile),
		challenges: make(map[uuid.UUID]Challenge),
		tasks:      make(map[uuid.UUID][]Task),
		mappings:   make(map[uuid.UUID][]ChallengeMapping),
	}
}

func (r *MemoryRepo) PutRegion(reg Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[reg.ID] = reg
}

func (r *MemoryRepo) PutTile(t Tile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiles[t.ID] = t
}

func (r *MemoryRepo) PutChallenge(c Challenge, tasks []Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[c.ID] = c
	r.tasks[c.ID] = append([]Task(nil), tasks...)
}

func (r *MemoryRepo) PutMapping(m ChallengeMapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case m.TileID != nil:
		r.mappings[*m.TileID] = append(r.mappings[*m.TileID], m)
	case m.RegionID != nil:
		r.mappings[*m.RegionID] = append(r.mappings[*m.RegionID], m)
	}
}

func (r *MemoryRepo) Region(_ context.Context, id uuid.UUID) (Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regions[id]
	if !ok {
		return Region{}, ErrNotFound
	}
	return reg, nil
}

func (r *MemoryRepo) RegionsForEvent(_ context.Context, eventID uuid.UUID) ([]Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Region
	for _, reg := range r.regions {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) Tile(_ context.Context, id uuid.UUID) (Tile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tiles[id]
	if !ok {
		return Tile{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) TilesForEvent(_ context.Context, eventID uuid.UUID) ([]Tile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Tile
	for _, t := range r.tiles {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) MappingsForTile(_ context.Context, tileID uuid.UUID) ([]ChallengeMapping, error) {
	return r.mappingsFor(tileID), nil
}

func (r *MemoryRepo) MappingsForRegion(_ context.Context, regionID uuid.UUID) ([]ChallengeMapping, error) {
	return r.mappingsFor(regionID), nil
}

func (r *MemoryRepo) mappingsFor(key uuid.UUID) []ChallengeMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ChallengeMapping(nil), r.mappings[key]...)
}

func (r *MemoryRepo) Challenge(_ context.Context, id uuid.UUID) (Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.challenges[id]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) TasksForChallenge(_ context.Context, challengeID uuid.UUID) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Task(nil), r.tasks[challengeID]...), nil
}
