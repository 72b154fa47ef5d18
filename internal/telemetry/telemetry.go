// Package telemetry records gameplay events for balance review: how
// often teams roll, what they buy, and where coins come from. Recording
// never affects game state.
package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

type EventType string

const (
	EventRollStarted        EventType = "roll_started"
	EventChallengeCompleted EventType = "challenge_completed"
	EventCoinsAwarded       EventType = "coins_awarded"
	EventStarPurchased      EventType = "star_purchased"
	EventShopPurchase       EventType = "shop_purchase"
	EventItemUsed           EventType = "item_used"
	EventCharterTaken       EventType = "charter_taken"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type Metadata map[string]any

// Recorder is the write side handed to the engine.
type Recorder interface {
	Record(eventType EventType, metadata Metadata) error
}

// Repository adds the read side used by the stats endpoint.
type Repository interface {
	Recorder
	Events(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps events in memory. Telemetry is advisory; losing
// it on restart is acceptable.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Record(eventType EventType, metadata Metadata) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  string(raw),
	})
	r.nextID++
	return nil
}

func (r *MemoryRepository) Events(since time.Time, eventTypes []EventType) ([]Event, error) {
	filter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		filter[t] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0)
	for _, ev := range r.events {
		if ev.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !filter[ev.Type] {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.nextID = 1
	return nil
}
