// Package save owns the per-team persisted game state blob. Every other
// component reads and mutates team state through Decode/Encode so that
// defaulting for absent fields lives in exactly one place.
package save

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is written into every encoded blob. Decode upgrades older
// blobs (and blobs from before versioning existed) to the current shape.
const SchemaVersion = 2

// Known buff types.
const (
	BuffFreeTravel = "free_travel"
	// BuffStarDiscount halves the next star purchase.
	BuffStarDiscount = "star_discount"
)

// ItemInstance is one owned copy of a catalog item.
type ItemInstance struct {
	ID            string    `json:"id"`
	UsesRemaining int       `json:"uses_remaining"`
	PurchasedAt   time.Time `json:"purchased_at,omitzero"`
}

// Equipment holds at most one equipped item id per named slot.
type Equipment struct {
	Helmet  string `json:"helmet"`
	Armor   string `json:"armor"`
	Weapon  string `json:"weapon"`
	Jewelry string `json:"jewelry"`
	Cape    string `json:"cape"`
}

// Slot returns a pointer to the named slot, or nil for an unknown slot name.
func (e *Equipment) Slot(name string) *string {
	switch name {
	case "helmet":
		return &e.Helmet
	case "armor":
		return &e.Armor
	case "weapon":
		return &e.Weapon
	case "jewelry":
		return &e.Jewelry
	case "cape":
		return &e.Cape
	}
	return nil
}

// Buff is a tagged consumable modifier. Uses counts down; a buff with zero
// uses left is dropped by the component that consumed it.
type Buff struct {
	Type string `json:"type"`
	Uses int    `json:"uses"`
}

// PendingActivation exists exactly while a two-stage item awaits a selection.
type PendingActivation struct {
	ItemIndex int      `json:"item_index"`
	Effect    string   `json:"effect"`
	Options   []string `json:"options"`
}

// SaveData is the full persisted state of one team. Tile/region ids are
// pointers because a team has no position before its first roll.
type SaveData struct {
	SchemaVersion int `json:"schema_version"`

	PreviousTile *uuid.UUID `json:"previousTile,omitempty"`
	CurrentTile  *uuid.UUID `json:"currentTile,omitempty"`
	IslandID     *uuid.UUID `json:"islandId,omitempty"`

	Stars int `json:"stars"`
	Coins int `json:"coins"`

	// Dice and Modifier describe the NEXT roll; consumed when a roll starts.
	Dice     []int `json:"dice"`
	Modifier int   `json:"modifier"`

	IsRolling       bool `json:"isRolling"`
	IsTileCompleted bool `json:"isTileCompleted"`

	Items     []ItemInstance     `json:"itemList"`
	Pending   *PendingActivation `json:"pendingItemActivation,omitempty"`
	Equipment Equipment          `json:"equipment"`

	Buffs   []Buff `json:"buffs"`
	Debuffs []Buff `json:"debuffs"`

	// TileProgress maps challenge id -> task id -> cumulative quantity.
	TileProgress map[string]map[string]int `json:"tileProgress"`

	// CurrentChallenges overrides the tile's challenge set on random-category
	// tiles. Empty means "all configured challenges".
	CurrentChallenges []uuid.UUID `json:"currentChallenges,omitempty"`

	// CompletedCumulative records cumulative challenges already completed for
	// the lifetime of the event; they never fire twice.
	CompletedCumulative []uuid.UUID `json:"completedCumulative,omitempty"`

	// CompletedChallenges records AND challenges completed since the last
	// landing; they stay dormant until the next tile resets them.
	CompletedChallenges []uuid.UUID `json:"completedChallenges,omitempty"`

	IslandLaps int `json:"islandLaps"`

	// LapsRewarded counts the laps already paid out at a dock, so a second
	// dock visit on the same island only rewards new laps.
	LapsRewarded int `json:"lapsRewarded"`

	TextChannelID  string `json:"textChannelId"`
	VoiceChannelID string `json:"voiceChannelId"`

	Roll *RollState `json:"roll_state,omitempty"`
}

// New returns the initial state for a freshly created team: no position,
// tile completed so the first roll is allowed.
func New(textChannelID, voiceChannelID string) *SaveData {
	s := &SaveData{
		SchemaVersion:   SchemaVersion,
		IsTileCompleted: true,
		TextChannelID:   textChannelID,
		VoiceChannelID:  voiceChannelID,
	}
	normalize(s)
	return s
}

// Decode parses a persisted blob. A nil or empty blob yields a fresh state.
// All defaulting for absent fields happens here and nowhere else.
func Decode(data []byte) (*SaveData, error) {
	if len(data) == 0 {
		return New("", ""), nil
	}
	var s SaveData
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode save data: %w", err)
	}
	normalize(&s)
	return &s, nil
}

// Encode serializes the state at the current schema version.
func (s *SaveData) Encode() ([]byte, error) {
	s.SchemaVersion = SchemaVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode save data: %w", err)
	}
	return data, nil
}

func normalize(s *SaveData) {
	if s.SchemaVersion == 0 {
		// Pre-versioning blobs: teams created before the tile flag existed
		// must still be allowed to roll.
		if s.CurrentTile == nil && !s.IsRolling {
			s.IsTileCompleted = true
		}
	}
	s.SchemaVersion = SchemaVersion
	if s.Dice == nil {
		s.Dice = []int{}
	}
	if s.Items == nil {
		s.Items = []ItemInstance{}
	}
	if s.Buffs == nil {
		s.Buffs = []Buff{}
	}
	if s.Debuffs == nil {
		s.Debuffs = []Buff{}
	}
	if s.TileProgress == nil {
		s.TileProgress = map[string]map[string]int{}
	}
	if s.Roll != nil {
		s.Roll.normalize()
	}
}

// HasBuff reports whether a buff of the given type with uses left is held.
func (s *SaveData) HasBuff(buffType string) bool {
	for _, b := range s.Buffs {
		if b.Type == buffType && b.Uses > 0 {
			return true
		}
	}
	return false
}

// ConsumeBuff spends one use of the named buff and drops it when exhausted.
// Returns false if no such buff is held.
func (s *SaveData) ConsumeBuff(buffType string) bool {
	for i := range s.Buffs {
		if s.Buffs[i].Type != buffType || s.Buffs[i].Uses <= 0 {
			continue
		}
		s.Buffs[i].Uses--
		if s.Buffs[i].Uses == 0 {
			s.Buffs = append(s.Buffs[:i], s.Buffs[i+1:]...)
		}
		return true
	}
	return false
}

// ResetChallengeProgress zeroes the progress counters for one challenge.
func (s *SaveData) ResetChallengeProgress(challengeID uuid.UUID) {
	delete(s.TileProgress, challengeID.String())
}

// Progress returns the accumulated quantity for a challenge task.
func (s *SaveData) Progress(challengeID, taskID uuid.UUID) int {
	tasks, ok := s.TileProgress[challengeID.String()]
	if !ok {
		return 0
	}
	return tasks[taskID.String()]
}

// AddProgress accumulates quantity for a challenge task.
func (s *SaveData) AddProgress(challengeID, taskID uuid.UUID, quantity int) {
	key := challengeID.String()
	tasks, ok := s.TileProgress[key]
	if !ok {
		tasks = map[string]int{}
		s.TileProgress[key] = tasks
	}
	tasks[taskID.String()] += quantity
}

// ChallengeActive reports whether a mapped challenge counts right now.
// An empty CurrentChallenges list means every mapped challenge counts.
func (s *SaveData) ChallengeActive(challengeID uuid.UUID) bool {
	if len(s.CurrentChallenges) == 0 {
		return true
	}
	for _, id := range s.CurrentChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}

// HasCompletedCumulative reports whether a cumulative challenge already
// completed during this event.
func (s *SaveData) HasCompletedCumulative(challengeID uuid.UUID) bool {
	for _, id := range s.CompletedCumulative {
		if id == challengeID {
			return true
		}
	}
	return false
}

// HasCompletedChallenge reports whether a challenge completed since the
// last landing.
func (s *SaveData) HasCompletedChallenge(challengeID uuid.UUID) bool {
	for _, id := range s.CompletedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}
