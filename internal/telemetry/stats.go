package telemetry

import (
	"encoding/json"
	"time"
)

// Stats is a balance summary over a window of recorded events.
type Stats struct {
	Since                time.Time         `json:"since"`
	EventCounts          map[EventType]int `json:"event_counts"`
	Rolls                int               `json:"rolls"`
	ChallengeCompletions int               `json:"challenge_completions"`
	CoinsAwarded         int               `json:"coins_awarded"`
	StarsPurchased       int               `json:"stars_purchased"`
	ShopPurchases        int               `json:"shop_purchases"`
	ChartersTaken        int               `json:"charters_taken"`
	ItemUsage            map[string]int    `json:"item_usage"`
	CoinsPerRoll         float64           `json:"coins_per_roll"`
}

// CalculateStats folds events into a Stats window starting at since.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:       since,
		EventCounts: make(map[EventType]int),
		ItemUsage:   make(map[string]int),
	}

	for _, ev := range events {
		stats.EventCounts[ev.Type]++

		var meta Metadata
		if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
			continue
		}

		switch ev.Type {
		case EventRollStarted:
			stats.Rolls++
		case EventChallengeCompleted:
			stats.ChallengeCompletions++
		case EventCoinsAwarded:
			if coins, ok := meta["coins"].(float64); ok {
				stats.CoinsAwarded += int(coins)
			}
		case EventStarPurchased:
			stats.StarsPurchased++
		case EventShopPurchase:
			stats.ShopPurchases++
		case EventCharterTaken:
			stats.ChartersTaken++
		case EventItemUsed:
			if id, ok := meta["item"].(string); ok {
				stats.ItemUsage[id]++
			}
		}
	}

	if stats.Rolls > 0 {
		stats.CoinsPerRoll = float64(stats.CoinsAwarded) / float64(stats.Rolls)
	}
	return stats
}
