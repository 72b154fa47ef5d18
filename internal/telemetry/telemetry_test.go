package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndFilter(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.Record(EventRollStarted, Metadata{"team": "Kittens"}))
	require.NoError(t, repo.Record(EventShopPurchase, Metadata{"item": "lucky_die"}))
	require.NoError(t, repo.Record(EventRollStarted, nil))

	all, err := repo.Events(time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rolls, err := repo.Events(time.Time{}, []EventType{EventRollStarted})
	require.NoError(t, err)
	assert.Len(t, rolls, 2)

	future, err := repo.Events(time.Now().Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, future)

	require.NoError(t, repo.Clear())
	all, err = repo.Events(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Record(EventRollStarted, nil))
	require.NoError(t, repo.Record(EventRollStarted, nil))
	require.NoError(t, repo.Record(EventCoinsAwarded, Metadata{"coins": 20}))
	require.NoError(t, repo.Record(EventCoinsAwarded, Metadata{"coins": 10}))
	require.NoError(t, repo.Record(EventItemUsed, Metadata{"item": "teleport_scroll"}))
	require.NoError(t, repo.Record(EventItemUsed, Metadata{"item": "teleport_scroll"}))
	require.NoError(t, repo.Record(EventStarPurchased, Metadata{"team": "Kittens"}))

	events, err := repo.Events(time.Time{}, nil)
	require.NoError(t, err)

	stats := CalculateStats(events, time.Time{})
	assert.Equal(t, 2, stats.Rolls)
	assert.Equal(t, 30, stats.CoinsAwarded)
	assert.Equal(t, 1, stats.StarsPurchased)
	assert.Equal(t, 2, stats.ItemUsage["teleport_scroll"])
	assert.InDelta(t, 15.0, stats.CoinsPerRoll, 0.001)
	assert.Equal(t, 2, stats.EventCounts[EventRollStarted])
}
