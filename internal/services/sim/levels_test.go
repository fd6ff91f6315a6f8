package sim

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

func TestLevelTrackerGenerate(t *testing.T) {
	tracker := NewLevelTracker(rand.New(rand.NewSource(7)), 0, 0, 0)
	levels := tracker.Generate(50000)

	require.Len(t, levels, 5)
	require.True(t, sort.SliceIsSorted(levels, func(i, j int) bool {
		return levels[i].Price < levels[j].Price
	}))
	for _, lv := range levels {
		require.InDelta(t, 50000, lv.Price, 50000*0.15)
		require.GreaterOrEqual(t, lv.Strength, 0.0)
		require.LessOrEqual(t, lv.Strength, 1.0)
		require.Contains(t, []models.LevelKind{models.LevelSupport, models.LevelResistance}, lv.Kind)
	}
}

func TestNearestPicksClosestPerKind(t *testing.T) {
	levels := []models.PriceLevel{
		{Price: 90, Kind: models.LevelSupport, Strength: 0.5},
		{Price: 98, Kind: models.LevelSupport, Strength: 0.5},
		{Price: 103, Kind: models.LevelResistance, Strength: 0.5},
		{Price: 110, Kind: models.LevelResistance, Strength: 0.5},
	}

	support, resistance := Nearest(levels, 100)
	require.NotNil(t, support)
	require.NotNil(t, resistance)
	require.Equal(t, 98.0, support.Price)
	require.Equal(t, 103.0, resistance.Price)
	require.InDelta(t, 0.02, support.Distance, 1e-9)
	require.InDelta(t, 0.03, resistance.Distance, 1e-9)
}

func TestNearestMissingKind(t *testing.T) {
	levels := []models.PriceLevel{{Price: 95, Kind: models.LevelSupport}}
	support, resistance := Nearest(levels, 100)
	require.NotNil(t, support)
	require.Nil(t, resistance)
}

func TestPullEffect(t *testing.T) {
	tracker := NewLevelTracker(rand.New(rand.NewSource(1)), 5, 0.15, 0.1)

	above := []models.PriceLevel{{Price: 110, Strength: 1, Kind: models.LevelResistance}}
	require.Greater(t, tracker.PullEffect(above, 100), 0.0)

	below := []models.PriceLevel{{Price: 90, Strength: 1, Kind: models.LevelSupport}}
	require.Less(t, tracker.PullEffect(below, 100), 0.0)

	require.Zero(t, tracker.PullEffect(nil, 100))
}
