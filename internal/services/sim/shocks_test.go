package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

func firstOfKind(events []models.ShockEvent, kind models.ShockKind) (models.ShockEvent, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return models.ShockEvent{}, false
}

func TestWhaleShockBounds(t *testing.T) {
	inj := NewShockInjector(ShockConfig{Whales: true, WhaleProb: 1}, rand.New(rand.NewSource(3)))

	for i := 0; i < 200; i++ {
		ev, ok := firstOfKind(inj.Draw(50000, 0), models.ShockWhale)
		require.True(t, ok)
		require.GreaterOrEqual(t, ev.Magnitude, 100.0)
		require.LessOrEqual(t, ev.Magnitude, 1100.0)
		require.InDelta(t, (ev.Magnitude/1000)*50000*0.01, math.Abs(ev.Impact), 1e-9)
		require.False(t, ev.Multiplicative)
	}
}

func TestCascadeRequiresTrend(t *testing.T) {
	inj := NewShockInjector(ShockConfig{Cascades: true, LiquidationProb: 1}, rand.New(rand.NewSource(5)))

	_, ok := firstOfKind(inj.Draw(100, 0), models.ShockLiquidation)
	require.False(t, ok, "flat trend must not cascade")

	for i := 0; i < 100; i++ {
		ev, ok := firstOfKind(inj.Draw(100, 0.01), models.ShockLiquidation)
		require.True(t, ok)
		require.Greater(t, ev.Impact, 0.0, "cascade follows trend direction")
		require.GreaterOrEqual(t, ev.Magnitude, 0.02)
		require.LessOrEqual(t, ev.Magnitude, 0.07)

		ev, ok = firstOfKind(inj.Draw(100, -0.01), models.ShockLiquidation)
		require.True(t, ok)
		require.Less(t, ev.Impact, 0.0)
	}
}

func TestNewsShockCategories(t *testing.T) {
	inj := NewShockInjector(ShockConfig{News: true, NewsProb: 1}, rand.New(rand.NewSource(9)))

	maxByCategory := map[string]float64{
		"regulatory": 0.15,
		"adoption":   0.08,
		"technical":  0.05,
		"market":     0.03,
	}

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		ev, ok := firstOfKind(inj.Draw(100, 0), models.ShockNews)
		require.True(t, ok)
		require.True(t, ev.Multiplicative)
		maxImpact, known := maxByCategory[ev.Category]
		require.True(t, known, "unexpected category %q", ev.Category)
		require.LessOrEqual(t, math.Abs(ev.Impact), maxImpact)
		seen[ev.Category] = true
	}
	require.Len(t, seen, len(maxByCategory), "all categories should fire over 500 draws")
}

func TestDisabledFamiliesNeverFire(t *testing.T) {
	inj := NewShockInjector(ShockConfig{WhaleProb: 1, LiquidationProb: 1, NewsProb: 1}, rand.New(rand.NewSource(11)))
	for i := 0; i < 100; i++ {
		require.Empty(t, inj.Draw(100, 0.05))
	}
}
