package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

func testConfig(regime models.MarketRegime, seed int64) models.SimulationConfig {
	return models.SimulationConfig{
		Symbol:         "BTC-USD",
		Periods:        300,
		BasePrice:      50000,
		BaseVolatility: 0.02,
		BaseTrend:      0,
		Regime:         regime,
		Seed:           seed,
	}
}

func TestNewGeneratorRejectsInvalidConfig(t *testing.T) {
	var cfgErr *models.ConfigError

	cfg := testConfig(models.RegimeNormal, 1)
	cfg.Periods = 0
	_, err := NewGenerator(cfg)
	require.ErrorAs(t, err, &cfgErr)

	cfg = testConfig(models.RegimeNormal, 1)
	cfg.BasePrice = -5
	_, err = NewGenerator(cfg)
	require.ErrorAs(t, err, &cfgErr)

	cfg = testConfig("sideways", 1)
	_, err = NewGenerator(cfg)
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewGenerator(testConfig(models.RegimeNormal, 1),
		WithGARCH(GARCHParams{Omega: 0.000002, Alpha: 0.6, Beta: 0.5}))
	require.ErrorAs(t, err, &cfgErr)
}

func TestRunInvariants(t *testing.T) {
	cfg := testConfig(models.RegimeNormal, 42)
	cfg.WhaleActivity = true
	cfg.LiquidationCascades = true
	cfg.LevelFeedback = true
	cfg.VolumeProfile = true

	gen, err := NewGenerator(cfg, WithStart(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	bars := gen.Run()
	require.Len(t, bars, cfg.Periods)

	for i, bar := range bars {
		require.Greater(t, bar.Close, 0.0, "bar %d", i)
		require.GreaterOrEqual(t, bar.Volatility, 0.0, "bar %d", i)
		require.GreaterOrEqual(t, bar.High, math.Max(bar.Open, bar.Close), "bar %d", i)
		require.LessOrEqual(t, bar.Low, math.Min(bar.Open, bar.Close), "bar %d", i)
		require.Greater(t, bar.Volume, 0.0, "bar %d", i)
		require.Equal(t, i, bar.Period)

		if i == 0 {
			require.Equal(t, cfg.BasePrice, bar.Open)
		} else {
			require.Equal(t, bars[i-1].Close, bar.Open, "bar %d opens at previous close", i)
			require.Equal(t, bar.Timestamp, bars[i-1].Timestamp.Add(time.Hour))
		}
		if i < 21 {
			require.Zero(t, bar.Momentum, "bar %d momentum needs a full long window", i)
		}
		require.NotNil(t, bar.Metrics.VolumeProfile, "bar %d", i)
	}
}

func TestRunDeterministicPerSeed(t *testing.T) {
	genA, err := NewGenerator(testConfig(models.RegimeVolatile, 99))
	require.NoError(t, err)
	genB, err := NewGenerator(testConfig(models.RegimeVolatile, 99))
	require.NoError(t, err)

	barsA := genA.Run()
	barsB := genB.Run()
	require.Equal(t, len(barsA), len(barsB))
	for i := range barsA {
		require.Equal(t, barsA[i].Close, barsB[i].Close, "bar %d", i)
		require.Equal(t, barsA[i].Volume, barsB[i].Volume, "bar %d", i)
	}

	genC, err := NewGenerator(testConfig(models.RegimeVolatile, 100))
	require.NoError(t, err)
	barsC := genC.Run()
	diverged := false
	for i := range barsA {
		if barsA[i].Close != barsC[i].Close {
			diverged = true
			break
		}
	}
	require.True(t, diverged, "different seeds should diverge")
}

func TestVolatileRegimeMovesMoreThanRanging(t *testing.T) {
	genVolatile, err := NewGenerator(testConfig(models.RegimeVolatile, 7))
	require.NoError(t, err)
	genRanging, err := NewGenerator(testConfig(models.RegimeRanging, 7))
	require.NoError(t, err)

	volatileMAR := MeanAbsReturn(Returns(genVolatile.Run()))
	rangingMAR := MeanAbsReturn(Returns(genRanging.Run()))
	require.Greater(t, volatileMAR, rangingMAR)
}

func TestLevelFeedbackMetadata(t *testing.T) {
	cfg := testConfig(models.RegimeNormal, 13)
	cfg.LevelFeedback = true

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	levels := gen.Levels()
	require.Len(t, levels, 5)
	for i := 1; i < len(levels); i++ {
		require.LessOrEqual(t, levels[i-1].Price, levels[i].Price)
	}

	bars := gen.Run()
	last := bars[len(bars)-1]
	wantSupport, wantResistance := Nearest(levels, last.Close)
	require.Equal(t, wantSupport, last.Metrics.NearestSupport)
	require.Equal(t, wantResistance, last.Metrics.NearestResistance)
}

func TestSummarize(t *testing.T) {
	gen, err := NewGenerator(testConfig(models.RegimeNormal, 21))
	require.NoError(t, err)

	bars := gen.Run()
	stats := Summarize(bars)
	require.Equal(t, bars[0].Close, stats.FirstPrice)
	require.Equal(t, bars[len(bars)-1].Close, stats.LastPrice)
	require.LessOrEqual(t, stats.MinPrice, stats.MaxPrice)
	require.Greater(t, stats.TotalVolume, 0.0)
	require.GreaterOrEqual(t, stats.MeanAbsReturn, 0.0)
}
