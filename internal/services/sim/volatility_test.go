package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

func TestGARCHParamsValidate(t *testing.T) {
	require.NoError(t, DefaultGARCHParams().Validate())

	var cfgErr *models.ConfigError

	err := GARCHParams{Omega: 0.000002, Alpha: 0.5, Beta: 0.5}.Validate()
	require.Error(t, err)
	require.ErrorAs(t, err, &cfgErr)

	err = GARCHParams{Omega: -1, Alpha: 0.05, Beta: 0.9}.Validate()
	require.Error(t, err)
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewVolatilityEngineRejectsBadPeriods(t *testing.T) {
	_, err := NewVolatilityEngine(DefaultGARCHParams(), 21, 10)
	require.Error(t, err)

	engine, err := NewVolatilityEngine(DefaultGARCHParams(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, 21, engine.LongPeriod())
}

func TestStepFiniteAndNonNegative(t *testing.T) {
	engine, err := NewVolatilityEngine(DefaultGARCHParams(), 10, 21)
	require.NoError(t, err)

	vol := 0.02
	for i := 0; i < 1000; i++ {
		next, guarded := engine.Step(vol, 0.01)
		require.False(t, guarded)
		require.False(t, math.IsNaN(next))
		require.False(t, math.IsInf(next, 0))
		require.GreaterOrEqual(t, next, 0.0)
		vol = next
	}
}

func TestStepGuardsDegenerateInputs(t *testing.T) {
	engine, err := NewVolatilityEngine(DefaultGARCHParams(), 10, 21)
	require.NoError(t, err)

	next, guarded := engine.Step(0.03, math.NaN())
	require.True(t, guarded)
	require.Equal(t, 0.03, next)

	next, guarded = engine.Step(-0.03, math.Inf(1))
	require.True(t, guarded)
	require.Equal(t, 0.03, next)
}

func TestMomentumNeedsLongWindow(t *testing.T) {
	engine, err := NewVolatilityEngine(DefaultGARCHParams(), 10, 21)
	require.NoError(t, err)

	prices := make([]float64, 0, 30)
	for i := 0; i < 20; i++ {
		prices = append(prices, 100+float64(i))
		require.Zero(t, engine.Momentum(prices))
	}
	prices = append(prices, 120)
	// rising series: short MA sits above long MA
	require.Greater(t, engine.Momentum(prices), 0.0)
}

func TestMomentumFallingSeries(t *testing.T) {
	engine, err := NewVolatilityEngine(DefaultGARCHParams(), 10, 21)
	require.NoError(t, err)

	prices := make([]float64, 0, 25)
	for i := 0; i < 25; i++ {
		prices = append(prices, 200-float64(i)*2)
	}
	require.Less(t, engine.Momentum(prices), 0.0)
}
