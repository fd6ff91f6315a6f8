package sim

import (
	"fmt"
	"math"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// GARCHParams parameterize the conditional-volatility recurrence
// sigma'^2 = omega + alpha*r^2 + beta*sigma^2.
type GARCHParams struct {
	Omega float64 // long-run variance
	Alpha float64 // shock sensitivity
	Beta  float64 // persistence
}

// DefaultGARCHParams are calibrated for hourly crypto bars.
func DefaultGARCHParams() GARCHParams {
	return GARCHParams{Omega: 0.000002, Alpha: 0.05, Beta: 0.90}
}

// Validate rejects parameter sets with non-mean-reverting variance.
func (p GARCHParams) Validate() error {
	if p.Omega < 0 || p.Alpha < 0 || p.Beta < 0 {
		return &models.ConfigError{Field: "garch", Reason: "parameters must be non-negative"}
	}
	if p.Alpha+p.Beta >= 1 {
		return &models.ConfigError{
			Field:  "garch",
			Reason: fmt.Sprintf("alpha+beta must be < 1 for mean-reverting variance, got %.4f", p.Alpha+p.Beta),
		}
	}
	return nil
}

const (
	defaultShortPeriod = 10
	defaultLongPeriod  = 21
)

// VolatilityEngine maintains a GARCH(1,1)-style conditional volatility
// estimate and a dual moving-average momentum indicator.
type VolatilityEngine struct {
	params      GARCHParams
	shortPeriod int
	longPeriod  int
}

// NewVolatilityEngine validates params and builds an engine. Zero periods
// fall back to the 10/21 defaults.
func NewVolatilityEngine(params GARCHParams, short, long int) (*VolatilityEngine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if short <= 0 {
		short = defaultShortPeriod
	}
	if long <= 0 {
		long = defaultLongPeriod
	}
	if short >= long {
		return nil, &models.ConfigError{Field: "momentum_periods", Reason: "short period must be below long period"}
	}
	return &VolatilityEngine{params: params, shortPeriod: short, longPeriod: long}, nil
}

// LongPeriod returns the momentum long window.
func (e *VolatilityEngine) LongPeriod() int { return e.longPeriod }

// Step advances the conditional volatility from the previous volatility and
// return. The result is always finite and non-negative: a degenerate update
// falls back to the previous value and reports guarded=true.
func (e *VolatilityEngine) Step(prevVolatility, prevReturn float64) (vol float64, guarded bool) {
	v := math.Sqrt(e.params.Omega + e.params.Alpha*prevReturn*prevReturn + e.params.Beta*prevVolatility*prevVolatility)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return math.Abs(prevVolatility), true
	}
	return v, false
}

// Momentum returns the short-over-long moving-average spread as a signed
// percentage. With fewer than longPeriod prices there is no reading and the
// result is 0.
func (e *VolatilityEngine) Momentum(prices []float64) float64 {
	if len(prices) < e.longPeriod {
		return 0
	}
	shortMA := mean(prices[len(prices)-e.shortPeriod:])
	longMA := mean(prices[len(prices)-e.longPeriod:])
	if longMA == 0 {
		return 0
	}
	return (shortMA/longMA - 1) * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
