package models

import (
	"fmt"
	"time"
)

// ConfigError reports an invalid simulation or risk configuration.
// Construction fails fast; values are never silently clamped beyond
// documented defaults.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// MarketRegime names a preset of volatility/trend/mean-reversion multipliers.
type MarketRegime string

const (
	RegimeNormal   MarketRegime = "normal"
	RegimeVolatile MarketRegime = "volatile"
	RegimeTrending MarketRegime = "trending"
	RegimeRanging  MarketRegime = "ranging"
)

// RegimeProfile holds the multipliers a regime applies to the price process.
type RegimeProfile struct {
	VolatilityMultiplier float64
	TrendStrength        float64
	MeanReversion        float64
}

var regimeProfiles = map[MarketRegime]RegimeProfile{
	RegimeNormal:   {VolatilityMultiplier: 1, TrendStrength: 1, MeanReversion: 0.1},
	RegimeVolatile: {VolatilityMultiplier: 2.5, TrendStrength: 1.5, MeanReversion: 0.05},
	RegimeTrending: {VolatilityMultiplier: 0.8, TrendStrength: 2, MeanReversion: 0.02},
	RegimeRanging:  {VolatilityMultiplier: 0.6, TrendStrength: 0.5, MeanReversion: 0.2},
}

// Valid reports whether the regime names a known preset.
func (r MarketRegime) Valid() bool {
	_, ok := regimeProfiles[r]
	return ok
}

// Profile returns the regime multipliers. Unknown regimes fall back to normal.
func (r MarketRegime) Profile() RegimeProfile {
	if p, ok := regimeProfiles[r]; ok {
		return p
	}
	return regimeProfiles[RegimeNormal]
}

// SimulationConfig describes one synthetic market run. Immutable per run.
type SimulationConfig struct {
	Symbol         string
	Periods        int
	BasePrice      float64
	BaseVolatility float64
	BaseTrend      float64
	Regime         MarketRegime

	WhaleActivity       bool
	LiquidationCascades bool
	LevelFeedback       bool
	VolumeProfile       bool

	// Seed drives the injected RNG; zero means non-deterministic.
	Seed int64
}

// Validate fails fast on configs the generator cannot run.
func (c SimulationConfig) Validate() error {
	if c.Periods <= 0 {
		return &ConfigError{Field: "periods", Reason: "must be positive"}
	}
	if c.BasePrice <= 0 {
		return &ConfigError{Field: "base_price", Reason: "must be positive"}
	}
	if c.BaseVolatility < 0 {
		return &ConfigError{Field: "base_volatility", Reason: "must be non-negative"}
	}
	if c.Regime != "" && !c.Regime.Valid() {
		return &ConfigError{Field: "regime", Reason: fmt.Sprintf("unknown regime %q", c.Regime)}
	}
	return nil
}

// LevelKind tags a price level as support or resistance.
type LevelKind string

const (
	LevelSupport    LevelKind = "support"
	LevelResistance LevelKind = "resistance"
)

// PriceLevel is a static key level exerting a pull on price, weighted by
// strength in [0,1]. Level sets are generated once per run and kept sorted
// ascending by price.
type PriceLevel struct {
	Price    float64   `json:"price"`
	Strength float64   `json:"strength"`
	Kind     LevelKind `json:"kind"`
}

// NearbyLevel is a level annotated with its normalized distance from the
// current price.
type NearbyLevel struct {
	PriceLevel
	Distance float64 `json:"distance"`
}

// MarketState is the mutable state of one generator run. It is owned
// exclusively by that run and never shared.
type MarketState struct {
	Price              float64
	Volatility         float64
	Momentum           float64
	VolumeAccumulation float64
	Levels             []PriceLevel
}

// ShockKind names the discrete event families perturbing price outside the
// continuous process.
type ShockKind string

const (
	ShockWhale       ShockKind = "whale"
	ShockLiquidation ShockKind = "liquidation"
	ShockNews        ShockKind = "news"
)

// ShockEvent is a discrete price perturbation, consumed the period it is
// drawn. Whale and liquidation impacts are additive price deltas; news
// impacts apply multiplicatively (price *= 1+Impact).
type ShockEvent struct {
	Kind           ShockKind `json:"kind"`
	Impact         float64   `json:"impact"`
	Magnitude      float64   `json:"magnitude"`
	Multiplicative bool      `json:"multiplicative,omitempty"`
	Category       string    `json:"category,omitempty"`
}

// VolumeProfile flags volume behavior at a bar.
type VolumeProfile struct {
	HighVolume    bool `json:"high_volume"`
	VolumeCluster bool `json:"volume_cluster"`
}

// BarMetrics carries nearest-level and volume metadata emitted with a bar.
type BarMetrics struct {
	NearestSupport    *NearbyLevel   `json:"nearest_support,omitempty"`
	NearestResistance *NearbyLevel   `json:"nearest_resistance,omitempty"`
	VolumeProfile     *VolumeProfile `json:"volume_profile,omitempty"`
}

// PriceBar is one OHLCV record of a synthetic series. Bars are produced
// exactly once per period and appended in timestamp order.
type PriceBar struct {
	RunID     string       `json:"run_id"`
	Symbol    string       `json:"symbol"`
	Period    int          `json:"period"`
	Timestamp time.Time    `json:"timestamp"`
	Open      float64      `json:"open"`
	High      float64      `json:"high"`
	Low       float64      `json:"low"`
	Close     float64      `json:"close"`
	Price     float64      `json:"price"`
	Volume    float64      `json:"volume"`
	Volatility float64     `json:"volatility"`
	Momentum  float64      `json:"momentum"`
	Regime    MarketRegime `json:"regime"`
	Shocks    []ShockEvent `json:"shocks,omitempty"`
	Metrics   BarMetrics   `json:"metrics"`
}
