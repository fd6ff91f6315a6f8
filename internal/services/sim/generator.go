package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// Generator produces one synthetic OHLCV series per run. A run is a pure
// function of its config plus the injected RNG, so identical seeds replay
// identical series. State is owned by the run and never shared.
type Generator struct {
	cfg      models.SimulationConfig
	profile  models.RegimeProfile
	rng      *rand.Rand
	vol      *VolatilityEngine
	levels   *LevelTracker
	shocks   *ShockInjector
	interval time.Duration
	start    time.Time

	state       models.MarketState
	guardClamps int
}

// Option tweaks generator construction.
type Option func(*genOptions)

type genOptions struct {
	rng         *rand.Rand
	garch       GARCHParams
	shortPeriod int
	longPeriod  int
	shockProbs  [3]float64
	levelCount  int
	maxDev      float64
	damping     float64
	interval    time.Duration
	start       time.Time
}

// WithRand injects a seeded RNG, overriding the config seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *genOptions) { o.rng = rng }
}

// WithGARCH overrides the volatility recurrence parameters.
func WithGARCH(p GARCHParams) Option {
	return func(o *genOptions) { o.garch = p }
}

// WithMomentumPeriods overrides the short/long moving-average windows.
func WithMomentumPeriods(short, long int) Option {
	return func(o *genOptions) { o.shortPeriod, o.longPeriod = short, long }
}

// WithShockProbs overrides the whale/liquidation/news draw probabilities.
func WithShockProbs(whale, liquidation, news float64) Option {
	return func(o *genOptions) { o.shockProbs = [3]float64{whale, liquidation, news} }
}

// WithLevels overrides level count, max deviation and pull damping.
func WithLevels(count int, maxDeviation, damping float64) Option {
	return func(o *genOptions) { o.levelCount, o.maxDev, o.damping = count, maxDeviation, damping }
}

// WithInterval sets the simulated bar interval (default one hour).
func WithInterval(d time.Duration) Option {
	return func(o *genOptions) { o.interval = d }
}

// WithStart pins the first bar timestamp, for reproducible series.
func WithStart(t time.Time) Option {
	return func(o *genOptions) { o.start = t }
}

// NewGenerator validates the config and assembles a run. Invalid configs
// fail with a ConfigError; nothing is clamped silently.
func NewGenerator(cfg models.SimulationConfig, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Regime == "" {
		cfg.Regime = models.RegimeNormal
	}

	o := genOptions{garch: DefaultGARCHParams(), interval: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}

	vol, err := NewVolatilityEngine(o.garch, o.shortPeriod, o.longPeriod)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:      cfg,
		profile:  cfg.Regime.Profile(),
		rng:      o.rng,
		vol:      vol,
		levels:   NewLevelTracker(o.rng, o.levelCount, o.maxDev, o.damping),
		interval: o.interval,
		start:    o.start,
		state: models.MarketState{
			Price:      cfg.BasePrice,
			Volatility: cfg.BaseVolatility,
		},
	}
	g.shocks = NewShockInjector(ShockConfig{
		Whales:          cfg.WhaleActivity,
		Cascades:        cfg.LiquidationCascades,
		News:            true,
		WhaleProb:       o.shockProbs[0],
		LiquidationProb: o.shockProbs[1],
		NewsProb:        o.shockProbs[2],
	}, o.rng)

	if cfg.LevelFeedback {
		g.state.Levels = g.levels.Generate(cfg.BasePrice)
	}
	if g.start.IsZero() {
		g.start = time.Now().Add(-time.Duration(cfg.Periods) * g.interval).Truncate(g.interval)
	}
	return g, nil
}

// Levels returns the static level set generated for this run.
func (g *Generator) Levels() []models.PriceLevel { return g.state.Levels }

// GuardClamps reports how many numeric guards fired during the run.
func (g *Generator) GuardClamps() int { return g.guardClamps }

// Run produces the full bar series. Every bar satisfies price > 0 and
// volatility >= 0; updates that would violate either are clamped to the
// last valid value and counted.
func (g *Generator) Run() []models.PriceBar {
	bars := make([]models.PriceBar, 0, g.cfg.Periods)
	closes := make([]float64, 0, g.cfg.Periods)
	var meanVolume float64

	for i := 0; i < g.cfg.Periods; i++ {
		prevReturn := 0.0
		if n := len(closes); n >= 2 && closes[n-2] != 0 {
			prevReturn = (closes[n-1] - closes[n-2]) / closes[n-2]
		}

		vol, guarded := g.vol.Step(g.state.Volatility, prevReturn)
		if guarded {
			g.guardClamps++
		}
		g.state.Volatility = vol * g.profile.VolatilityMultiplier
		g.state.Momentum = g.vol.Momentum(closes)

		trend := g.cfg.BaseTrend*g.profile.TrendStrength +
			(g.state.Momentum/100)*g.profile.TrendStrength
		volComponent := g.state.Volatility * (g.rng.Float64()*2 - 1) * g.profile.VolatilityMultiplier
		meanReversion := (g.cfg.BasePrice - g.state.Price) / g.cfg.BasePrice * g.profile.MeanReversion

		var levelPull float64
		if g.cfg.LevelFeedback {
			levelPull = g.levels.PullEffect(g.state.Levels, g.state.Price)
		}

		priceChange := g.state.Price * (trend + volComponent + meanReversion + levelPull)

		shocks := g.shocks.Draw(g.state.Price, trend)
		multiplier := 1.0
		for _, ev := range shocks {
			if ev.Multiplicative {
				multiplier *= 1 + ev.Impact
			} else {
				priceChange += ev.Impact
			}
		}

		prevPrice := g.state.Price
		next := (g.state.Price + priceChange) * multiplier
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= 0 {
			next = prevPrice
			g.guardClamps++
		}
		g.state.Price = next

		volume := g.volume()
		g.state.VolumeAccumulation += volume

		open := g.cfg.BasePrice
		if len(closes) > 0 {
			open = closes[len(closes)-1]
		}
		closePrice := g.state.Price
		hi := math.Max(open, closePrice) * (1 + g.rng.Float64()*0.02)
		lo := math.Min(open, closePrice) * (1 - g.rng.Float64()*0.02)

		bar := models.PriceBar{
			Symbol:     g.cfg.Symbol,
			Period:     i,
			Timestamp:  g.start.Add(time.Duration(i) * g.interval),
			Open:       open,
			High:       hi,
			Low:        lo,
			Close:      closePrice,
			Price:      closePrice,
			Volume:     volume,
			Volatility: g.state.Volatility,
			Momentum:   g.state.Momentum,
			Regime:     g.cfg.Regime,
			Shocks:     shocks,
		}
		if g.cfg.LevelFeedback {
			bar.Metrics.NearestSupport, bar.Metrics.NearestResistance = Nearest(g.state.Levels, closePrice)
		}
		if g.cfg.VolumeProfile {
			if meanVolume == 0 {
				meanVolume = volume
			}
			bar.Metrics.VolumeProfile = &models.VolumeProfile{
				HighVolume:    math.Abs(closePrice-open) < g.state.Volatility*closePrice,
				VolumeCluster: volume > meanVolume*1.5,
			}
			meanVolume += (volume - meanVolume) / float64(i+1)
		}

		bars = append(bars, bar)
		closes = append(closes, closePrice)
	}
	return bars
}

// volume scales base turnover by volatility, momentum and regime, with a
// uniform 0.5-1.5 noise factor.
func (g *Generator) volume() float64 {
	base := g.state.Price * 10
	volImpact := 1 + math.Abs(g.state.Volatility)*10
	momImpact := 1 + math.Abs(g.state.Momentum)*0.1
	noise := 0.5 + g.rng.Float64()
	return base * volImpact * momImpact * noise * g.profile.VolatilityMultiplier
}
