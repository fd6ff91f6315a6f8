package sim

import (
	"math"
	"math/rand"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

const (
	defaultWhaleProb       = 0.02
	defaultLiquidationProb = 0.01
	defaultNewsProb        = 0.05
)

// newsCategory caps the multiplicative impact a news shock of that category
// may have.
type newsCategory struct {
	name      string
	maxImpact float64
}

var newsCategories = []newsCategory{
	{name: "regulatory", maxImpact: 0.15},
	{name: "adoption", maxImpact: 0.08},
	{name: "technical", maxImpact: 0.05},
	{name: "market", maxImpact: 0.03},
}

// ShockConfig enables shock families and overrides their draw probabilities.
type ShockConfig struct {
	Whales          bool
	Cascades        bool
	News            bool
	WhaleProb       float64
	LiquidationProb float64
	NewsProb        float64
}

// ShockInjector probabilistically draws discrete price perturbations. Each
// enabled family is drawn independently per period, so a single period may
// carry several events.
type ShockInjector struct {
	cfg ShockConfig
	rng *rand.Rand
}

// NewShockInjector builds an injector. Zero probabilities fall back to the
// 2%/1%/5% defaults.
func NewShockInjector(cfg ShockConfig, rng *rand.Rand) *ShockInjector {
	if cfg.WhaleProb <= 0 {
		cfg.WhaleProb = defaultWhaleProb
	}
	if cfg.LiquidationProb <= 0 {
		cfg.LiquidationProb = defaultLiquidationProb
	}
	if cfg.NewsProb <= 0 {
		cfg.NewsProb = defaultNewsProb
	}
	return &ShockInjector{cfg: cfg, rng: rng}
}

// Draw samples the enabled shock families against the current price and
// trend. Whale and liquidation events report additive price impacts; news
// events report a multiplicative fraction. Returns nil when nothing fires.
func (s *ShockInjector) Draw(price, trend float64) []models.ShockEvent {
	var events []models.ShockEvent

	if s.cfg.Whales && s.rng.Float64() < s.cfg.WhaleProb {
		events = append(events, s.drawWhale(price))
	}
	if s.cfg.Cascades && math.Abs(trend) > 0 && s.rng.Float64() < s.cfg.LiquidationProb {
		events = append(events, s.drawCascade(price, trend))
	}
	if s.cfg.News && s.rng.Float64() < s.cfg.NewsProb {
		events = append(events, s.drawNews())
	}
	return events
}

// drawWhale sizes a block trade of 100-1100 units with random direction;
// impact scales 1% of price per 1000 units.
func (s *ShockInjector) drawWhale(price float64) models.ShockEvent {
	size := s.rng.Float64()*1000 + 100
	direction := 1.0
	if s.rng.Float64() <= 0.5 {
		direction = -1
	}
	return models.ShockEvent{
		Kind:      models.ShockWhale,
		Impact:    (size / 1000) * direction * price * 0.01,
		Magnitude: size,
	}
}

// drawCascade models a liquidation cascade 2-7% deep over 3-7 steps in the
// trend direction. The full per-step fraction lands as a single-period
// impulse rather than cascading across subsequent periods.
func (s *ShockInjector) drawCascade(price, trend float64) models.ShockEvent {
	depth := s.rng.Float64()*0.05 + 0.02
	steps := s.rng.Intn(5) + 3
	direction := 1.0
	if trend < 0 {
		direction = -1
	}
	return models.ShockEvent{
		Kind:      models.ShockLiquidation,
		Impact:    (depth * direction * price) / float64(steps),
		Magnitude: depth,
	}
}

// drawNews picks a category and samples a multiplicative impact uniformly in
// [-max, +max] for it.
func (s *ShockInjector) drawNews() models.ShockEvent {
	cat := newsCategories[s.rng.Intn(len(newsCategories))]
	impact := (s.rng.Float64() - 0.5) * 2 * cat.maxImpact
	return models.ShockEvent{
		Kind:           models.ShockNews,
		Impact:         impact,
		Magnitude:      math.Abs(impact) / cat.maxImpact,
		Multiplicative: true,
		Category:       cat.name,
	}
}
