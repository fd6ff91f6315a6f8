package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

const (
	defaultLevelCount   = 5
	defaultMaxDeviation = 0.15
	defaultLevelDamping = 0.1
)

// LevelTracker generates a static set of support/resistance levels for a run
// and reports their pull on price.
type LevelTracker struct {
	count        int
	maxDeviation float64
	damping      float64
	rng          *rand.Rand
}

// NewLevelTracker builds a tracker with the given RNG. Zero-valued knobs
// fall back to the defaults (5 levels, 15% deviation, 0.1 damping).
func NewLevelTracker(rng *rand.Rand, count int, maxDeviation, damping float64) *LevelTracker {
	if count <= 0 {
		count = defaultLevelCount
	}
	if maxDeviation <= 0 {
		maxDeviation = defaultMaxDeviation
	}
	if damping <= 0 {
		damping = defaultLevelDamping
	}
	return &LevelTracker{count: count, maxDeviation: maxDeviation, damping: damping, rng: rng}
}

// Generate draws the level set around basePrice, each level within
// ±maxDeviation, tagged support/resistance with uniform probability and a
// random strength in [0,1]. The set is sorted ascending by price and never
// regenerated for the lifetime of a run.
func (t *LevelTracker) Generate(basePrice float64) []models.PriceLevel {
	levels := make([]models.PriceLevel, 0, t.count)
	for i := 0; i < t.count; i++ {
		deviation := t.rng.Float64() * t.maxDeviation
		if t.rng.Float64() <= 0.5 {
			deviation = -deviation
		}
		kind := models.LevelSupport
		if t.rng.Float64() <= 0.5 {
			kind = models.LevelResistance
		}
		levels = append(levels, models.PriceLevel{
			Price:    basePrice * (1 + deviation),
			Strength: t.rng.Float64(),
			Kind:     kind,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

// Nearest returns, among levels of each kind, the one closest to price.
// A kind with no levels yields nil for that kind.
func Nearest(levels []models.PriceLevel, price float64) (support, resistance *models.NearbyLevel) {
	for _, lv := range levels {
		d := math.Abs(lv.Price-price) / price
		nl := &models.NearbyLevel{PriceLevel: lv, Distance: d}
		switch lv.Kind {
		case models.LevelSupport:
			if support == nil || d < support.Distance {
				support = nl
			}
		case models.LevelResistance:
			if resistance == nil || d < resistance.Distance {
				resistance = nl
			}
		}
	}
	return support, resistance
}

// PullEffect computes the signed fractional pull of the single nearest level
// toward itself, scaled by its strength and the damping factor. Returns 0
// when the set is empty.
func (t *LevelTracker) PullEffect(levels []models.PriceLevel, price float64) float64 {
	if len(levels) == 0 || price <= 0 {
		return 0
	}
	nearest := levels[0]
	for _, lv := range levels[1:] {
		if math.Abs(lv.Price-price) < math.Abs(nearest.Price-price) {
			nearest = lv
		}
	}
	distance := (nearest.Price - price) / price
	return distance * nearest.Strength * t.damping
}
