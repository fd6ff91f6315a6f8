package sim

import (
	"math"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// Returns computes simple returns r_t = C_t/C_{t-1} - 1 over a bar series.
// It returns a slice of length len(bars)-1, or nil if insufficient data.
func Returns(bars []models.PriceBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		cur := bars[i].Close
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, cur/prev-1)
	}
	return out
}

// MeanAbsReturn is the average absolute period-over-period return.
func MeanAbsReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		sum += math.Abs(r)
	}
	return sum / float64(len(returns))
}

// RealizedVolatility is the sample standard deviation of the trailing
// window of returns. Returns 0 when the window is not filled.
func RealizedVolatility(returns []float64, window int) float64 {
	if window <= 1 || len(returns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(returns) - window; i < len(returns); i++ {
		r := returns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// RunStats summarizes a generated series for API consumers.
type RunStats struct {
	FirstPrice    float64 `json:"first_price"`
	LastPrice     float64 `json:"last_price"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	MeanAbsReturn float64 `json:"mean_abs_return"`
	RealizedVol   float64 `json:"realized_vol"`
	TotalVolume   float64 `json:"total_volume"`
	ShockCount    int     `json:"shock_count"`
}

// Summarize reduces a bar series to its headline stats.
func Summarize(bars []models.PriceBar) RunStats {
	var s RunStats
	if len(bars) == 0 {
		return s
	}
	s.FirstPrice = bars[0].Close
	s.LastPrice = bars[len(bars)-1].Close
	s.MinPrice = bars[0].Close
	s.MaxPrice = bars[0].Close
	for _, b := range bars {
		s.TotalVolume += b.Volume
		s.ShockCount += len(b.Shocks)
		if b.Close < s.MinPrice {
			s.MinPrice = b.Close
		}
		if b.Close > s.MaxPrice {
			s.MaxPrice = b.Close
		}
	}
	rets := Returns(bars)
	s.MeanAbsReturn = MeanAbsReturn(rets)
	window := len(rets)
	if window > 60 {
		window = 60
	}
	s.RealizedVol = RealizedVolatility(rets, window)
	return s
}
