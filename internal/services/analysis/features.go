package analysis

import (
    "math"

    "github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
    "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
)

// LogReturns computes r_t = ln(C_t / C_{t-1}) over a bar series.
// It returns a slice of length len(bars)-1, or nil if insufficient data.
func LogReturns(bars []models.PriceBar) []float64 {
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
        out = append(out, math.Log(cur/prev))
    }
    return out
}

// RealizedVolatility computes annualized realized volatility over a rolling
// window using the provided number of bars per year. Returns the latest
// window sigma.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
    if window <= 1 || len(logReturns) < window {
        return 0
    }
    sum := 0.0
    sum2 := 0.0
    for i := len(logReturns) - window; i < len(logReturns); i++ {
        r := logReturns[i]
        sum += r
        sum2 += r * r
    }
    n := float64(window)
    mean := sum / n
    variance := (sum2 - n*mean*mean) / (n - 1)
    if variance < 0 {
        variance = 0
    }
    // annualize
    return math.Sqrt(variance * barsPerYear)
}

// BarsPerYearForTF returns the approximate number of bars per year for a timeframe.
func BarsPerYearForTF(tf repository.Timeframe) float64 {
    switch tf {
    case repository.TF1m:
        return 365 * 24 * 60
    case repository.TF5m:
        return 365 * 24 * 12
    case repository.TF1d:
        return 365
    default:
        return 365 * 24
    }
}

// FeatureMap reduces a bar series to the feature vector the signal service
// expects. Bars must be in ascending time order.
func FeatureMap(bars []models.PriceBar, tf repository.Timeframe) map[string]float64 {
    feats := make(map[string]float64, 6)
    if len(bars) == 0 {
        return feats
    }
    last := bars[len(bars)-1]
    feats["close"] = last.Close
    feats["volatility"] = last.Volatility
    feats["momentum"] = last.Momentum

    rets := LogReturns(bars)
    if len(rets) > 0 {
        feats["ret_1"] = rets[len(rets)-1]
        sum := 0.0
        for _, r := range rets {
            sum += r
        }
        feats["ret_mean"] = sum / float64(len(rets))
    }
    if rv := RealizedVolatility(rets, 21, BarsPerYearForTF(tf)); rv > 0 {
        feats["realized_vol"] = rv
    }
    return feats
}
