package risk

import (
	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// Sub-score weights of the combined analysis score.
const (
	weightTechnical  = 0.4
	weightSentiment  = 0.2
	weightNews       = 0.2
	weightPrediction = 0.2
)

// Scorer reduces heterogeneous signal inputs to one 0-100 confidence score.
type Scorer struct{}

// NewScorer returns the stateless analysis scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score combines the technical, sentiment, news and prediction sub-scores
// with fixed weights. Missing sections score at their neutral default:
// technical at the 50 midpoint, the others at 0.
func (s *Scorer) Score(a models.Analysis) float64 {
	return scoreTechnical(a.Technical)*weightTechnical +
		scoreSentiment(a.Sentiment)*weightSentiment +
		scoreNews(a.News)*weightNews +
		scorePrediction(a.Prediction)*weightPrediction
}

// scoreTechnical starts from a neutral 50 and shifts on trend, RSI
// extremes and MACD sign, clamped to [0,100].
func scoreTechnical(t *models.TechnicalAnalysis) float64 {
	score := 50.0
	if t == nil {
		return score
	}
	switch t.Trend {
	case models.TrendBullish:
		score += 10
	case models.TrendBearish:
		score -= 10
	}
	rsi := 50.0
	if t.RSI != nil {
		rsi = *t.RSI
	}
	if rsi < 30 {
		score += 10
	}
	if rsi > 70 {
		score -= 10
	}
	if t.MACDSignal != nil {
		if *t.MACDSignal > 0 {
			score += 5
		}
		if *t.MACDSignal < 0 {
			score -= 5
		}
	}
	return clamp(score, 0, 100)
}

func scoreSentiment(s *models.SentimentAnalysis) float64 {
	if s == nil {
		return 0
	}
	return (s.Social + s.Market + s.Overall) / 3
}

func scoreNews(n *models.NewsAnalysis) float64 {
	if n == nil {
		return 0
	}
	return (n.Sentiment + n.Relevance + n.Impact) / 3
}

// scorePrediction averages confidence and accuracy, tilted 10% toward the
// predicted direction, clamped to [0,100].
func scorePrediction(p *models.PredictionAnalysis) float64 {
	if p == nil {
		return 0
	}
	score := (p.Confidence + p.Accuracy) / 2
	switch p.Direction {
	case models.PredictionUp:
		score *= 1.1
	case models.PredictionDown:
		score *= 0.9
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
