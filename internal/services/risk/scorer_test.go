package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func TestScoreEmptyAnalysis(t *testing.T) {
	// only the technical midpoint contributes: 50 * 0.4
	require.InDelta(t, 20, NewScorer().Score(models.Analysis{}), 1e-9)
}

func TestScoreTechnical(t *testing.T) {
	s := NewScorer()

	bullish := models.Analysis{Technical: &models.TechnicalAnalysis{
		Trend:      models.TrendBullish,
		RSI:        f64(25),
		MACDSignal: f64(1.2),
	}}
	// (50+10+10+5) * 0.4
	require.InDelta(t, 30, s.Score(bullish), 1e-9)

	bearish := models.Analysis{Technical: &models.TechnicalAnalysis{
		Trend:      models.TrendBearish,
		RSI:        f64(80),
		MACDSignal: f64(-0.5),
	}}
	// (50-10-10-5) * 0.4
	require.InDelta(t, 10, s.Score(bearish), 1e-9)

	neutral := models.Analysis{Technical: &models.TechnicalAnalysis{}}
	require.InDelta(t, 20, s.Score(neutral), 1e-9)
}

func TestScoreSentimentAndNews(t *testing.T) {
	s := NewScorer()
	a := models.Analysis{
		Sentiment: &models.SentimentAnalysis{Social: 60, Market: 70, Overall: 80},
		News:      &models.NewsAnalysis{Sentiment: 90, Relevance: 60, Impact: 30},
	}
	// technical midpoint 20 + sentiment 70*0.2 + news 60*0.2
	require.InDelta(t, 20+14+12, s.Score(a), 1e-9)
}

func TestScorePredictionDirectionTilt(t *testing.T) {
	s := NewScorer()

	up := models.Analysis{Prediction: &models.PredictionAnalysis{
		Confidence: 80, Accuracy: 60, Direction: models.PredictionUp,
	}}
	// 20 + ((80+60)/2 * 1.1) * 0.2
	require.InDelta(t, 20+70*1.1*0.2, s.Score(up), 1e-9)

	down := models.Analysis{Prediction: &models.PredictionAnalysis{
		Confidence: 80, Accuracy: 60, Direction: models.PredictionDown,
	}}
	require.InDelta(t, 20+70*0.9*0.2, s.Score(down), 1e-9)

	clamped := models.Analysis{Prediction: &models.PredictionAnalysis{
		Confidence: 100, Accuracy: 100, Direction: models.PredictionUp,
	}}
	// 110 clamps to 100 before weighting
	require.InDelta(t, 20+100*0.2, s.Score(clamped), 1e-9)
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer()
	best := models.Analysis{
		Technical:  &models.TechnicalAnalysis{Trend: models.TrendBullish, RSI: f64(20), MACDSignal: f64(2)},
		Sentiment:  &models.SentimentAnalysis{Social: 100, Market: 100, Overall: 100},
		News:       &models.NewsAnalysis{Sentiment: 100, Relevance: 100, Impact: 100},
		Prediction: &models.PredictionAnalysis{Confidence: 100, Accuracy: 100, Direction: models.PredictionUp},
	}
	score := s.Score(best)
	require.LessOrEqual(t, score, 100.0)
	require.GreaterOrEqual(t, score, 0.0)
}
