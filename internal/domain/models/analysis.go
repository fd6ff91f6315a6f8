package models

// Analysis bundles the heterogeneous signal inputs a collaborator supplies
// with a trade proposal. Absent sections score at their neutral default:
// technical at the 50 midpoint, the rest at 0.
type Analysis struct {
	Technical  *TechnicalAnalysis  `json:"technical,omitempty"`
	Sentiment  *SentimentAnalysis  `json:"sentiment,omitempty"`
	News       *NewsAnalysis       `json:"news,omitempty"`
	Prediction *PredictionAnalysis `json:"prediction,omitempty"`
}

// TrendDirection is the technical trend call.
type TrendDirection string

const (
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
	TrendNeutral TrendDirection = "neutral"
)

// TechnicalAnalysis carries indicator readings. Nil RSI and MACDSignal are
// treated as neutral (RSI 50, MACD flat).
type TechnicalAnalysis struct {
	Trend      TrendDirection `json:"trend,omitempty"`
	RSI        *float64       `json:"rsi,omitempty"`
	MACDSignal *float64       `json:"macd_signal,omitempty"`
}

// SentimentAnalysis sub-scores are on a 0-100 scale.
type SentimentAnalysis struct {
	Social  float64 `json:"social"`
	Market  float64 `json:"market"`
	Overall float64 `json:"overall"`
}

// NewsAnalysis sub-scores are on a 0-100 scale.
type NewsAnalysis struct {
	Sentiment float64 `json:"sentiment"`
	Relevance float64 `json:"relevance"`
	Impact    float64 `json:"impact"`
}

// PredictionDirection is the predicted price direction.
type PredictionDirection string

const (
	PredictionUp      PredictionDirection = "up"
	PredictionDown    PredictionDirection = "down"
	PredictionNeutral PredictionDirection = "neutral"
)

// PredictionAnalysis carries model confidence and historical accuracy on a
// 0-100 scale plus the predicted direction.
type PredictionAnalysis struct {
	Confidence float64             `json:"confidence"`
	Accuracy   float64             `json:"accuracy"`
	Direction  PredictionDirection `json:"direction,omitempty"`
}
