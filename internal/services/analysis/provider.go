package analysis

import (
    "context"
    "fmt"
    "time"

    "github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
    domsvc "github.com/Offshore-Miner/Crypto-Dash/internal/domain/service"
)

// HTTPProvider fetches trade-signal enrichment from an external scoring
// service over HTTP. One composite call returns every section the trade
// scorer consumes.
type HTTPProvider struct {
    base *serviceClient
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
    return &HTTPProvider{base: newServiceClient(baseURL, timeout)}
}

type analysisReq struct {
    Symbol   string             `json:"symbol"`
    Features map[string]float64 `json:"features"`
}

type analysisResp struct {
    Technical *struct {
        Trend      string   `json:"trend"`
        RSI        *float64 `json:"rsi"`
        MACDSignal *float64 `json:"macd_signal"`
    } `json:"technical"`
    Sentiment *struct {
        Social  float64 `json:"social"`
        Market  float64 `json:"market"`
        Overall float64 `json:"overall"`
    } `json:"sentiment"`
    News *struct {
        Sentiment float64 `json:"sentiment"`
        Relevance float64 `json:"relevance"`
        Impact    float64 `json:"impact"`
    } `json:"news"`
    Prediction *struct {
        Confidence float64 `json:"confidence"`
        Accuracy   float64 `json:"accuracy"`
        Direction  string  `json:"direction"`
    } `json:"prediction"`
}

// Fetch posts the feature vector and maps the response onto the domain
// analysis sections. Sections the service omits stay nil and score at
// their neutral default downstream.
func (p *HTTPProvider) Fetch(ctx context.Context, symbol string, features map[string]float64) (models.Analysis, error) {
    var result models.Analysis
    var ar analysisResp
    err := p.base.PostJSONWithRetry(ctx, "/v1/analysis", analysisReq{Symbol: symbol, Features: features}, &ar, 2)
    if err != nil {
        return result, fmt.Errorf("fetch analysis: %w", err)
    }
    if ar.Technical != nil {
        result.Technical = &models.TechnicalAnalysis{
            Trend:      models.TrendDirection(ar.Technical.Trend),
            RSI:        ar.Technical.RSI,
            MACDSignal: ar.Technical.MACDSignal,
        }
    }
    if ar.Sentiment != nil {
        result.Sentiment = &models.SentimentAnalysis{
            Social:  ar.Sentiment.Social,
            Market:  ar.Sentiment.Market,
            Overall: ar.Sentiment.Overall,
        }
    }
    if ar.News != nil {
        result.News = &models.NewsAnalysis{
            Sentiment: ar.News.Sentiment,
            Relevance: ar.News.Relevance,
            Impact:    ar.News.Impact,
        }
    }
    if ar.Prediction != nil {
        result.Prediction = &models.PredictionAnalysis{
            Confidence: ar.Prediction.Confidence,
            Accuracy:   ar.Prediction.Accuracy,
            Direction:  models.PredictionDirection(ar.Prediction.Direction),
        }
    }
    return result, nil
}

var _ domsvc.AnalysisProvider = (*HTTPProvider)(nil)
