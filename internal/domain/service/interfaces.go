package service

import (
	"context"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// AnalysisProvider fetches trade-signal enrichment for a symbol from an
// external scoring service, given a precomputed feature vector.
type AnalysisProvider interface {
	Fetch(ctx context.Context, symbol string, features map[string]float64) (models.Analysis, error)
}

// AnalysisScorer reduces heterogeneous analysis inputs to one 0-100
// confidence score used by trade validation.
type AnalysisScorer interface {
	Score(a models.Analysis) float64
}

// RiskController is the trading session state machine consumed by the
// trading use case and API handlers.
type RiskController interface {
	StartSession(balance float64)
	StopSession() models.SessionSummary
	TradingEnabled() bool

	ValidateTrade(p models.TradeProposal) models.ValidationResult
	PositionSize(balance, riskPct, price, stopLoss float64) float64
	RiskMetrics(t models.Trade) models.RiskMetrics

	OpenTrade(p models.TradeProposal) (models.Trade, error)
	UpdateTrade(id string, currentPrice float64) (models.TradeUpdate, bool)
	CloseTrade(id string, closePrice float64, reason models.CloseReason) (models.ClosedTrade, bool)

	OpenTrades() []models.Trade
	OpenTradesFor(market string) []models.Trade
	History() []models.ClosedTrade
	Stats() models.DailyStats
	Events() <-chan models.TradeEvent

	Config() models.RiskConfig
	SetConfig(cfg models.RiskConfig) error
}
