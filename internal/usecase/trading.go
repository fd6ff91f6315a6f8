package usecase

import (
	"context"
	"fmt"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	drepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
	dservice "github.com/Offshore-Miner/Crypto-Dash/internal/domain/service"
	"github.com/Offshore-Miner/Crypto-Dash/internal/services/analysis"
	"github.com/Offshore-Miner/Crypto-Dash/pkg/logger"
)

// Gate labels for metrics, index-aligned with the validation order.
var gateNames = []string{"enabled", "single_value", "daily_value", "volatility", "score"}

// TradingUseCase drives the risk controller: it validates and opens trades,
// marks open trades against the live tick stream, and forwards lifecycle
// events to the publisher.
type TradingUseCase struct {
	risk    dservice.RiskController
	pub     drepo.Publisher
	metrics drepo.Metrics
	l       *logger.Logger

	scorer   dservice.AnalysisScorer
	provider dservice.AnalysisProvider
	reader   drepo.BarReader
}

// ErrAnalysisUnavailable is returned when no external signal service is
// configured.
var ErrAnalysisUnavailable = fmt.Errorf("analysis service not configured")

func NewTradingUseCase(
	risk dservice.RiskController,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	l *logger.Logger,
) *TradingUseCase {
	return &TradingUseCase{risk: risk, pub: pub, metrics: metrics, l: l}
}

// SetAnalysis wires the optional external signal enrichment path: a scorer,
// the HTTP provider, and a bar reader supplying recent history for the
// feature vector.
func (uc *TradingUseCase) SetAnalysis(scorer dservice.AnalysisScorer, provider dservice.AnalysisProvider, reader drepo.BarReader) {
	uc.scorer = scorer
	uc.provider = provider
	uc.reader = reader
}

// AnalysisFor fetches enrichment for a symbol from the signal service and
// scores it. Requires SetAnalysis wiring; returns ErrAnalysisUnavailable
// otherwise.
func (uc *TradingUseCase) AnalysisFor(ctx context.Context, symbol string) (models.Analysis, float64, error) {
	if uc.provider == nil || uc.scorer == nil {
		return models.Analysis{}, 0, ErrAnalysisUnavailable
	}
	feats := map[string]float64{}
	if uc.reader != nil {
		bars, err := uc.reader.GetLatestNBars(ctx, symbol, 64, drepo.DefaultTimeframe())
		if err != nil {
			uc.l.Warn("feature history unavailable", logger.String("symbol", symbol), logger.Error(err))
		} else {
			feats = analysis.FeatureMap(bars, drepo.DefaultTimeframe())
		}
	}
	a, err := uc.provider.Fetch(ctx, symbol, feats)
	if err != nil {
		uc.metrics.RecordError("fetch_analysis")
		return models.Analysis{}, 0, err
	}
	return a, uc.scorer.Score(a), nil
}

// StartSession begins a trading session and starts event forwarding.
func (uc *TradingUseCase) StartSession(ctx context.Context, balance float64) {
	uc.risk.StartSession(balance)
	uc.l.Info("trading session started", logger.Any("balance", balance))
}

// StopSession ends the session and returns its summary.
func (uc *TradingUseCase) StopSession(ctx context.Context) models.SessionSummary {
	summary := uc.risk.StopSession()
	uc.l.Info("trading session stopped",
		logger.Any("profit_loss", summary.ProfitLoss),
		logger.Any("win_rate", summary.WinRate),
		logger.Int("total_trades", summary.TotalTrades),
	)
	return summary
}

// Validate runs every risk gate against the proposal and records failures.
func (uc *TradingUseCase) Validate(ctx context.Context, p models.TradeProposal) models.ValidationResult {
	result := uc.risk.ValidateTrade(p)
	for _, reason := range result.Reasons {
		uc.metrics.RecordGateFailure(gateLabel(reason))
	}
	return result
}

func gateLabel(reason string) string {
	switch {
	case reason == "trading is currently disabled":
		return gateNames[0]
	case reason == "exceeds maximum daily trading value":
		return gateNames[2]
	case reason == "market volatility too high":
		return gateNames[3]
	case reason == "analysis score below minimum threshold":
		return gateNames[4]
	default:
		return gateNames[1]
	}
}

// Open validates the proposal and admits the trade when every gate passes.
func (uc *TradingUseCase) Open(ctx context.Context, p models.TradeProposal) (models.Trade, *models.ValidationResult, error) {
	result := uc.Validate(ctx, p)
	if !result.IsValid {
		return models.Trade{}, &result, nil
	}
	trade, err := uc.risk.OpenTrade(p)
	if err != nil {
		return models.Trade{}, nil, fmt.Errorf("open trade: %w", err)
	}
	uc.metrics.RecordTradeOpened(trade.Market)
	uc.l.Info("trade opened",
		logger.String("trade_id", trade.ID),
		logger.String("market", trade.Market),
		logger.String("side", string(trade.Side)),
		logger.Any("entry", trade.Entry),
	)
	return trade, nil, nil
}

// Update marks one trade against a price. ok=false when the id is unknown.
func (uc *TradingUseCase) Update(ctx context.Context, id string, price float64) (models.TradeUpdate, bool) {
	update, ok := uc.risk.UpdateTrade(id, price)
	if ok && update.Closed != nil {
		uc.metrics.RecordTradeClosed(update.Closed.Market, string(update.Closed.CloseReason))
	}
	return update, ok
}

// CloseManual closes a trade at the given price with a manual reason.
func (uc *TradingUseCase) CloseManual(ctx context.Context, id string, price float64) (models.ClosedTrade, bool) {
	closed, ok := uc.risk.CloseTrade(id, price, models.CloseManual)
	if ok {
		uc.metrics.RecordTradeClosed(closed.Market, string(closed.CloseReason))
	}
	return closed, ok
}

// Process marks every open trade on the tick's market, making the use case
// a pipeline sink for the live stream.
func (uc *TradingUseCase) Process(ctx context.Context, t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}
	uc.metrics.RecordLastPrice(t.Symbol, t.Price)
	for _, trade := range uc.risk.OpenTradesFor(t.Symbol) {
		update, ok := uc.risk.UpdateTrade(trade.ID, t.Price)
		if ok && update.Closed != nil {
			uc.metrics.RecordTradeClosed(update.Closed.Market, string(update.Closed.CloseReason))
		}
	}
	return nil
}

// ForwardEvents pumps risk manager events to the publisher until ctx ends.
func (uc *TradingUseCase) ForwardEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-uc.risk.Events():
			if !ok {
				return
			}
			if uc.pub == nil {
				continue
			}
			if err := uc.pub.PublishEvent(ctx, ev); err != nil {
				uc.metrics.RecordError("publish_event")
				uc.l.Warn("publish trade event failed",
					logger.String("type", string(ev.Type)),
					logger.Error(err),
				)
			}
		}
	}
}

func (uc *TradingUseCase) PositionSize(balance, riskPct, price, stopLoss float64) float64 {
	return uc.risk.PositionSize(balance, riskPct, price, stopLoss)
}

func (uc *TradingUseCase) RiskMetrics(t models.Trade) models.RiskMetrics {
	return uc.risk.RiskMetrics(t)
}

func (uc *TradingUseCase) OpenTrades() []models.Trade       { return uc.risk.OpenTrades() }
func (uc *TradingUseCase) History() []models.ClosedTrade    { return uc.risk.History() }
func (uc *TradingUseCase) Stats() models.DailyStats         { return uc.risk.Stats() }
func (uc *TradingUseCase) Config() models.RiskConfig        { return uc.risk.Config() }
func (uc *TradingUseCase) SetConfig(c models.RiskConfig) error { return uc.risk.SetConfig(c) }
func (uc *TradingUseCase) TradingEnabled() bool             { return uc.risk.TradingEnabled() }
