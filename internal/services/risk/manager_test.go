package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// strongAnalysis scores well above the default 70 minimum.
func strongAnalysis() models.Analysis {
	return models.Analysis{
		Technical:  &models.TechnicalAnalysis{Trend: models.TrendBullish, RSI: f64(25), MACDSignal: f64(1)},
		Sentiment:  &models.SentimentAnalysis{Social: 80, Market: 80, Overall: 80},
		News:       &models.NewsAnalysis{Sentiment: 80, Relevance: 80, Impact: 80},
		Prediction: &models.PredictionAnalysis{Confidence: 85, Accuracy: 85, Direction: models.PredictionUp},
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(models.DefaultRiskConfig())
	require.NoError(t, err)
	return m
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	cfg := models.DefaultRiskConfig()
	cfg.MaxSingleTradeValue = 5000 // above max_trading_value
	_, err := NewManager(cfg)
	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateTradeDisabledByDefault(t *testing.T) {
	m := newTestManager(t)
	result := m.ValidateTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.5, Price: 100,
		Analysis: strongAnalysis(), MarketVolatility: 1,
	})
	require.False(t, result.IsValid)
	require.Contains(t, result.Reasons, "trading is currently disabled")
}

func TestValidateTradeReportsEveryFailure(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	result := m.ValidateTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 20, Price: 100,
		Analysis: models.Analysis{}, MarketVolatility: 10,
	})
	require.False(t, result.IsValid)
	require.Len(t, result.Reasons, 4)
	require.Contains(t, result.Reasons, "exceeds maximum daily trading value")
	require.Contains(t, result.Reasons, "market volatility too high")
	require.Contains(t, result.Reasons, "analysis score below minimum threshold")
}

func TestValidateTradePasses(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	result := m.ValidateTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.5, Price: 100,
		Analysis: strongAnalysis(), MarketVolatility: 2,
	})
	require.True(t, result.IsValid)
	require.Empty(t, result.Reasons)
}

func TestPositionSize(t *testing.T) {
	cfg := models.DefaultRiskConfig()
	cfg.MaxTradingValue = 100000
	cfg.MaxSingleTradeValue = 10000
	m, err := NewManager(cfg)
	require.NoError(t, err)

	// (10000 * 0.01) / |100-98|
	require.InDelta(t, 50, m.PositionSize(10000, 1, 100, 98), 1e-9)

	// default limits cap the size at max_single_trade_value/price
	capped := newTestManager(t)
	require.InDelta(t, 1, capped.PositionSize(10000, 1, 100, 98), 1e-9)

	require.Zero(t, m.PositionSize(10000, 1, 100, 100))
}

func TestRiskMetrics(t *testing.T) {
	m := newTestManager(t)

	good := m.RiskMetrics(models.Trade{Entry: 100, StopLoss: 98, TakeProfit: 106, Position: 1})
	require.InDelta(t, 2, good.Risk, 1e-9)
	require.InDelta(t, 6, good.Reward, 1e-9)
	require.InDelta(t, 3, good.Ratio, 1e-9)
	require.True(t, good.IsValid)

	tight := m.RiskMetrics(models.Trade{Entry: 100, StopLoss: 98, TakeProfit: 103, Position: 1})
	require.InDelta(t, 1.5, tight.Ratio, 1e-9)
	require.False(t, tight.IsValid)
}

func TestTradeLifecycle(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	open := func() models.Trade {
		trade, err := m.OpenTrade(models.TradeProposal{
			Market: "BTC-USD", Side: models.SideBuy, Amount: 0.5, Price: 100,
			StopLoss: 98, TakeProfit: 106,
		})
		require.NoError(t, err)
		return trade
	}

	first := open()
	require.NotEmpty(t, first.ID)

	update, ok := m.UpdateTrade(first.ID, 102)
	require.True(t, ok)
	require.Nil(t, update.Closed)
	require.InDelta(t, (102-100)*0.5, update.CurrentPnL, 1e-9)

	update, ok = m.UpdateTrade(first.ID, 97)
	require.True(t, ok)
	require.NotNil(t, update.Closed)
	require.Equal(t, models.CloseStopLoss, update.Closed.CloseReason)
	require.InDelta(t, (97-100)*0.5, update.Closed.RealizedPnL, 1e-9)

	second := open()
	update, ok = m.UpdateTrade(second.ID, 107)
	require.True(t, ok)
	require.NotNil(t, update.Closed)
	require.Equal(t, models.CloseTakeProfit, update.Closed.CloseReason)
	require.InDelta(t, (107-100)*0.5, update.Closed.RealizedPnL, 1e-9)

	_, ok = m.UpdateTrade("no-such-trade", 100)
	require.False(t, ok)

	require.Empty(t, m.OpenTrades())
	require.Len(t, m.History(), 2)

	stats := m.Stats()
	require.Equal(t, 1, stats.TradesWon)
	require.Equal(t, 1, stats.TradesLost)
	require.InDelta(t, 10000-1.5+3.5, stats.CurrentBalance, 1e-9)

	summary := m.StopSession()
	require.Equal(t, 2, summary.TotalTrades)
	require.InDelta(t, 50, summary.WinRate, 1e-9)
	require.InDelta(t, 2, summary.ProfitLoss, 1e-9)
}

func TestSellSideStopsMirror(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	trade, err := m.OpenTrade(models.TradeProposal{
		Market: "ETH-USD", Side: models.SideSell, Amount: 1, Price: 100,
		StopLoss: 103, TakeProfit: 95,
	})
	require.NoError(t, err)

	update, ok := m.UpdateTrade(trade.ID, 98)
	require.True(t, ok)
	require.Nil(t, update.Closed)
	require.InDelta(t, 2, update.CurrentPnL, 1e-9)

	update, ok = m.UpdateTrade(trade.ID, 104)
	require.True(t, ok)
	require.NotNil(t, update.Closed)
	require.Equal(t, models.CloseStopLoss, update.Closed.CloseReason)
	require.InDelta(t, -4, update.Closed.RealizedPnL, 1e-9)
}

func TestOpenTradeDefaultStops(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	buy, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
	})
	require.NoError(t, err)
	require.InDelta(t, 98, buy.StopLoss, 1e-9)
	require.InDelta(t, 104, buy.TakeProfit, 1e-9)

	sell, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideSell, Amount: 0.1, Price: 100,
	})
	require.NoError(t, err)
	require.InDelta(t, 102, sell.StopLoss, 1e-9)
	require.InDelta(t, 96, sell.TakeProfit, 1e-9)
}

func TestCloseTradeIdempotent(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	trade, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
	})
	require.NoError(t, err)

	closed, ok := m.CloseTrade(trade.ID, 101, models.CloseManual)
	require.True(t, ok)
	require.Equal(t, models.CloseManual, closed.CloseReason)

	_, ok = m.CloseTrade(trade.ID, 101, models.CloseManual)
	require.False(t, ok)
	require.Len(t, m.History(), 1)
}

func TestOpenTradesInsertionOrder(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	var ids []string
	for i := 0; i < 3; i++ {
		trade, err := m.OpenTrade(models.TradeProposal{
			Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
		})
		require.NoError(t, err)
		ids = append(ids, trade.ID)
	}

	open := m.OpenTrades()
	require.Len(t, open, 3)
	for i, tr := range open {
		require.Equal(t, ids[i], tr.ID)
	}

	_, ok := m.CloseTrade(ids[1], 100, models.CloseManual)
	require.True(t, ok)

	open = m.OpenTrades()
	require.Len(t, open, 2)
	require.Equal(t, ids[0], open[0].ID)
	require.Equal(t, ids[2], open[1].ID)
}

func TestMaxOpenTradesGate(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	for i := 0; i < 5; i++ {
		_, err := m.OpenTrade(models.TradeProposal{
			Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
		})
		require.NoError(t, err)
	}
	require.False(t, m.TradingEnabled())

	_, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
	})
	require.Error(t, err)
}

func TestStopSessionNoTrades(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(500)

	summary := m.StopSession()
	require.Zero(t, summary.WinRate)
	require.Zero(t, summary.TotalTrades)
	require.Zero(t, summary.ProfitLoss)
	require.False(t, m.TradingEnabled())
}

func TestSessionEvents(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	trade, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
	})
	require.NoError(t, err)
	_, ok := m.CloseTrade(trade.ID, 105, models.CloseManual)
	require.True(t, ok)
	m.StopSession()

	var types []models.TradeEventType
	for len(m.Events()) > 0 {
		types = append(types, (<-m.Events()).Type)
	}
	require.Equal(t, []models.TradeEventType{
		models.EventSessionStart,
		models.EventTradeOpened,
		models.EventTradeClosed,
		models.EventSessionStop,
	}, types)
}

func TestSetConfigBetweenTrades(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	cfg := m.Config()
	cfg.VolatilityThreshold = 1
	require.NoError(t, m.SetConfig(cfg))

	result := m.ValidateTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.5, Price: 100,
		Analysis: strongAnalysis(), MarketVolatility: 2,
	})
	require.False(t, result.IsValid)
	require.Contains(t, result.Reasons, "market volatility too high")

	cfg.MaxOpenTrades = 0
	require.Error(t, m.SetConfig(cfg))
}

func TestDailyLossGate(t *testing.T) {
	m := newTestManager(t)
	m.StartSession(10000)

	trade, err := m.OpenTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 1, Price: 90,
	})
	require.NoError(t, err)

	// realized loss of 60 breaches the 50 daily-loss limit
	_, ok := m.CloseTrade(trade.ID, 30, models.CloseManual)
	require.True(t, ok)
	require.False(t, m.TradingEnabled())

	result := m.ValidateTrade(models.TradeProposal{
		Market: "BTC-USD", Side: models.SideBuy, Amount: 0.1, Price: 100,
		Analysis: strongAnalysis(), MarketVolatility: 1,
	})
	require.False(t, result.IsValid)
	require.Contains(t, result.Reasons, "trading is currently disabled")
}
