package models

import "time"

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// CloseReason records why a trade left the open set.
type CloseReason string

const (
	CloseStopLoss   CloseReason = "stop_loss"
	CloseTakeProfit CloseReason = "take_profit"
	CloseManual     CloseReason = "manual"
)

// RiskConfig bounds a trading session. Supplied at session start; may be
// updated between trades, never mid-validation.
type RiskConfig struct {
	MaxTradingValue     float64 `yaml:"max_trading_value" json:"max_trading_value"`
	MaxSingleTradeValue float64 `yaml:"max_single_trade_value" json:"max_single_trade_value"`
	MaxDailyLoss        float64 `yaml:"max_daily_loss" json:"max_daily_loss"`
	StopLossPct         float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct" json:"take_profit_pct"`
	RiskRewardRatio     float64 `yaml:"risk_reward_ratio" json:"risk_reward_ratio"`
	MaxOpenTrades       int     `yaml:"max_open_trades" json:"max_open_trades"`
	VolatilityThreshold float64 `yaml:"volatility_threshold" json:"volatility_threshold"`
	MinAnalysisScore    float64 `yaml:"min_analysis_score" json:"min_analysis_score"`
	TradingEnabled      bool    `yaml:"trading_enabled" json:"trading_enabled"`
}

// DefaultRiskConfig returns the stock limits for a small account.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		MaxTradingValue:     1000,
		MaxSingleTradeValue: 100,
		MaxDailyLoss:        50,
		StopLossPct:         2,
		TakeProfitPct:       4,
		RiskRewardRatio:     2,
		MaxOpenTrades:       5,
		VolatilityThreshold: 5,
		MinAnalysisScore:    70,
		TradingEnabled:      false,
	}
}

// Validate fails fast on limits that make no sense.
func (c RiskConfig) Validate() error {
	if c.MaxTradingValue <= 0 {
		return &ConfigError{Field: "max_trading_value", Reason: "must be positive"}
	}
	if c.MaxSingleTradeValue <= 0 {
		return &ConfigError{Field: "max_single_trade_value", Reason: "must be positive"}
	}
	if c.MaxSingleTradeValue > c.MaxTradingValue {
		return &ConfigError{Field: "max_single_trade_value", Reason: "exceeds max_trading_value"}
	}
	if c.MaxDailyLoss <= 0 {
		return &ConfigError{Field: "max_daily_loss", Reason: "must be positive"}
	}
	if c.MaxOpenTrades <= 0 {
		return &ConfigError{Field: "max_open_trades", Reason: "must be positive"}
	}
	if c.RiskRewardRatio <= 0 {
		return &ConfigError{Field: "risk_reward_ratio", Reason: "must be positive"}
	}
	return nil
}

// Trade is an open position owned by the risk manager.
type Trade struct {
	ID         string    `json:"id"`
	Market     string    `json:"market"`
	Side       TradeSide `json:"side"`
	Entry      float64   `json:"entry"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Position   float64   `json:"position"`
	OpenTime   time.Time `json:"open_time"`
}

// ClosedTrade is the immutable history record of a closed trade.
type ClosedTrade struct {
	Trade
	ClosePrice  float64     `json:"close_price"`
	RealizedPnL float64     `json:"realized_pnl"`
	CloseReason CloseReason `json:"close_reason"`
	CloseTime   time.Time   `json:"close_time"`
}

// TradeUpdate is the result of marking a trade against a price: either the
// trade is still open with its unrealized PnL, or Closed holds the close
// record.
type TradeUpdate struct {
	Trade      Trade        `json:"trade"`
	CurrentPnL float64      `json:"current_pnl"`
	Closed     *ClosedTrade `json:"closed,omitempty"`
}

// DailyStats accumulates session results. Reset exactly once per session
// start; mutated only by the risk manager on trade open/close.
type DailyStats struct {
	TotalTradingValue float64 `json:"total_trading_value"`
	RealizedProfit    float64 `json:"realized_profit"`
	RealizedLoss      float64 `json:"realized_loss"`
	TradesWon         int     `json:"trades_won"`
	TradesLost        int     `json:"trades_lost"`
	StartBalance      float64 `json:"start_balance"`
	CurrentBalance    float64 `json:"current_balance"`
}

// SessionSummary is returned when a trading session stops. WinRate is 0,
// never NaN, when no trades closed.
type SessionSummary struct {
	ProfitLoss  float64 `json:"profit_loss"`
	WinRate     float64 `json:"win_rate"`
	TotalTrades int     `json:"total_trades"`
}

// ValidationResult reports every failed risk gate, never just the first.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Reasons []string `json:"reasons"`
}

// RiskMetrics summarizes the risk/reward geometry of a proposed trade.
type RiskMetrics struct {
	Risk    float64 `json:"risk"`
	Reward  float64 `json:"reward"`
	Ratio   float64 `json:"ratio"`
	IsValid bool    `json:"is_valid"`
}

// TradeProposal is a candidate trade supplied by a collaborator, together
// with the analysis inputs and the market volatility reading used to gate it.
type TradeProposal struct {
	Market           string    `json:"market"`
	Side             TradeSide `json:"side"`
	Amount           float64   `json:"amount"`
	Price            float64   `json:"price"`
	StopLoss         float64   `json:"stop_loss,omitempty"`
	TakeProfit       float64   `json:"take_profit,omitempty"`
	Analysis         Analysis  `json:"analysis"`
	MarketVolatility float64   `json:"market_volatility"`
}

// TradeEventType names risk manager lifecycle events.
type TradeEventType string

const (
	EventTradeOpened   TradeEventType = "trade_opened"
	EventTradeClosed   TradeEventType = "trade_closed"
	EventSessionStart  TradeEventType = "session_start"
	EventSessionStop   TradeEventType = "session_stop"
	EventTradeRejected TradeEventType = "trade_rejected"
)

// TradeEvent is appended to the risk manager's event queue for out-of-band
// consumption by UI or automation layers.
type TradeEvent struct {
	Type      TradeEventType `json:"type"`
	Market    string         `json:"market,omitempty"`
	TradeID   string         `json:"trade_id,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	PnL       float64        `json:"pnl,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
