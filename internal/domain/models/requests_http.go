package models

// Requests for the dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SimulateRequest struct {
	Symbol         string  `json:"symbol" default:"BTC-USD" validate:"required"`
	Periods        int     `json:"periods" default:"720" validate:"gte=1,lte=100000"`
	BasePrice      float64 `json:"base_price" default:"45000" validate:"gt=0"`
	BaseVolatility float64 `json:"base_volatility" default:"0.02" validate:"gte=0"`
	BaseTrend      float64 `json:"base_trend"`
	Regime         string  `json:"regime" default:"normal" validate:"oneof=normal volatile trending ranging"`
	Whales         *bool   `json:"whales,omitempty"`
	Cascades       *bool   `json:"cascades,omitempty"`
	Levels         *bool   `json:"levels,omitempty"`
	VolumeProfile  *bool   `json:"volume_profile,omitempty"`
	Seed           int64   `json:"seed,omitempty"`
}

type BarsRequest struct {
	RunID string `query:"run_id" json:"run_id" validate:"required"`
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}

type SessionStartRequest struct {
	Balance float64 `json:"balance" validate:"gt=0"`
}

type TradeValidateRequest struct {
	Market           string   `json:"market" validate:"required"`
	Side             string   `json:"side" default:"buy" validate:"oneof=buy sell"`
	Amount           float64  `json:"amount" validate:"gt=0"`
	Price            float64  `json:"price" validate:"gt=0"`
	StopLoss         float64  `json:"stop_loss,omitempty"`
	TakeProfit       float64  `json:"take_profit,omitempty"`
	MarketVolatility float64  `json:"market_volatility" validate:"gte=0"`
	Analysis         Analysis `json:"analysis"`
}

type TradeUpdateRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

type PositionSizeRequest struct {
	Balance  float64 `json:"balance" validate:"gt=0"`
	RiskPct  float64 `json:"risk_pct" default:"1" validate:"gt=0,lte=100"`
	Price    float64 `json:"price" validate:"gt=0"`
	StopLoss float64 `json:"stop_loss" validate:"gt=0"`
}
