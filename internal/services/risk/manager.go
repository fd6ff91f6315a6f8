package risk

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// Manager is the trading state machine for one session: it validates
// proposed trades against configured limits and the analysis score, sizes
// positions, tracks open trades and session statistics, and auto-closes
// trades on stop-loss/take-profit.
//
// All mutating paths hold the mutex; callers on concurrent timers get
// single-writer semantics without extra coordination.
type Manager struct {
	mu sync.Mutex

	cfg    models.RiskConfig
	scorer *Scorer

	active  bool
	stats   models.DailyStats
	open    map[string]*models.Trade
	order   []string
	history []models.ClosedTrade

	events chan models.TradeEvent
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEventBuffer sizes the lifecycle event queue (default 256).
func WithEventBuffer(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.events = make(chan models.TradeEvent, n)
		}
	}
}

// NewManager validates the risk config and builds a manager in the Idle
// state.
func NewManager(cfg models.RiskConfig, opts ...ManagerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:    cfg,
		scorer: NewScorer(),
		open:   make(map[string]*models.Trade),
		events: make(chan models.TradeEvent, 256),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Events exposes the lifecycle event queue. Events are dropped, not
// blocked on, when no consumer keeps up.
func (m *Manager) Events() <-chan models.TradeEvent { return m.events }

func (m *Manager) emit(ev models.TradeEvent) {
	ev.Timestamp = time.Now()
	select {
	case m.events <- ev:
	default:
	}
}

// Config returns a copy of the current risk config.
func (m *Manager) Config() models.RiskConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetConfig swaps limits between trades. It never interrupts an in-flight
// validation and rejects invalid configs.
func (m *Manager) SetConfig(cfg models.RiskConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// StartSession resets daily stats and open trades, enables trading and
// moves the machine to Active. Re-entrant: a second start resets again.
func (m *Manager) StartSession(balance float64) {
	m.mu.Lock()
	m.stats = models.DailyStats{StartBalance: balance, CurrentBalance: balance}
	m.open = make(map[string]*models.Trade)
	m.order = nil
	m.cfg.TradingEnabled = true
	m.active = true
	m.mu.Unlock()
	m.emit(models.TradeEvent{Type: models.EventSessionStart})
}

// StopSession disables new trade validation and returns the session
// summary. Open trades are deliberately left open. WinRate is 0, never
// NaN, when no trades closed.
func (m *Manager) StopSession() models.SessionSummary {
	m.mu.Lock()
	m.cfg.TradingEnabled = false
	m.active = false
	total := m.stats.TradesWon + m.stats.TradesLost
	summary := models.SessionSummary{
		ProfitLoss:  m.stats.CurrentBalance - m.stats.StartBalance,
		TotalTrades: total,
	}
	if total > 0 {
		summary.WinRate = float64(m.stats.TradesWon) / float64(total) * 100
	}
	m.mu.Unlock()
	m.emit(models.TradeEvent{Type: models.EventSessionStop})
	return summary
}

// TradingEnabled reports whether new trades may open: the session flag is
// set and no cumulative limit has been breached. The daily-loss limit is a
// gate, not a clamp: breaching it blocks new trades without force-closing
// existing ones.
func (m *Manager) TradingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tradingEnabledLocked()
}

func (m *Manager) tradingEnabledLocked() bool {
	return m.cfg.TradingEnabled &&
		m.stats.TotalTradingValue < m.cfg.MaxTradingValue &&
		len(m.open) < m.cfg.MaxOpenTrades &&
		math.Abs(m.stats.RealizedLoss) < m.cfg.MaxDailyLoss
}

// ValidateTrade evaluates every risk gate against the proposal and reports
// all failures, not just the first, so callers can enumerate violated
// constraints at once. Failures are data, never errors.
func (m *Manager) ValidateTrade(p models.TradeProposal) models.ValidationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	tradeValue := p.Amount * p.Price
	score := m.scorer.Score(p.Analysis)

	checks := []struct {
		ok      bool
		message string
	}{
		{m.tradingEnabledLocked(), "trading is currently disabled"},
		{tradeValue <= m.cfg.MaxSingleTradeValue,
			fmt.Sprintf("trade value exceeds maximum allowed (%.2f USD)", m.cfg.MaxSingleTradeValue)},
		{m.stats.TotalTradingValue+tradeValue <= m.cfg.MaxTradingValue,
			"exceeds maximum daily trading value"},
		{p.MarketVolatility <= m.cfg.VolatilityThreshold,
			"market volatility too high"},
		{score >= m.cfg.MinAnalysisScore,
			"analysis score below minimum threshold"},
	}

	var reasons []string
	for _, c := range checks {
		if !c.ok {
			reasons = append(reasons, c.message)
		}
	}
	return models.ValidationResult{IsValid: len(reasons) == 0, Reasons: reasons}
}

// PositionSize risks riskPct percent of balance against the stop distance,
// capped so the position value never exceeds the single-trade limit.
func (m *Manager) PositionSize(balance, riskPct, price, stopLoss float64) float64 {
	distance := math.Abs(price - stopLoss)
	if distance == 0 || price <= 0 {
		return 0
	}
	size := balance * (riskPct / 100) / distance
	m.mu.Lock()
	maxSize := m.cfg.MaxSingleTradeValue / price
	m.mu.Unlock()
	return math.Min(size, maxSize)
}

// RiskMetrics computes risk, reward and their ratio for a trade; valid iff
// the ratio meets the configured minimum.
func (m *Manager) RiskMetrics(t models.Trade) models.RiskMetrics {
	risk := math.Abs(t.Entry-t.StopLoss) * t.Position
	reward := math.Abs(t.Entry-t.TakeProfit) * t.Position
	var ratio float64
	if risk > 0 {
		ratio = reward / risk
	}
	m.mu.Lock()
	minRatio := m.cfg.RiskRewardRatio
	m.mu.Unlock()
	return models.RiskMetrics{Risk: risk, Reward: reward, Ratio: ratio, IsValid: ratio >= minRatio}
}

// OpenTrade admits a validated proposal into the open set. Stop-loss and
// take-profit default from the configured percentages when the proposal
// leaves them zero.
func (m *Manager) OpenTrade(p models.TradeProposal) (models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tradingEnabledLocked() {
		return models.Trade{}, fmt.Errorf("trading disabled")
	}

	stop := p.StopLoss
	take := p.TakeProfit
	switch p.Side {
	case models.SideSell:
		if stop == 0 {
			stop = p.Price * (1 + m.cfg.StopLossPct/100)
		}
		if take == 0 {
			take = p.Price * (1 - m.cfg.TakeProfitPct/100)
		}
	default:
		if stop == 0 {
			stop = p.Price * (1 - m.cfg.StopLossPct/100)
		}
		if take == 0 {
			take = p.Price * (1 + m.cfg.TakeProfitPct/100)
		}
	}

	t := models.Trade{
		ID:         uuid.NewString(),
		Market:     p.Market,
		Side:       p.Side,
		Entry:      p.Price,
		StopLoss:   stop,
		TakeProfit: take,
		Position:   p.Amount,
		OpenTime:   time.Now(),
	}
	m.open[t.ID] = &t
	m.order = append(m.order, t.ID)
	m.stats.TotalTradingValue += p.Amount * p.Price

	m.emit(models.TradeEvent{Type: models.EventTradeOpened, Market: t.Market, TradeID: t.ID})
	return t, nil
}

// UpdateTrade marks an open trade against currentPrice. It auto-closes via
// CloseTrade when the price crosses the stop-loss or take-profit in the
// direction implied by the side, otherwise returns the trade with its
// unrealized PnL. Unknown ids return ok=false, never an error.
func (m *Manager) UpdateTrade(id string, currentPrice float64) (models.TradeUpdate, bool) {
	m.mu.Lock()
	t, ok := m.open[id]
	if !ok {
		m.mu.Unlock()
		return models.TradeUpdate{}, false
	}
	trade := *t

	pnl := unrealizedPnL(trade, currentPrice)

	var reason models.CloseReason
	switch {
	case trade.Side == models.SideBuy && currentPrice <= trade.StopLoss,
		trade.Side == models.SideSell && currentPrice >= trade.StopLoss:
		reason = models.CloseStopLoss
	case trade.Side == models.SideBuy && currentPrice >= trade.TakeProfit,
		trade.Side == models.SideSell && currentPrice <= trade.TakeProfit:
		reason = models.CloseTakeProfit
	}

	if reason == "" {
		m.mu.Unlock()
		return models.TradeUpdate{Trade: trade, CurrentPnL: pnl}, true
	}

	closed := m.closeLocked(id, currentPrice, reason)
	m.mu.Unlock()
	m.emit(models.TradeEvent{
		Type: models.EventTradeClosed, Market: closed.Market,
		TradeID: closed.ID, Reason: string(reason), PnL: closed.RealizedPnL,
	})
	return models.TradeUpdate{Trade: trade, CurrentPnL: pnl, Closed: closed}, true
}

// CloseTrade removes a trade from the open set and appends its immutable
// history record. Closing an absent id is an idempotent no-op.
func (m *Manager) CloseTrade(id string, closePrice float64, reason models.CloseReason) (models.ClosedTrade, bool) {
	m.mu.Lock()
	if _, ok := m.open[id]; !ok {
		m.mu.Unlock()
		return models.ClosedTrade{}, false
	}
	closed := m.closeLocked(id, closePrice, reason)
	m.mu.Unlock()
	m.emit(models.TradeEvent{
		Type: models.EventTradeClosed, Market: closed.Market,
		TradeID: closed.ID, Reason: string(reason), PnL: closed.RealizedPnL,
	})
	return *closed, true
}

// closeLocked settles the trade into daily stats and the history log.
// Caller holds the mutex and has verified the id exists.
func (m *Manager) closeLocked(id string, closePrice float64, reason models.CloseReason) *models.ClosedTrade {
	t := m.open[id]
	delete(m.open, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	pnl := unrealizedPnL(*t, closePrice)
	if pnl > 0 {
		m.stats.TradesWon++
		m.stats.RealizedProfit += pnl
	} else {
		m.stats.TradesLost++
		m.stats.RealizedLoss += pnl
	}
	m.stats.CurrentBalance += pnl

	closed := models.ClosedTrade{
		Trade:       *t,
		ClosePrice:  closePrice,
		RealizedPnL: pnl,
		CloseReason: reason,
		CloseTime:   time.Now(),
	}
	m.history = append(m.history, closed)
	return &closed
}

// OpenTrades returns open trades in insertion order.
func (m *Manager) OpenTrades() []models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Trade, 0, len(m.order))
	for _, id := range m.order {
		if t, ok := m.open[id]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// OpenTradesFor returns open trades for one market, insertion ordered.
func (m *Manager) OpenTradesFor(market string) []models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Trade
	for _, id := range m.order {
		if t, ok := m.open[id]; ok && t.Market == market {
			out = append(out, *t)
		}
	}
	return out
}

// History returns the immutable close records, oldest first.
func (m *Manager) History() []models.ClosedTrade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ClosedTrade, len(m.history))
	copy(out, m.history)
	return out
}

// Stats returns a snapshot of the session statistics.
func (m *Manager) Stats() models.DailyStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Score exposes the analysis scorer for collaborators that only need the
// confidence value.
func (m *Manager) Score(a models.Analysis) float64 { return m.scorer.Score(a) }

func unrealizedPnL(t models.Trade, currentPrice float64) float64 {
	direction := 1.0
	if t.Side == models.SideSell {
		direction = -1
	}
	return (currentPrice - t.Entry) * t.Position * direction
}
