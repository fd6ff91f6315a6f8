package repository

import (
	"context"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	PublishBar(ctx context.Context, bar *models.PriceBar) error
	PublishBars(ctx context.Context, bars []*models.PriceBar) error
	PublishEvent(ctx context.Context, ev models.TradeEvent) error
	Close() error
}

type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, bar *models.PriceBar) error
	StoreBatch(ctx context.Context, bars []*models.PriceBar) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.PriceBar, error)
	QueryRun(ctx context.Context, runID string, limit int) ([]*models.PriceBar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)

	RecordBarGenerated(symbol, regime string)
	RecordShock(kind string)
	RecordGuardClamp()
	RecordTradeOpened(market string)
	RecordTradeClosed(market, reason string)
	RecordGateFailure(gate string)
}
