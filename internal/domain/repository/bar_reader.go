package repository

import (
	"context"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
)

// BarReader provides read-only access to stored bars for API consumers.
type BarReader interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.PriceBar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.PriceBar, error)
	GetRun(ctx context.Context, runID string) ([]models.PriceBar, error)
}
