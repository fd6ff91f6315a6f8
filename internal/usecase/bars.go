package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	domrepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
)

// BarsUseCase provides business logic for retrieving stored bars.
type BarsUseCase struct {
	store domrepo.BarReader
}

func NewBarsUseCase(store domrepo.BarReader) *BarsUseCase {
	return &BarsUseCase{store: store}
}

type GetBarsParams struct {
	Symbol    string
	From      time.Time
	To        time.Time
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetBarsResult struct {
	Symbol    string
	Timeframe string
	From      time.Time
	To        time.Time
	Count     int
	Bars      []models.PriceBar
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	bars, err := uc.store.GetBars(ctx, p.Symbol, p.From, p.To, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if len(bars) > p.Limit {
		bars = bars[:p.Limit]
	}

	return &GetBarsResult{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		From:      p.From,
		To:        p.To,
		Count:     len(bars),
		Bars:      bars,
	}, nil
}

// GetRun returns the full stored bar series of a single run.
func (uc *BarsUseCase) GetRun(ctx context.Context, runID string) ([]models.PriceBar, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id required")
	}
	bars, err := uc.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return bars, nil
}
