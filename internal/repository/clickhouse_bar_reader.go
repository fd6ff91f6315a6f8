package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	domrepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
	pkgch "github.com/Offshore-Miner/Crypto-Dash/pkg/clickhouse"
	applogger "github.com/Offshore-Miner/Crypto-Dash/pkg/logger"
)

// CHBarReader implements BarReader backed by ClickHouse.
type CHBarReader struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarReader(ch *pkgch.Client) *CHBarReader {
	return &CHBarReader{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarReader) SetLogger(l *applogger.Logger) { s.l = l }

const barSelect = "SELECT run_id, symbol, period, ts, open, high, low, close, volume, volatility, momentum, regime"

func (s *CHBarReader) GetBars(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.PriceBar, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("%s FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC", barSelect, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.String("tf", string(tf)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out, err := s.scan(rows, table, symbol)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse get_bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarReader) GetLatestNBars(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.PriceBar, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("%s FROM %s WHERE symbol = ? ORDER BY ts DESC LIMIT ?", barSelect, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_bars query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.String("tf", string(tf)),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest bars: %w", err)
	}
	defer rows.Close()

	tmp, err := s.scan(rows, table, symbol)
	if err != nil {
		return nil, err
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Int("limit", n),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHBarReader) GetRun(ctx context.Context, runID string) ([]models.PriceBar, error) {
	table, _ := tableForTF(domrepo.DefaultTimeframe())
	q := fmt.Sprintf("%s FROM %s WHERE run_id = ? ORDER BY period ASC", barSelect, table)
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_run query error",
				applogger.String("table", table),
				applogger.String("run_id", runID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()
	return s.scan(rows, table, runID)
}

func (s *CHBarReader) scan(rows *sql.Rows, table, scope string) ([]models.PriceBar, error) {
	out := make([]models.PriceBar, 0, 1024)
	for rows.Next() {
		var b models.PriceBar
		var regime string
		if err := rows.Scan(&b.RunID, &b.Symbol, &b.Period, &b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Volatility, &b.Momentum, &regime); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse scan error",
					applogger.String("table", table),
					applogger.String("scope", scope),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Regime = models.MarketRegime(regime)
		b.Price = b.Close
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse rows error",
				applogger.String("table", table),
				applogger.String("scope", scope),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func tableForTF(tf domrepo.Timeframe) (string, error) {
	switch tf {
	case domrepo.TF1m:
		return "cryptodash.sim_bars_1m", nil
	case domrepo.TF5m:
		// fold to 1m; 5m can be aggregated in-memory if needed
		return "cryptodash.sim_bars_1m", nil
	case domrepo.TF1h, domrepo.TF1d:
		return "cryptodash.sim_bars", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}
