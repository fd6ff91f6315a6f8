package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
	pkgkafka "github.com/Offshore-Miner/Crypto-Dash/pkg/kafka"
)

// ClickHouseBarStore implements BarStore for ClickHouse.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStore creates ClickHouse bar storage.
func NewClickHouseBarStore(db *sql.DB, table string) repository.BarStore {
	return &ClickHouseBarStore{db: db, table: table}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

const barColumns = "run_id, symbol, period, ts, open, high, low, close, volume, volatility, momentum, regime, shock_count"

func barArgs(b *models.PriceBar) []interface{} {
	return []interface{}{
		b.RunID,
		b.Symbol,
		b.Period,
		b.Timestamp,
		b.Open,
		b.High,
		b.Low,
		b.Close,
		b.Volume,
		b.Volatility,
		b.Momentum,
		string(b.Regime),
		len(b.Shocks),
	}
}

func (s *ClickHouseBarStore) Store(ctx context.Context, b *models.PriceBar) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, barColumns)
	_, err := s.db.ExecContext(ctx, q, barArgs(b)...)
	return err
}

func (s *ClickHouseBarStore) StoreBatch(ctx context.Context, bars []*models.PriceBar) error {
    if len(bars) == 0 {
        return nil
    }
    // Batch insert using VALUES multi-row to reduce round-trips.
    // Chunk size tuned to 2000 rows per batch.
    const chunkSize = 2000
    for start := 0; start < len(bars); start += chunkSize {
        end := start + chunkSize
        if end > len(bars) { end = len(bars) }

        values := make([]string, 0, end-start)
        args := make([]interface{}, 0, (end-start)*13)
        for _, b := range bars[start:end] {
            if b == nil || b.Symbol == "" { continue }
            values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
            args = append(args, barArgs(b)...)
        }
        if len(values) == 0 { continue }
        q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, barColumns, strings.Join(values, ","))
        if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
            return err
        }
    }
    return nil
}

func (s *ClickHouseBarStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.PriceBar, error) {
	q := fmt.Sprintf("SELECT run_id, symbol, period, ts, open, high, low, close, volume, volatility, momentum, regime FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBars(rows)
}

func (s *ClickHouseBarStore) QueryRun(ctx context.Context, runID string, limit int) ([]*models.PriceBar, error) {
	q := fmt.Sprintf("SELECT run_id, symbol, period, ts, open, high, low, close, volume, volatility, momentum, regime FROM %s WHERE run_id = ? ORDER BY period ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBars(rows)
}

func scanBars(rows *sql.Rows) ([]*models.PriceBar, error) {
	var bars []*models.PriceBar
	for rows.Next() {
		var b models.PriceBar
		var regime string
		if err := rows.Scan(&b.RunID, &b.Symbol, &b.Period, &b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Volatility, &b.Momentum, &regime); err != nil {
			return nil, err
		}
		b.Regime = models.MarketRegime(regime)
		b.Price = b.Close
		bars = append(bars, &b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
    producer   *pkgkafka.Producer
    barTopic   string
    eventTopic string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, barTopic, eventTopic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, barTopic: barTopic, eventTopic: eventTopic}
}

func barPayload(b *models.PriceBar) map[string]interface{} {
	return map[string]interface{}{
		"run_id": b.RunID,
		"symbol": b.Symbol,
		"period": b.Period,
		"t":      b.Timestamp.Unix(),
		"o":      b.Open,
		"h":      b.High,
		"l":      b.Low,
		"c":      b.Close,
		"v":      b.Volume,
		"vol":    b.Volatility,
		"mom":    b.Momentum,
		"regime": string(b.Regime),
	}
}

func (p *KafkaPublisher) PublishBar(ctx context.Context, b *models.PriceBar) error {
	return p.producer.Publish(ctx, p.barTopic, []byte(b.Symbol), barPayload(b))
}

func (p *KafkaPublisher) PublishBars(ctx context.Context, bars []*models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(b.Symbol),
			Value: barPayload(b),
		}
	}
	return p.producer.PublishBatch(ctx, p.barTopic, msgs)
}

func (p *KafkaPublisher) PublishEvent(ctx context.Context, ev models.TradeEvent) error {
	return p.producer.Publish(ctx, p.eventTopic, []byte(ev.Market), map[string]interface{}{
		"type":     string(ev.Type),
		"market":   ev.Market,
		"trade_id": ev.TradeID,
		"reason":   ev.Reason,
		"pnl":      ev.PnL,
		"ts":       ev.Timestamp.Unix(),
	})
}

func (p *KafkaPublisher) Close() error {
    if p.producer != nil {
        return p.producer.Close()
    }
    return nil
}
