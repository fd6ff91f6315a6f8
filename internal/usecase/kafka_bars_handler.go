package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	domrepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
	pkgkafka "github.com/Offshore-Miner/Crypto-Dash/pkg/kafka"
)

// KafkaBarsHandler consumes generated bars from Kafka and writes them to
// storage.
type KafkaBarsHandler struct {
	topic   string
	storage domrepo.BarStore
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, storage domrepo.BarStore, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema mirrors KafkaPublisher.barPayload
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		RunID  string  `json:"run_id"`
		Symbol string  `json:"symbol"`
		Period int     `json:"period"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
		Vol    float64 `json:"vol"`
		Mom    float64 `json:"mom"`
		Regime string  `json:"regime"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.PriceBar{
		RunID:      m.RunID,
		Symbol:     m.Symbol,
		Period:     m.Period,
		Timestamp:  time.Unix(m.T, 0),
		Open:       m.O,
		High:       m.H,
		Low:        m.L,
		Close:      m.C,
		Price:      m.C,
		Volume:     m.V,
		Volatility: m.Vol,
		Momentum:   m.Mom,
		Regime:     models.MarketRegime(m.Regime),
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
