package di

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
    "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
    dservice "github.com/Offshore-Miner/Crypto-Dash/internal/domain/service"
    "github.com/Offshore-Miner/Crypto-Dash/internal/handler/api"
    mid "github.com/Offshore-Miner/Crypto-Dash/internal/middleware"
    internalrepo "github.com/Offshore-Miner/Crypto-Dash/internal/repository"
    icache "github.com/Offshore-Miner/Crypto-Dash/internal/service/cache"
    "github.com/Offshore-Miner/Crypto-Dash/internal/service/exchange"
    "github.com/Offshore-Miner/Crypto-Dash/internal/services/analysis"
    "github.com/Offshore-Miner/Crypto-Dash/internal/services/risk"
    "github.com/Offshore-Miner/Crypto-Dash/internal/usecase"
    pkgch "github.com/Offshore-Miner/Crypto-Dash/pkg/clickhouse"
    "github.com/Offshore-Miner/Crypto-Dash/pkg/config"
    pkgkafka "github.com/Offshore-Miner/Crypto-Dash/pkg/kafka"
    applogger "github.com/Offshore-Miner/Crypto-Dash/pkg/logger"
    "github.com/Offshore-Miner/Crypto-Dash/pkg/metrics"
    "github.com/Offshore-Miner/Crypto-Dash/pkg/queue"
    "github.com/Offshore-Miner/Crypto-Dash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const barSchema = " (run_id String, symbol String, period UInt32, ts DateTime, " +
		"open Float64, high Float64, low Float64, close Float64, volume Float64, " +
		"volatility Float64, momentum Float64, regime String, shock_count UInt32) " +
		"ENGINE=MergeTree ORDER BY (run_id, period)"
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS cryptodash",
		"CREATE TABLE IF NOT EXISTS cryptodash.sim_bars" + barSchema,
		"CREATE TABLE IF NOT EXISTS cryptodash.sim_bars_1m" + barSchema,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates ClickHouse bar storage repository.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) repository.BarStore {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = cfg.ClickHouse.Database + ".sim_bars"
	}
	return internalrepo.NewClickHouseBarStore(chClient.DB(), table)
}

// ProvideBarReader creates the read-side ClickHouse repository.
func ProvideBarReader(chClient *pkgch.Client, l *applogger.Logger) repository.BarReader {
	reader := internalrepo.NewCHBarReader(chClient)
	reader.SetLogger(l)
	return reader
}

// ProvideBarPublisher creates Kafka publisher repository.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	eventTopic := cfg.Kafka.EventTopic
	if eventTopic == "" {
		eventTopic = cfg.Kafka.Topic + ".events"
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, eventTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers handler for the bars topic.
func ProvideKafkaBarsHandler(store repository.BarStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideTickStream creates the exchange WebSocket stream.
func ProvideTickStream(cfg *config.Config) repository.TickStream {
	return exchange.New(
		cfg.Exchange.APIKey,
		cfg.Exchange.WebSocketURL,
		cfg.Exchange.Symbols,
		cfg.Exchange.ReconnectDelay,
		cfg.Exchange.PingInterval,
	)
}

// ProvideRiskController creates the risk manager from configured limits.
// A zero-value risk section falls back to the stock limits.
func ProvideRiskController(cfg *config.Config) (dservice.RiskController, error) {
	rc := models.RiskConfig{
		MaxTradingValue:     cfg.Risk.MaxTradingValue,
		MaxSingleTradeValue: cfg.Risk.MaxSingleTradeValue,
		MaxDailyLoss:        cfg.Risk.MaxDailyLoss,
		StopLossPct:         cfg.Risk.StopLossPct,
		TakeProfitPct:       cfg.Risk.TakeProfitPct,
		RiskRewardRatio:     cfg.Risk.RiskRewardRatio,
		MaxOpenTrades:       cfg.Risk.MaxOpenTrades,
		VolatilityThreshold: cfg.Risk.VolatilityThreshold,
		MinAnalysisScore:    cfg.Risk.MinAnalysisScore,
	}
	if rc == (models.RiskConfig{}) {
		rc = models.DefaultRiskConfig()
	}
	return risk.NewManager(rc)
}

// ProvideBytesCache selects Redis or in-process cache per config.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideJobQueue creates the Redis-backed simulation job queue.
// Returns nil when Redis is disabled; async runs then fall back to inline.
func ProvideJobQueue(cfg *config.Config, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Redis.Enabled {
		return nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return queue.NewRedisQueue(l,
		&queue.QueueConfig{
			Workers:    cfg.Redis.Queue.Workers,
			QueueSize:  cfg.Redis.Queue.QueueSize,
			RetryLimit: cfg.Redis.Queue.RetryLimit,
			RetryDelay: cfg.Redis.Queue.RetryDelay,
		},
		rc,
		queue.ModeProducerConsumer,
		queue.WithKeyPrefix("cryptodash:queue"),
	)
}

// ProvideBarProcessor creates the bar processor use case.
func ProvideBarProcessor(
	pub repository.Publisher,
	store repository.BarStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideSimulationUseCase creates the core simulation use case.
func ProvideSimulationUseCase(
	proc *usecase.BarProcessor,
	metrics repository.Metrics,
	bytesCache icache.BytesCache,
	jobQueue *queue.RedisQueue,
	l *applogger.Logger,
) *usecase.SimulationUseCase {
	var jobs queue.QueueService
	if jobQueue != nil {
		jobs = jobQueue
	}
	return usecase.NewSimulationUseCase(proc, metrics, bytesCache, jobs, l)
}

// ProvideBarsUseCase creates the bar retrieval use case.
func ProvideBarsUseCase(reader repository.BarReader) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(reader)
}

// ProvideTradingUseCase creates the trading use case. External signal
// enrichment is wired only when the analysis section is enabled.
func ProvideTradingUseCase(
	riskCtl dservice.RiskController,
	pub repository.Publisher,
	metrics repository.Metrics,
	l *applogger.Logger,
	reader repository.BarReader,
	cfg *config.Config,
) *usecase.TradingUseCase {
	uc := usecase.NewTradingUseCase(riskCtl, pub, metrics, l)
	if cfg.Analysis.Enabled {
		provider := analysis.NewHTTPProvider(cfg.Analysis.BaseURL, cfg.Analysis.Timeout)
		uc.SetAnalysis(risk.NewScorer(), provider, reader)
	}
	return uc
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
    stream repository.TickStream,
    trading *usecase.TradingUseCase,
    metrics repository.Metrics,
) *usecase.TickCollector {
    // Build middleware pipeline between WebSocket and the risk engine
    pipe := mid.NewRealtimePipeline(trading, metrics,
        mid.WithMaxRPS(50),
        mid.WithBufferSize(2000),
    )
    return usecase.NewTickCollector(stream, trading, metrics, pipe)
}

// ProvideSimulationJob creates the queued-run worker job.
func ProvideSimulationJob(sim *usecase.SimulationUseCase, l *applogger.Logger) *usecase.SimulationJob {
	return usecase.NewSimulationJob(sim, l)
}

// ProvideRouter composes the HTTP handlers.
func ProvideRouter(
	l *applogger.Logger,
	sim *usecase.SimulationUseCase,
	bars *usecase.BarsUseCase,
	trading *usecase.TradingUseCase,
	chClient *pkgch.Client,
) *api.Router {
	router := api.NewRouter(
		api.NewSimulationEchoHandler(l, sim, bars),
		api.NewTradingEchoHandler(l, trading),
	)
	if chClient != nil {
		router.SetHealthCheck(chClient.Health)
	}
	return router
}

// ProvideApp creates the application server.
func ProvideApp(
    cfg *config.Config,
    collector *usecase.TickCollector,
    consumer *pkgkafka.Consumer,
    kh *usecase.KafkaBarsHandler,
    chClient *pkgch.Client,
    router *api.Router,
    jobQueue *queue.RedisQueue,
    simJob *usecase.SimulationJob,
    trading *usecase.TradingUseCase,
    proc *usecase.BarProcessor,
) *server.App {
    if consumer != nil {
        consumer.WithConsumerHook(pkgkafka.NoopHook{})
    }
    app := server.New(cfg, collector, consumer, kh, chClient)
    app.SetHTTPHandler(router)
    app.SetTrading(trading)
    app.BarProc = proc
    if jobQueue != nil {
        jobQueue.RegisterJob(simJob)
        app.SetJobQueue(jobQueue)
    }
    return app
}
