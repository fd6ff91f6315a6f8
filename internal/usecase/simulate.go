package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	drepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
	"github.com/Offshore-Miner/Crypto-Dash/internal/service/cache"
	"github.com/Offshore-Miner/Crypto-Dash/internal/services/sim"
	"github.com/Offshore-Miner/Crypto-Dash/pkg/logger"
	"github.com/Offshore-Miner/Crypto-Dash/pkg/queue"
)

// SimulationJobType is the queue message type for async runs.
const SimulationJobType = "simulation_run"

const runStatsTTL = 15 * time.Minute

// SimulationUseCase generates synthetic market paths and fans the bars out
// to storage and messaging backends.
type SimulationUseCase struct {
	proc    *BarProcessor
	metrics drepo.Metrics
	cache   cache.BytesCache
	jobs    queue.QueueService
	l       *logger.Logger

	mu      sync.RWMutex
	lastRun *SimulationResult
}

func NewSimulationUseCase(
	proc *BarProcessor,
	metrics drepo.Metrics,
	bytesCache cache.BytesCache,
	jobs queue.QueueService,
	l *logger.Logger,
) *SimulationUseCase {
	return &SimulationUseCase{proc: proc, metrics: metrics, cache: bytesCache, jobs: jobs, l: l}
}

// SimulationResult is the full outcome of one generator run.
type SimulationResult struct {
	RunID       string              `json:"run_id"`
	Config      models.SimulationConfig `json:"config"`
	Bars        []models.PriceBar   `json:"bars"`
	Levels      []models.PriceLevel `json:"levels,omitempty"`
	Stats       sim.RunStats        `json:"stats"`
	GuardClamps int                 `json:"guard_clamps"`
}

// Run executes a simulation synchronously, dispatches the bars to the
// configured backend and caches the run stats.
func (uc *SimulationUseCase) Run(ctx context.Context, cfg models.SimulationConfig) (*SimulationResult, error) {
	start := time.Now()

	gen, err := sim.NewGenerator(cfg)
	if err != nil {
		uc.metrics.RecordError("simulate_config")
		return nil, err
	}

	runID := uuid.NewString()
	bars := gen.Run()

	refs := make([]*models.PriceBar, len(bars))
	for i := range bars {
		bars[i].RunID = runID
		refs[i] = &bars[i]
		uc.metrics.RecordBarGenerated(cfg.Symbol, string(cfg.Regime))
		for _, ev := range bars[i].Shocks {
			uc.metrics.RecordShock(string(ev.Kind))
		}
	}
	for i := 0; i < gen.GuardClamps(); i++ {
		uc.metrics.RecordGuardClamp()
	}
	if len(bars) > 0 {
		uc.metrics.RecordLastPrice(cfg.Symbol, bars[len(bars)-1].Close)
	}

	if err := uc.proc.ProcessBatch(ctx, refs); err != nil {
		return nil, fmt.Errorf("dispatch run %s: %w", runID, err)
	}

	result := &SimulationResult{
		RunID:       runID,
		Config:      cfg,
		Bars:        bars,
		Levels:      gen.Levels(),
		Stats:       sim.Summarize(bars),
		GuardClamps: gen.GuardClamps(),
	}
	uc.cacheStats(runID, result)

	uc.mu.Lock()
	uc.lastRun = result
	uc.mu.Unlock()

	uc.metrics.RecordLatency("simulate_run", time.Since(start).Seconds())
	uc.l.Info("simulation run complete",
		logger.String("run_id", runID),
		logger.String("symbol", cfg.Symbol),
		logger.String("regime", string(cfg.Regime)),
		logger.Int("bars", len(bars)),
		logger.Int("guard_clamps", result.GuardClamps),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return result, nil
}

// Enqueue hands the run to the job queue and returns immediately.
func (uc *SimulationUseCase) Enqueue(ctx context.Context, cfg models.SimulationConfig) error {
	if uc.jobs == nil {
		return fmt.Errorf("job queue not configured")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return uc.jobs.PublishMessage(ctx, SimulationJobType, cfg)
}

// RunStats read back the cached stats for a finished run, if still present.
func (uc *SimulationUseCase) RunStats(runID string) (*sim.RunStats, bool) {
	if uc.cache == nil {
		return nil, false
	}
	b, ok, err := uc.cache.GetBytes(statsKey(runID))
	if err != nil || !ok {
		return nil, false
	}
	var stats sim.RunStats
	if err := json.Unmarshal(b, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (uc *SimulationUseCase) cacheStats(runID string, result *SimulationResult) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(result.Stats)
	if err != nil {
		return
	}
	if err := uc.cache.SetBytes(statsKey(runID), b, runStatsTTL); err != nil {
		uc.l.Warn("cache run stats failed",
			logger.String("run_id", runID),
			logger.Error(err),
		)
	}
}

func statsKey(runID string) string { return "sim:stats:" + runID }

// LastRun returns the most recent synchronous run, if any.
func (uc *SimulationUseCase) LastRun() (*SimulationResult, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.lastRun == nil {
		return nil, false
	}
	return uc.lastRun, true
}

// SimulationJob consumes queued simulation runs.
type SimulationJob struct {
	uc *SimulationUseCase
	l  *logger.Logger
}

func NewSimulationJob(uc *SimulationUseCase, l *logger.Logger) *SimulationJob {
	return &SimulationJob{uc: uc, l: l}
}

func (j *SimulationJob) Name() string { return "simulation-runner" }
func (j *SimulationJob) Type() string { return SimulationJobType }

func (j *SimulationJob) Handle(ctx context.Context, payload interface{}) error {
	cfg, err := queue.ParsePayload[models.SimulationConfig](payload)
	if err != nil {
		return fmt.Errorf("parse simulation payload: %w", err)
	}
	result, err := j.uc.Run(ctx, *cfg)
	if err != nil {
		return err
	}
	j.l.Info("queued simulation complete",
		logger.String("run_id", result.RunID),
		logger.String("symbol", cfg.Symbol),
		logger.Int("bars", len(result.Bars)),
	)
	return nil
}

var _ queue.Job = (*SimulationJob)(nil)
