package api

import (
    "time"

    models "github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
    domrepo "github.com/Offshore-Miner/Crypto-Dash/internal/domain/repository"
    "github.com/Offshore-Miner/Crypto-Dash/internal/service/metrics"
    "github.com/Offshore-Miner/Crypto-Dash/internal/service/ratelimit"
    "github.com/Offshore-Miner/Crypto-Dash/internal/usecase"
    xhttp "github.com/Offshore-Miner/Crypto-Dash/pkg/http"
    xlogger "github.com/Offshore-Miner/Crypto-Dash/pkg/logger"
    "github.com/Offshore-Miner/Crypto-Dash/pkg/util"

    "github.com/labstack/echo/v4"
)

// SimulationEchoHandler exposes the market path generator over HTTP.
type SimulationEchoHandler struct {
	logger *xlogger.Logger
	sim    *usecase.SimulationUseCase
	bars   *usecase.BarsUseCase
	rl     *ratelimit.Limiter
}

func NewSimulationEchoHandler(logger *xlogger.Logger, sim *usecase.SimulationUseCase, bars *usecase.BarsUseCase) *SimulationEchoHandler {
	metrics.Register()
	return &SimulationEchoHandler{logger: logger, sim: sim, bars: bars, rl: ratelimit.New()}
}

func (h *SimulationEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/simulate", h.Simulate)
	g.POST("/simulate/async", h.SimulateAsync)
	g.GET("/bars", h.Bars)
	g.GET("/runs/:id", h.Run)
	g.GET("/runs/:id/stats", h.RunStats)
	g.GET("/levels", h.Levels)
}

func simConfigFromRequest(req *models.SimulateRequest) models.SimulationConfig {
	boolOr := func(p *bool, def bool) bool {
		if p == nil {
			return def
		}
		return *p
	}
	return models.SimulationConfig{
		Symbol:              req.Symbol,
		Periods:             req.Periods,
		BasePrice:           req.BasePrice,
		BaseVolatility:      req.BaseVolatility,
		BaseTrend:           req.BaseTrend,
		Regime:              models.MarketRegime(req.Regime),
		WhaleActivity:       boolOr(req.Whales, true),
		LiquidationCascades: boolOr(req.Cascades, true),
		LevelFeedback:       boolOr(req.Levels, true),
		VolumeProfile:       boolOr(req.VolumeProfile, false),
		Seed:                req.Seed,
	}
}

func (h *SimulationEchoHandler) Simulate(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("simulate").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":simulate", 5, 1) {
		return xhttp.DataResponse(c, 429, map[string]string{"error": "rate limited"})
	}

	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.sim.Run(c.Request().Context(), simConfigFromRequest(req))
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("simulate").Inc()
		h.logger.Error("simulate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *SimulationEchoHandler) SimulateAsync(c echo.Context) error {
	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.sim.Enqueue(c.Request().Context(), simConfigFromRequest(req)); err != nil {
		metrics.EndpointErrors.WithLabelValues("simulate_async").Inc()
		h.logger.Error("simulate enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]string{"status": "queued"})
}

func (h *SimulationEchoHandler) Bars(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("bars").Observe(time.Since(start).Seconds()) }()

	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, map[string]string{"error": "symbol required"})
	}
	now := time.Now()
	from := util.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(c.QueryParam("to"), now)
	tf := domrepo.NormalizeTimeframe(c.QueryParam("tf"))

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:    symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("bars").Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *SimulationEchoHandler) Run(c echo.Context) error {
	bars, err := h.bars.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("run").Inc()
		h.logger.Error("run usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(bars) == 0 {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "run not found"})
	}
	return xhttp.SuccessResponse(c, bars)
}

func (h *SimulationEchoHandler) RunStats(c echo.Context) error {
	stats, ok := h.sim.RunStats(c.Param("id"))
	if !ok {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "run stats not found"})
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *SimulationEchoHandler) Levels(c echo.Context) error {
	result, ok := h.sim.LastRun()
	if !ok {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "no completed run"})
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"run_id": result.RunID,
		"levels": result.Levels,
	})
}
