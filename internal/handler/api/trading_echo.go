package api

import (
	"time"

	models "github.com/Offshore-Miner/Crypto-Dash/internal/domain/models"
	"github.com/Offshore-Miner/Crypto-Dash/internal/service/metrics"
	"github.com/Offshore-Miner/Crypto-Dash/internal/usecase"
	xhttp "github.com/Offshore-Miner/Crypto-Dash/pkg/http"
	xlogger "github.com/Offshore-Miner/Crypto-Dash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradingEchoHandler exposes the risk-gated trading session over HTTP.
type TradingEchoHandler struct {
	logger  *xlogger.Logger
	trading *usecase.TradingUseCase
}

func NewTradingEchoHandler(logger *xlogger.Logger, trading *usecase.TradingUseCase) *TradingEchoHandler {
	metrics.Register()
	return &TradingEchoHandler{logger: logger, trading: trading}
}

func (h *TradingEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/session/start", h.StartSession)
	g.POST("/session/stop", h.StopSession)
	g.GET("/session/stats", h.SessionStats)

	g.POST("/trades/validate", h.ValidateTrade)
	g.POST("/trades", h.OpenTrade)
	g.GET("/trades", h.OpenTrades)
	g.GET("/trades/history", h.History)
	g.PUT("/trades/:id/update", h.UpdateTrade)
	g.POST("/trades/:id/close", h.CloseTrade)

	g.GET("/analysis/:symbol", h.Analysis)
	g.POST("/position-size", h.PositionSize)
	g.GET("/risk/config", h.GetConfig)
	g.PUT("/risk/config", h.SetConfig)
}

func (h *TradingEchoHandler) StartSession(c echo.Context) error {
	req := &models.SessionStartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.trading.StartSession(c.Request().Context(), req.Balance)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":  "active",
		"balance": req.Balance,
	})
}

func (h *TradingEchoHandler) StopSession(c echo.Context) error {
	summary := h.trading.StopSession(c.Request().Context())
	return xhttp.SuccessResponse(c, summary)
}

func (h *TradingEchoHandler) SessionStats(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"stats":           h.trading.Stats(),
		"trading_enabled": h.trading.TradingEnabled(),
		"open_trades":     len(h.trading.OpenTrades()),
	})
}

func proposalFromRequest(req *models.TradeValidateRequest) models.TradeProposal {
	return models.TradeProposal{
		Market:           req.Market,
		Side:             models.TradeSide(req.Side),
		Amount:           req.Amount,
		Price:            req.Price,
		StopLoss:         req.StopLoss,
		TakeProfit:       req.TakeProfit,
		Analysis:         req.Analysis,
		MarketVolatility: req.MarketVolatility,
	}
}

func (h *TradingEchoHandler) ValidateTrade(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("trade_validate").Observe(time.Since(start).Seconds()) }()

	req := &models.TradeValidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	result := h.trading.Validate(c.Request().Context(), proposalFromRequest(req))
	return xhttp.SuccessResponse(c, result)
}

func (h *TradingEchoHandler) OpenTrade(c echo.Context) error {
	req := &models.TradeValidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trade, rejected, err := h.trading.Open(c.Request().Context(), proposalFromRequest(req))
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("trade_open").Inc()
		h.logger.Error("open trade error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if rejected != nil {
		return xhttp.BadRequestResponse(c, rejected)
	}
	return xhttp.CreatedResponse(c, trade)
}

func (h *TradingEchoHandler) OpenTrades(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.trading.OpenTrades())
}

func (h *TradingEchoHandler) History(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.trading.History())
}

func (h *TradingEchoHandler) UpdateTrade(c echo.Context) error {
	req := &models.TradeUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	update, ok := h.trading.Update(c.Request().Context(), c.Param("id"), req.Price)
	if !ok {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "trade not found"})
	}
	return xhttp.SuccessResponse(c, update)
}

func (h *TradingEchoHandler) CloseTrade(c echo.Context) error {
	req := &models.TradeUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	closed, ok := h.trading.CloseManual(c.Request().Context(), c.Param("id"), req.Price)
	if !ok {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "trade not found"})
	}
	return xhttp.SuccessResponse(c, closed)
}

func (h *TradingEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds()) }()

	a, score, err := h.trading.AnalysisFor(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if err == usecase.ErrAnalysisUnavailable {
			return xhttp.NotFoundResponse(c, map[string]string{"error": err.Error()})
		}
		metrics.EndpointErrors.WithLabelValues("analysis").Inc()
		h.logger.Error("fetch analysis error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"analysis": a,
		"score":    score,
	})
}

func (h *TradingEchoHandler) PositionSize(c echo.Context) error {
	req := &models.PositionSizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	size := h.trading.PositionSize(req.Balance, req.RiskPct, req.Price, req.StopLoss)
	return xhttp.SuccessResponse(c, map[string]float64{"size": size})
}

func (h *TradingEchoHandler) GetConfig(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.trading.Config())
}

func (h *TradingEchoHandler) SetConfig(c echo.Context) error {
	cfg := h.trading.Config()
	if err := c.Bind(&cfg); err != nil {
		return xhttp.BadRequestResponse(c, map[string]string{"error": "invalid body"})
	}
	if err := h.trading.SetConfig(cfg); err != nil {
		return xhttp.BadRequestResponse(c, map[string]string{"error": err.Error()})
	}
	return xhttp.SuccessResponse(c, cfg)
}
