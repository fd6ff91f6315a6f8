package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	xhttp "github.com/Offshore-Miner/Crypto-Dash/pkg/http"
)

// Router composes the dashboard handlers into one route registrar.
type Router struct {
	sim     *SimulationEchoHandler
	trading *TradingEchoHandler
	health  func(ctx context.Context) error
}

func NewRouter(sim *SimulationEchoHandler, trading *TradingEchoHandler) *Router {
	return &Router{sim: sim, trading: trading}
}

// SetHealthCheck wires an infrastructure health probe into /healthz.
func (r *Router) SetHealthCheck(fn func(ctx context.Context) error) { r.health = fn }

func (r *Router) RegisterRoutes(e *echo.Echo) {
	if r.sim != nil {
		r.sim.RegisterRoutes(e)
	}
	if r.trading != nil {
		r.trading.RegisterRoutes(e)
	}
	e.GET("/healthz", r.Healthz)
}

func (r *Router) Healthz(c echo.Context) error {
	if r.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := r.health(ctx); err != nil {
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

var _ xhttp.Handler = (*Router)(nil)
