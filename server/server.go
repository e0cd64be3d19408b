// Package server exposes planning over HTTP.
//
//	POST /api/v1/solve   input DataSet (JSON) → status, objective, output DataSet
//	POST /api/v1/check   input DataSet (JSON) → integrity report
//	GET  /healthz        liveness
//	GET  /metrics        Prometheus exposition
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/lotplan/config"
	"github.com/katalvlaran/lotplan/logging"
	"github.com/katalvlaran/lotplan/metrics"
	"github.com/katalvlaran/lotplan/planning"
)

const (
	APIRoot = "/api/v1"

	// DefaultGracefulPeriod bounds Run's shutdown.
	DefaultGracefulPeriod = 10 * time.Second

	maxBodyBytes = "8M"
)

// BuildServer wires routes, middleware and telemetry. reg receives the
// planning collectors and backs /metrics.
func BuildServer(cfg config.Config, log logr.Logger, reg *prometheus.Registry) (*echo.Echo, error) {
	rec, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	h := &handlers{
		log:       log.WithName("server"),
		timeLimit: cfg.Solver.TimeLimit,
		opts: append(cfg.PlanningOptions(),
			planning.WithLogger(log),
			planning.WithRecorder(rec),
		),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		h.log.V(logging.DEBUG).Info("request failed", "path", c.Request().URL.Path, "error", err.Error())
	}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(logRequests(h.log))

	e.POST(APIRoot+"/solve", h.solve)
	e.POST(APIRoot+"/check", h.check)
	e.GET("/healthz", h.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	return e, nil
}

// logRequests logs one line per request with its latency.
func logRequests(log logr.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)
			log.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"elapsed", time.Since(begin),
			)

			return err
		}
	}
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func Run(ctx context.Context, e *echo.Echo, addr string, log logr.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultGracefulPeriod)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Close()

		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("stopped")

	return nil
}
