package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/lotplan/integrity"
	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/tables"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage describes a failed request. Kind names the error class
// and Advice, when set, says how to fix the input.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Kind   string `json:"kind,omitempty"`
	Advice string `json:"advice,omitempty"`
}

// SolveResponse is the body of a successful POST /api/v1/solve. Tables is
// empty unless Status is "Optimal".
type SolveResponse struct {
	Status    string         `json:"status"`
	Objective *float64       `json:"objective,omitempty"`
	Tables    tables.DataSet `json:"tables"`
}

// CheckResponse is the body of POST /api/v1/check.
type CheckResponse struct {
	Clean  bool   `json:"clean"`
	Count  int    `json:"count"`
	Report string `json:"report"`
}

type handlers struct {
	log       logr.Logger
	timeLimit time.Duration
	opts      []planning.Option
}

func (h *handlers) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (h *handlers) solve(c echo.Context) error {
	ds, err := tables.ReadJSON(c.Request().Body)
	if err != nil {
		return badRequest("request body must be a JSON object of tables", err)
	}
	in, err := tables.Decode(ds)
	if err != nil {
		return badRequest("fix the reported cell, or run /api/v1/check for a full report", err)
	}

	ctx := c.Request().Context()
	if h.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeLimit)
		defer cancel()
	}

	sol, err := planning.Solve(ctx, in, h.opts...)
	switch {
	case err == nil:
	case planning.IsValidation(err):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrorResponse{Message: ErrorMessage{
			Reason: err.Error(),
			Kind:   planning.ErrorKind(err),
			Advice: "run /api/v1/check for a full report",
		}}).SetInternal(err)
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, ErrorResponse{Message: ErrorMessage{
			Reason: "solve exceeded the time limit",
			Advice: "retry with a larger solver.time_limit",
		}}).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Message: ErrorMessage{
			Reason: "unexpected error",
		}}).SetInternal(err)
	}

	resp := SolveResponse{Status: sol.Status.String(), Tables: tables.Encode(sol)}
	if sol.Optimal() {
		obj := sol.Objective
		resp.Objective = &obj
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) check(c echo.Context) error {
	ds, err := tables.ReadJSON(c.Request().Body)
	if err != nil {
		return badRequest("request body must be a JSON object of tables", err)
	}

	report := integrity.Check(ds, tables.Input())
	var text strings.Builder
	if _, err := report.WriteTo(&text); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CheckResponse{Clean: report.Clean(), Count: report.Count(), Report: text.String()})
}

func badRequest(advice string, err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: ErrorMessage{
		Reason: err.Error(),
		Advice: advice,
	}}).SetInternal(err)
}
