package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/FilipeAphrody/loggate/internal/logquery"
	"github.com/FilipeAphrody/loggate/pkg/security"
)

// LogsHandler serves the log query endpoint. The engine itself performs no
// authentication; the route is guarded by the bearer-token middleware.
type LogsHandler struct {
	engine *logquery.Engine
}

// NewLogsHandler registers the log query route to the provided echo group.
func NewLogsHandler(e *echo.Group, engine *logquery.Engine, codec *security.TokenCodec) {
	handler := &LogsHandler{engine: engine}

	e.GET("/logs/", handler.GetLogs, JWTMiddleware(codec))
}

// GetLogs validates the query parameters, runs the query and returns the
// parsed entries as a JSON array.
func (h *LogsHandler) GetLogs(c echo.Context) error {
	q := logquery.Query{
		LogFile: c.QueryParam("log_file"),
		Amount:  logquery.DefaultAmount,
		Message: c.QueryParam("message"),
		Order:   logquery.DefaultOrder,
		Level:   logquery.DefaultLevel,
	}

	if q.LogFile == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "log_file is required."})
	}

	if raw := c.QueryParam("amount"); raw != "" {
		amount, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be an integer."})
		}
		if amount <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than 0."})
		}
		q.Amount = amount
	}

	if raw := c.QueryParam("order"); raw != "" {
		order, err := logquery.ParseOrder(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		q.Order = order
	}

	if raw := c.QueryParam("level"); raw != "" {
		level, err := logquery.ParseLevel(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		q.Level = level
	}

	entries, err := h.engine.Logs(q)
	if err != nil {
		// Engine failures, including a missing file and malformed lines in
		// the result window, surface as processing errors.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, entries)
}
