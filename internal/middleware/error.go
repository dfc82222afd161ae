package middleware

import (
	"errors"
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
	TraceID string         `json:"trace_id,omitempty"`
}

// DetailedMessage can be used as an echo.HTTPError message to attach
// machine-readable details to the error body.
type DetailedMessage struct {
	Message string
	Details map[string]any
}

func NewDetailedError(code int, message string, details map[string]any) *echo.HTTPError {
	return echo.NewHTTPError(code, DetailedMessage{Message: message, Details: details})
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	code := http.StatusInternalServerError
	message := "internal server error"
	var details map[string]any

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case DetailedMessage:
			message = m.Message
			details = m.Details
		default:
			message = http.StatusText(he.Code)
		}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", code))

	var traceID string
	if span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	event := logging.Warn(ctx)
	if code >= http.StatusInternalServerError {
		event = logging.Error(ctx)
	}
	event.Err(err).Int("status", code).Msg("request error")

	response := ErrorResponse{
		Error:   message,
		Details: details,
		TraceID: traceID,
	}

	if err := c.JSON(code, response); err != nil {
		logging.Error(ctx).Err(err).Msg("failed to write error response")
	}
}
