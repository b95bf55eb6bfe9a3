package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "Internal server error"

// NewHTTPErrorHandler renders every error as {"error": msg}. Messages of 5xx errors are
// whatever generic text the handler chose; wrapped causes are only logged.
func NewHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	log = log.With(slog.String("component", "http_error"))
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := internalErrorMessage
		var cause error = err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
			cause = he.Internal
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", code),
				slog.Any("error", cause),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, ErrorResponse{Error: msg})
		}
		if writeErr != nil {
			log.Warn("write error response failed", slog.Any("error", writeErr))
		}
	}
}
