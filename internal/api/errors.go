package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"amdashboard/internal/apperr"
	"amdashboard/internal/logger"
)

type HTTPError struct {
	Err     string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorStatusCode returns the HTTP status of an application error code.
func ErrorStatusCode(code string) int {
	var codes = map[string]int{
		apperr.EINVALID:     http.StatusBadRequest,
		apperr.ENOTFOUND:    http.StatusNotFound,
		apperr.EUPSTREAM:    http.StatusBadGateway,
		apperr.EEXPORT:      http.StatusInternalServerError,
		apperr.EUNAVAILABLE: http.StatusServiceUnavailable,
		apperr.EINTERNAL:    http.StatusInternalServerError,
	}

	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func WriteError(c echo.Context, err error) error {
	code := apperr.Code(err)
	status := ErrorStatusCode(code)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error().Err(err).Str("code", code).Str("uri", c.Request().RequestURI).Msg("request failed")
	}
	return c.JSON(status, &HTTPError{Err: code, Message: err.Error()})
}

// HTTPErrorHandler renders echo's own errors (unknown route, bad method) in
// the same envelope as application errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		_ = c.JSON(he.Code, &HTTPError{Err: http.StatusText(he.Code), Message: msg})
		return
	}
	_ = WriteError(c, err)
}
