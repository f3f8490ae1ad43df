package http

import (
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
)

type errorBody struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// newErrorHandler renders every error as {"errorCode", "message"}.
// Wrapped causes are logged, never serialized; clients only see the
// stable code and a safe message.
func newErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := nethttp.StatusInternalServerError
		body := errorBody{ErrorCode: string(errorz.CodeInternalError), Message: "internal error"}

		if appErr, ok := errorz.As(err); ok {
			status = appErr.Status
			body.ErrorCode = string(appErr.Code)
			body.Message = appErr.Message
		} else {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
				body.ErrorCode = string(routerCode(httpErr.Code))
				body.Message = fmt.Sprint(httpErr.Message)
			}
		}

		if status >= nethttp.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == nethttp.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}

// routerCode maps statuses produced by echo itself (unknown routes,
// rate limiting, oversized bodies) onto the closed code set.
func routerCode(status int) errorz.Code {
	switch {
	case status == nethttp.StatusNotFound:
		return errorz.CodeNotFound
	case status >= nethttp.StatusBadRequest && status < nethttp.StatusInternalServerError:
		return errorz.CodeValidationError
	default:
		return errorz.CodeInternalError
	}
}
