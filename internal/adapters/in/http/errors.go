package http

import (
	"errors"
	"fmt"
	"net/http"

	"freight/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorHandler renders every handler error as an Error body. Internal
// failures are logged and answered with a generic message.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, Error{Code: code, Message: message})
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	var requestErr *openapi3filter.RequestError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	case errors.As(err, &requestErr):
		return http.StatusBadRequest, requestErr.Error()
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrPreconditionFailed):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "operation failed"
	}
}
