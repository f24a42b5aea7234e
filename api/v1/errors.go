package v1

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"go.uber.org/zap"
)

const INVALID_REQUEST = "invalid request"

// maxQueryInt keeps page * page size well inside int range.
const maxQueryInt = math.MaxInt32 / 100

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidID      = errors.New("invalid_id")
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// HTTPErrorHandler renders every error as {"error", "reason"}. Server-side
// failures are logged and never leak their cause.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := http.StatusInternalServerError, errorResponse{Error: "internal server error", Reason: "internal_error"}
		var appErr *apperrors.AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			body.Reason = appErr.Reason()
			if code < http.StatusInternalServerError {
				body.Error = appErr.Message
			}
		case errors.As(err, &httpErr):
			code = httpErr.Code
			body.Reason = apperrors.NewAppError(code, "", nil).Reason()
			if code < http.StatusInternalServerError {
				body.Error = fmt.Sprint(httpErr.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Warn("error writing error response", zap.Error(err))
		}
	}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewAppError(http.StatusBadRequest, "invalid "+name, ErrInvalidID)
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && raw[0] != '-' {
		return maxQueryInt, nil
	}
	if err != nil || n < 1 {
		return 0, apperrors.NewAppError(http.StatusBadRequest, "invalid "+name, ErrInvalidRequest)
	}
	return min(n, maxQueryInt), nil
}
