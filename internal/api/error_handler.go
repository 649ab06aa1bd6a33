package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinel errors to HTTP codes. The first match wins.
var domainStatus = []struct {
	target error
	code   int
}{
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrTeamNotFound, http.StatusNotFound},
	{domain.ErrPriceTableNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidDateFormat, http.StatusBadRequest},
	{domain.ErrMissingParameter, http.StatusBadRequest},
	{domain.ErrInvalidStatus, http.StatusBadRequest},
	{domain.ErrInvalidUserStatus, http.StatusBadRequest},
	{domain.ErrOrderAlreadyPaid, http.StatusBadRequest},
	{domain.ErrNoRecipient, http.StatusBadRequest},
	{domain.ErrTeamExists, http.StatusBadRequest},
	{domain.ErrRequestInProgress, http.StatusConflict},
}

// NewHTTPErrorHandler renders every handler error as {"error": "..."}.
// Echo errors keep their code; domain errors use domainStatus; anything else
// is logged and hidden behind a 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusOf(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	for _, m := range domainStatus {
		if !errors.Is(err, m.target) {
			continue
		}
		switch m.code {
		case http.StatusNotFound, http.StatusForbidden:
			// "pay order: order not found" is reported as "order not found".
			return m.code, rootMessage(err)
		default:
			return m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func rootMessage(err error) string {
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(err) {
		err = next
	}
	return err.Error()
}
