package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

func TestHTTPErrorHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("pay order: %w", domain.ErrOrderNotFound), http.StatusNotFound, "order not found"},
		{domain.ErrTeamNotFound, http.StatusNotFound, "team not found"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrOrderAlreadyPaid, http.StatusBadRequest, "order already paid"},
		{fmt.Errorf("%w: date", domain.ErrMissingParameter), http.StatusBadRequest, ""},
		{fmt.Errorf("%w: \"2024-02-30\"", domain.ErrInvalidDateFormat), http.StatusBadRequest, ""},
		{domain.ErrNoRecipient, http.StatusBadRequest, "order owner has no email"},
		{domain.ErrTeamExists, http.StatusBadRequest, "owner already has a team"},
		{domain.ErrRequestInProgress, http.StatusConflict, "a request with this idempotency key is still in progress"},
		{echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if tc.msg != "" && body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
			if body.Error == "" {
				t.Fatal("empty error message")
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrOrderNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
