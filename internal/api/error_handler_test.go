package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/munitrack/casos-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/casos/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("handler must render the JSON envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"estado invalido", domain.ErrEstadoInvalido, http.StatusBadRequest},
		{"tipo archivo", domain.ErrTipoArchivo, http.StatusBadRequest},
		{"archivo grande", domain.ErrArchivoGrande, http.StatusBadRequest},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"secret", domain.ErrInvalidSecret, http.StatusUnauthorized},
		{"terminal", domain.ErrEstadoTerminal, http.StatusForbidden},
		{"caso not found", domain.ErrCasoNotFound, http.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"estado conflict", domain.ErrEstadoConflict, http.StatusConflict},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := render(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if msg == "" {
				t.Fatalf("message must not be empty")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("contexto"), domain.ErrCasoNotFound)
	code, _ := render(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("wrapped domain error must still map, got %d", code)
	}
}

func TestHTTPErrorHandler_BodyLimitBecomesBadRequest(t *testing.T) {
	code, msg := render(t, echo.ErrStatusRequestEntityTooLarge)
	if code != http.StatusBadRequest {
		t.Fatalf("413 from the body limit must map to 400, got %d", code)
	}
	if msg != domain.ErrArchivoGrande.Error() {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusBadRequest, "archivo is required"))
	if code != http.StatusBadRequest || msg != "archivo is required" {
		t.Fatalf("echo error must pass through, got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	code, msg := render(t, errors.New("mongo: broken pipe"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", msg)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.NoContent(http.StatusNoContent); err != nil {
		t.Fatalf("NoContent failed: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrCasoNotFound, c)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("committed response must not be rewritten, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("committed response must not get a body")
	}
}
