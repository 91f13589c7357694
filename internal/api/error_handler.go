package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		// The body-limit middleware rejects with 413; an oversized upload is
		// a client error on this API, same as the intake-layer size check.
		if he.Code == http.StatusRequestEntityTooLarge {
			return http.StatusBadRequest, domain.ErrArchivoGrande.Error()
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Validation-class
	// errors echo their detail back for diagnostics; credential and secret
	// failures stay deliberately undifferentiated.
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEstadoInvalido),
		errors.Is(err, domain.ErrTipoArchivo),
		errors.Is(err, domain.ErrArchivoGrande):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "credenciales inválidas"
	case errors.Is(err, domain.ErrInvalidSecret):
		return http.StatusUnauthorized, "contraseña incorrecta"
	case errors.Is(err, domain.ErrEstadoTerminal):
		return http.StatusForbidden, "caso entregado: estado no modificable"
	case errors.Is(err, domain.ErrCasoNotFound):
		return http.StatusNotFound, "caso no encontrado"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "usuario no encontrado"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "usuario ya existe"
	case errors.Is(err, domain.ErrEstadoConflict):
		return http.StatusConflict, "el estado cambió concurrentemente, reintente"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "demasiados intentos, espere unos minutos"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
