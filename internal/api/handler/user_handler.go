package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/munitrack/casos-api/internal/api/metrics"
	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/core/ports"
)

// UserHandler handles account registration and the overloaded /users query
// endpoint (login, profile lookup, full listing).
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Register(c.Request().Context(), req.Nombre, req.Username, req.Password, req.Rol)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Query handles GET /users. With username and password it is a login; with
// only username it is an existence lookup returning the profile or null;
// with neither it lists every account.
//
// @Summary      Login, look up, or list users
// @Tags         users
// @Produce      json
// @Param        username  query     string  false  "Username to log in or look up"
// @Param        password  query     string  false  "Password (login only)"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      429       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) Query(c echo.Context) error {
	username := c.QueryParam("username")
	pass := c.QueryParam("password")
	ctx := c.Request().Context()

	switch {
	case username != "" && pass != "":
		user, err := h.service.Login(ctx, username, pass)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				metrics.LoginFailuresTotal.Inc()
			}
			return err
		}
		return c.JSON(http.StatusOK, user)

	case username != "":
		user, err := h.service.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		// user is nil for unknown usernames; the client receives "null".
		return c.JSON(http.StatusOK, user)

	default:
		users, err := h.service.ListAll(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, users)
	}
}
