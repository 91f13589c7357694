package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegistrationTokens holds the role-registration tokens exposed to the
// frontend. The delivery and deletion passwords are deliberately not part
// of this payload.
type RegistrationTokens struct {
	Superadmin string `json:"superadmin"`
	Admin      string `json:"admin"`
	User       string `json:"user"`
}

// ConfigHandler serves the operational registration token map.
type ConfigHandler struct {
	tokens RegistrationTokens
}

func NewConfigHandler(tokens RegistrationTokens) *ConfigHandler {
	return &ConfigHandler{tokens: tokens}
}

// Tokens handles GET /api/config.
//
// @Summary      Expose the role-registration token map
// @Tags         config
// @Produce      json
// @Success      200  {object}  RegistrationTokens
// @Router       /api/config [get]
func (h *ConfigHandler) Tokens(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tokens)
}
