package handler

import "github.com/munitrack/casos-api/internal/core/domain"

type registerRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Rol      string `json:"rol"      validate:"required,oneof=superadmin admin user"`
}

// userResponse wraps the account in a "user" envelope. The password hash
// never appears: domain.User marks it json:"-" and the service blanks it.
type userResponse struct {
	User *domain.User `json:"user"`
}
