package domain

import (
	"errors"
	"time"
)

const (
	RolSuperadmin = "superadmin"
	RolAdmin      = "admin"
	RolUser       = "user"
)

var ErrUserExists = errors.New("username already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")

// RolValido reports whether rol is one of the three account roles.
func RolValido(rol string) bool {
	return rol == RolSuperadmin || rol == RolAdmin || rol == RolUser
}

// User models a registered account. PasswordHash is never serialized to
// clients; services additionally blank it before returning a record.
type User struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Rol          string    `json:"rol"`
	CreatedAt    time.Time `json:"createdAt"`
}
