package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/munitrack/casos-api/internal/core/domain"
)

type stubUserService struct {
	users map[string]*domain.User
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: make(map[string]*domain.User)}
}

func (s *stubUserService) Register(_ context.Context, nombre, username, pass, rol string) (*domain.User, error) {
	if _, exists := s.users[username]; exists {
		return nil, domain.ErrUserExists
	}
	u := &domain.User{ID: "u1", Nombre: nombre, Username: username, PasswordHash: "hash-" + pass, Rol: rol}
	s.users[username] = u
	clone := *u
	clone.PasswordHash = ""
	return &clone, nil
}

func (s *stubUserService) Login(_ context.Context, username, pass string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok || u.PasswordHash != "hash-"+pass {
		return nil, domain.ErrInvalidCredentials
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone, nil
}

func (s *stubUserService) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone, nil
}

func (s *stubUserService) ListAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		clone.PasswordHash = ""
		out = append(out, &clone)
	}
	return out, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService())

	c, rec := jsonContext(e, http.MethodPost, "/users",
		`{"nombre":"Ana Pérez","username":"ana","password":"clave123","rol":"user"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	var user map[string]any
	if err := json.Unmarshal(body["user"], &user); err != nil {
		t.Fatalf("missing user envelope: %v", err)
	}
	if user["username"] != "ana" {
		t.Fatalf("unexpected username: %v", user["username"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("response must not carry a password field")
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("response must not carry the hash")
	}
}

func TestUserHandler_Register_InvalidRol(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService())

	c, _ := jsonContext(e, http.MethodPost, "/users",
		`{"nombre":"Ana","username":"ana","password":"p","rol":"gerente"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService()
	h := NewUserHandler(svc)

	c, _ := jsonContext(e, http.MethodPost, "/users",
		`{"nombre":"Ana","username":"ana","password":"p","rol":"user"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	c, _ = jsonContext(e, http.MethodPost, "/users",
		`{"nombre":"Ana","username":"ana","password":"p","rol":"user"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Query_Login(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService()
	h := NewUserHandler(svc)

	_, _ = svc.Register(context.Background(), "Ana", "ana", "clave", domain.RolAdmin)

	req := httptest.NewRequest(http.MethodGet, "/users?username=ana&password=clave", nil)
	rec := httptest.NewRecorder()
	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if user["rol"] != "admin" {
		t.Fatalf("unexpected rol: %v", user["rol"])
	}
}

func TestUserHandler_Query_LoginFailure(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService())

	req := httptest.NewRequest(http.MethodGet, "/users?username=ana&password=mala", nil)
	rec := httptest.NewRecorder()
	if err := h.Query(e.NewContext(req, rec)); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserHandler_Query_LookupUnknownIsNull(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService())

	req := httptest.NewRequest(http.MethodGet, "/users?username=fantasma", nil)
	rec := httptest.NewRecorder()
	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Fatalf("expected null body, got %q", body)
	}
}

func TestUserHandler_Query_List(t *testing.T) {
	e := newTestEcho()
	svc := newStubUserService()
	h := NewUserHandler(svc)

	_, _ = svc.Register(context.Background(), "Ana", "ana", "p", domain.RolUser)
	_, _ = svc.Register(context.Background(), "Beto", "beto", "p", domain.RolAdmin)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
