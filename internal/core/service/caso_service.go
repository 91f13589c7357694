package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/core/ports"
)

// Secrets carries the operational tokens gating delivery confirmation and
// deletion. They are shared operational passwords, not per-user credentials.
type Secrets struct {
	Entrega  string
	Eliminar string
}

// CasoService implements the caso lifecycle: creation, field replacement,
// status transitions with their modificación bookkeeping, actuaciones, and
// the password-gated delivery and deletion operations.
type CasoService struct {
	repo    ports.CasoRepository
	secrets Secrets
	log     zerolog.Logger
}

func NewCasoService(repo ports.CasoRepository, secrets Secrets, log zerolog.Logger) *CasoService {
	return &CasoService{repo: repo, secrets: secrets, log: log}
}

func (s *CasoService) Create(ctx context.Context, datos domain.DatosCaso, archivo string) (*domain.Caso, error) {
	if archivo == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	caso := &domain.Caso{
		DatosCaso:      datos,
		Archivo:        archivo,
		Estado:         domain.EstadoCargado,
		FechaEntrega:   nil,
		Actuaciones:    []domain.Actuacion{},
		Modificaciones: []domain.Modificacion{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	caso.FechaCaso = dateOnly(datos.FechaCaso)

	created, err := s.repo.Insert(ctx, caso)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert caso")
		return nil, err
	}

	s.log.Info().Str("caso_id", created.ID).Str("parroquia", created.Parroquia).Msg("caso created")
	return created, nil
}

func (s *CasoService) Get(ctx context.Context, id string) (*domain.Caso, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CasoService) List(ctx context.Context) ([]*domain.Caso, error) {
	return s.repo.FindAll(ctx)
}

// ReplaceDatos replaces the descriptive fields wholesale. Identifier
// overrides never reach this layer (DatosCaso carries no id). When usuario
// is non-empty, the per-field diff against the stored document is recorded
// in modificaciones within the same write.
func (s *CasoService) ReplaceDatos(ctx context.Context, id string, datos domain.DatosCaso, usuario string) (*domain.Caso, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	datos.FechaCaso = dateOnly(datos.FechaCaso)

	var mods []domain.Modificacion
	if usuario != "" {
		mods = diffDatos(existing.DatosCaso, datos, usuario)
	}

	updated, err := s.repo.ReplaceDatos(ctx, id, datos, mods)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("caso_id", id).Int("campos_cambiados", len(mods)).Msg("caso fields replaced")
	return updated, nil
}

// UpdateEstado transitions a caso through the ordinary status path.
// Entregado is rejected here outright; a caso already Entregado is terminal.
// The repository write is conditional on the estado observed in this call,
// so two racing transitions cannot both pass the terminal-state check and
// win.
func (s *CasoService) UpdateEstado(ctx context.Context, id string, nuevo domain.Estado, usuario string) (*domain.Caso, error) {
	if !nuevo.Asignable() {
		return nil, domain.ErrEstadoInvalido
	}

	caso, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caso.Estado.Terminal() {
		return nil, domain.ErrEstadoTerminal
	}

	mod := domain.Modificacion{
		Campo:        "estado",
		ValorAntiguo: string(caso.Estado),
		ValorNuevo:   string(nuevo),
		Fecha:        time.Now().UTC(),
		Usuario:      usuario,
	}

	updated, err := s.repo.UpdateEstado(ctx, id, caso.Estado, nuevo, mod)
	if err != nil {
		if errors.Is(err, domain.ErrEstadoConflict) {
			// Lost the race: re-read to report terminal vs plain conflict.
			current, readErr := s.repo.FindByID(ctx, id)
			if readErr == nil && current.Estado.Terminal() {
				return nil, domain.ErrEstadoTerminal
			}
		}
		return nil, err
	}

	s.log.Info().
		Str("caso_id", id).
		Str("de", mod.ValorAntiguo).
		Str("a", mod.ValorNuevo).
		Str("usuario", usuario).
		Msg("estado updated")

	return updated, nil
}

// ConfirmarEntrega marks the caso Entregado and stamps the delivery date
// (date-only precision). A wrong password fails before any read or write.
func (s *CasoService) ConfirmarEntrega(ctx context.Context, id, pass string) (*domain.Caso, error) {
	if !secretMatches(pass, s.secrets.Entrega) {
		return nil, domain.ErrInvalidSecret
	}

	caso, err := s.repo.MarkEntregado(ctx, id, dateOnly(time.Now().UTC()))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("caso_id", id).Msg("entrega confirmada")
	return caso, nil
}

// DeleteConPassword permanently removes the caso and returns its last
// snapshot. Gated by the deletion password.
func (s *CasoService) DeleteConPassword(ctx context.Context, id, pass string) (*domain.Caso, error) {
	if !secretMatches(pass, s.secrets.Eliminar) {
		return nil, domain.ErrInvalidSecret
	}

	caso, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("caso_id", id).Msg("caso deleted")
	return caso, nil
}

// AddActuacion appends a free-text note. Actuaciones are annotations, not
// transitions, so a terminal caso still accepts them.
func (s *CasoService) AddActuacion(ctx context.Context, id, texto, usuario string) (*domain.Caso, error) {
	if texto == "" {
		return nil, domain.ErrValidation
	}

	act := domain.Actuacion{
		Texto:   texto,
		Fecha:   time.Now().UTC(),
		Usuario: usuario,
	}

	caso, err := s.repo.PushActuacion(ctx, id, act)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("caso_id", id).Str("usuario", usuario).Msg("actuacion appended")
	return caso, nil
}

// secretMatches compares an operational token in constant time.
func secretMatches(supplied, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) == 1
}

// dateOnly truncates t to midnight UTC.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// diffDatos emits one modificación per descriptive field whose value
// changed between old and nuevo.
func diffDatos(old, nuevo domain.DatosCaso, usuario string) []domain.Modificacion {
	now := time.Now().UTC()
	var mods []domain.Modificacion

	add := func(campo, antiguo, actual string) {
		if antiguo == actual {
			return
		}
		mods = append(mods, domain.Modificacion{
			Campo:        campo,
			ValorAntiguo: antiguo,
			ValorNuevo:   actual,
			Fecha:        now,
			Usuario:      usuario,
		})
	}

	add("tipoObra", old.TipoObra, nuevo.TipoObra)
	add("parroquia", old.Parroquia, nuevo.Parroquia)
	add("circuito", old.Circuito, nuevo.Circuito)
	add("eje", old.Eje, nuevo.Eje)
	add("codigoEje", old.CodigoEje, nuevo.CodigoEje)
	add("comuna", old.Comuna, nuevo.Comuna)
	add("nombreJefeComuna", old.NombreJefeComuna, nuevo.NombreJefeComuna)
	add("nombreEnlaceComunal", old.NombreEnlaceComunal, nuevo.NombreEnlaceComunal)
	add("link", old.Link, nuevo.Link)
	add("descripcion", old.Descripcion, nuevo.Descripcion)
	if !old.FechaCaso.Equal(nuevo.FechaCaso) {
		mods = append(mods, domain.Modificacion{
			Campo:        "fechaCaso",
			ValorAntiguo: old.FechaCaso.Format("2006-01-02"),
			ValorNuevo:   nuevo.FechaCaso.Format("2006-01-02"),
			Fecha:        now,
			Usuario:      usuario,
		})
	}

	return mods
}
