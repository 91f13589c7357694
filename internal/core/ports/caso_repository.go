package ports

import (
	"context"
	"time"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// CasoRepository defines persistence operations for casos. All methods that
// take an id return domain.ErrInvalidID when it is not a well-formed
// identifier for the backing store and domain.ErrCasoNotFound when no
// document matches.
type CasoRepository interface {
	Insert(ctx context.Context, c *domain.Caso) (*domain.Caso, error)
	FindByID(ctx context.Context, id string) (*domain.Caso, error)
	FindAll(ctx context.Context) ([]*domain.Caso, error)

	// ReplaceDatos overwrites the descriptive fields and appends mods to the
	// modificaciones log in a single document write.
	ReplaceDatos(ctx context.Context, id string, datos domain.DatosCaso, mods []domain.Modificacion) (*domain.Caso, error)

	// UpdateEstado sets the estado and appends mod in one atomic write,
	// conditional on the stored estado still being from. When the document
	// exists but the condition no longer holds, domain.ErrEstadoConflict is
	// returned and nothing is written.
	UpdateEstado(ctx context.Context, id string, from, to domain.Estado, mod domain.Modificacion) (*domain.Caso, error)

	// MarkEntregado sets estado to Entregado and records the delivery date.
	MarkEntregado(ctx context.Context, id string, fecha time.Time) (*domain.Caso, error)

	PushActuacion(ctx context.Context, id string, act domain.Actuacion) (*domain.Caso, error)

	// Delete removes the document and returns its last snapshot.
	Delete(ctx context.Context, id string) (*domain.Caso, error)
}
