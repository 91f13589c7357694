package ports

import (
	"context"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// CasoService defines the use-case operations on casos.
type CasoService interface {
	// Create persists a new caso in estado Cargado. The attachment must
	// already have been materialized; archivo is its stored reference.
	Create(ctx context.Context, datos domain.DatosCaso, archivo string) (*domain.Caso, error)
	Get(ctx context.Context, id string) (*domain.Caso, error)
	List(ctx context.Context) ([]*domain.Caso, error)

	// ReplaceDatos replaces the descriptive fields wholesale. When usuario is
	// non-empty, one modificación is recorded per field whose value changed.
	ReplaceDatos(ctx context.Context, id string, datos domain.DatosCaso, usuario string) (*domain.Caso, error)

	// UpdateEstado transitions the caso through the ordinary status path.
	// Entregado is not assignable here, and a caso already in Entregado is
	// terminal. Each successful call appends exactly one modificación.
	UpdateEstado(ctx context.Context, id string, nuevo domain.Estado, usuario string) (*domain.Caso, error)

	// ConfirmarEntrega marks the caso Entregado, gated by the delivery
	// password. A wrong password never mutates the caso.
	ConfirmarEntrega(ctx context.Context, id, pass string) (*domain.Caso, error)

	// DeleteConPassword permanently removes the caso, gated by the deletion
	// password, and returns its last snapshot.
	DeleteConPassword(ctx context.Context, id, pass string) (*domain.Caso, error)

	AddActuacion(ctx context.Context, id, texto, usuario string) (*domain.Caso, error)
}
