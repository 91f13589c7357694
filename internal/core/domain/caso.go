package domain

import (
	"errors"
	"time"
)

// Estado represents the lifecycle state of a caso.
type Estado string

const (
	EstadoCargado      Estado = "Cargado"
	EstadoSupervisado  Estado = "Supervisado"
	EstadoEnDesarrollo Estado = "En Desarrollo"
	EstadoEntregado    Estado = "Entregado"
)

// estadosAsignables are the states the generic status-update path may set.
// Entregado is reachable only through the password-gated delivery confirmation.
var estadosAsignables = map[Estado]struct{}{
	EstadoCargado:      {},
	EstadoSupervisado:  {},
	EstadoEnDesarrollo: {},
}

var ErrCasoNotFound = errors.New("caso not found")
var ErrInvalidID = errors.New("invalid caso id")
var ErrEstadoInvalido = errors.New("estado not assignable")
var ErrEstadoTerminal = errors.New("caso already delivered")
var ErrEstadoConflict = errors.New("estado changed concurrently")
var ErrInvalidSecret = errors.New("incorrect operational password")
var ErrValidation = errors.New("invalid input")
var ErrTipoArchivo = errors.New("attachment must be a PDF")
var ErrArchivoGrande = errors.New("attachment exceeds size limit")

// Asignable reports whether the estado may be set through the ordinary
// status-update operation.
func (e Estado) Asignable() bool {
	_, ok := estadosAsignables[e]
	return ok
}

// Terminal reports whether the estado admits no further transitions.
func (e Estado) Terminal() bool {
	return e == EstadoEntregado
}

// Actuacion is a free-text, timestamped, attributed note appended to a
// caso's history. Entries are append-only.
type Actuacion struct {
	Texto   string    `json:"texto"`
	Fecha   time.Time `json:"fecha"`
	Usuario string    `json:"usuario"`
}

// Modificacion records a single field's old/new value change. Entries are
// append-only.
type Modificacion struct {
	Campo        string    `json:"campo"`
	ValorAntiguo string    `json:"valorAntiguo"`
	ValorNuevo   string    `json:"valorNuevo"`
	Fecha        time.Time `json:"fecha"`
	Usuario      string    `json:"usuario"`
}

// DatosCaso groups the descriptive fields shared by creation and
// full-field replacement.
type DatosCaso struct {
	TipoObra            string    `json:"tipoObra"`
	Parroquia           string    `json:"parroquia"`
	Circuito            string    `json:"circuito"`
	Eje                 string    `json:"eje"`
	CodigoEje           string    `json:"codigoEje"`
	Comuna              string    `json:"comuna"`
	NombreJefeComuna    string    `json:"nombreJefeComuna"`
	NombreEnlaceComunal string    `json:"nombreEnlaceComunal"`
	Link                string    `json:"link"`
	Descripcion         string    `json:"descripcion"`
	FechaCaso           time.Time `json:"fechaCaso"`
}

// Caso is the core aggregate root: a public-works record tracked through a
// delivery lifecycle, with its audit trails embedded in the same document.
type Caso struct {
	ID string `json:"id"`
	DatosCaso
	Archivo        string         `json:"archivo"`
	Estado         Estado         `json:"estado"`
	FechaEntrega   *time.Time     `json:"fechaEntrega"`
	Actuaciones    []Actuacion    `json:"actuaciones"`
	Modificaciones []Modificacion `json:"modificaciones"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
