package handler

import (
	"fmt"
	"time"

	"github.com/munitrack/casos-api/internal/core/domain"
)

// fechaLayouts are the accepted formats for fechaCaso, tried in order.
var fechaLayouts = []string{"2006-01-02", time.RFC3339}

func toDatosCaso(req datosCasoRequest) (domain.DatosCaso, error) {
	fecha, err := parseFecha(req.FechaCaso)
	if err != nil {
		return domain.DatosCaso{}, err
	}

	return domain.DatosCaso{
		TipoObra:            req.TipoObra,
		Parroquia:           req.Parroquia,
		Circuito:            req.Circuito,
		Eje:                 req.Eje,
		CodigoEje:           req.CodigoEje,
		Comuna:              req.Comuna,
		NombreJefeComuna:    req.NombreJefeComuna,
		NombreEnlaceComunal: req.NombreEnlaceComunal,
		Link:                req.Link,
		Descripcion:         req.Descripcion,
		FechaCaso:           fecha,
	}, nil
}

func parseFecha(s string) (time.Time, error) {
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: fechaCaso %q", domain.ErrValidation, s)
}
