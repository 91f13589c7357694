package handler

// errorResponse documents the error envelope rendered by the central HTTP
// error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// datosCasoRequest carries the descriptive caso fields. It is bound from
// JSON on PATCH and from multipart form fields on POST /casos, hence the
// dual tags. FechaCaso travels as a string and is normalized by the mapper.
type datosCasoRequest struct {
	TipoObra            string `json:"tipoObra"            form:"tipoObra"            validate:"required"`
	Parroquia           string `json:"parroquia"           form:"parroquia"           validate:"required"`
	Circuito            string `json:"circuito"            form:"circuito"`
	Eje                 string `json:"eje"                 form:"eje"`
	CodigoEje           string `json:"codigoEje"           form:"codigoEje"`
	Comuna              string `json:"comuna"              form:"comuna"`
	NombreJefeComuna    string `json:"nombreJefeComuna"    form:"nombreJefeComuna"`
	NombreEnlaceComunal string `json:"nombreEnlaceComunal" form:"nombreEnlaceComunal"`
	Link                string `json:"link"                form:"link"`
	Descripcion         string `json:"descripcion"         form:"descripcion"         validate:"required"`
	FechaCaso           string `json:"fechaCaso"           form:"fechaCaso"           validate:"required"`
}

// replaceCasoRequest is the PATCH /casos/:id body. Any id field a client
// sends is simply not part of the schema and cannot override the path id.
type replaceCasoRequest struct {
	datosCasoRequest
	Username string `json:"username"`
}

type estadoRequest struct {
	Estado   string `json:"estado"   validate:"required"`
	Username string `json:"username" validate:"required"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

type actuacionRequest struct {
	Texto    string `json:"texto"    validate:"required"`
	Username string `json:"username" validate:"required"`
}

type uploadResponse struct {
	Archivo string `json:"archivo"`
}
