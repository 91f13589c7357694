package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/munitrack/casos-api/internal/api/metrics"
	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/core/ports"
)

// CasoHandler handles HTTP requests for caso operations.
type CasoHandler struct {
	service ports.CasoService
	files   ports.FileStore
}

func NewCasoHandler(service ports.CasoService, files ports.FileStore) *CasoHandler {
	return &CasoHandler{service: service, files: files}
}

// List handles GET /casos.
//
// @Summary      List all casos
// @Tags         casos
// @Produce      json
// @Success      200  {array}   domain.Caso
// @Failure      500  {object}  errorResponse
// @Router       /casos [get]
func (h *CasoHandler) List(c echo.Context) error {
	casos, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, casos)
}

// Get handles GET /casos/:id.
//
// @Summary      Get a caso by id
// @Tags         casos
// @Produce      json
// @Param        id   path      string  true  "Caso id"
// @Success      200  {object}  domain.Caso
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /casos/{id} [get]
func (h *CasoHandler) Get(c echo.Context) error {
	caso, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caso)
}

// Create handles POST /casos — multipart form with the descriptive fields
// plus the mandatory PDF attachment in field "archivo". The attachment is
// persisted first; its stored name becomes the caso's archivo reference.
//
// @Summary      Create a caso with its attachment
// @Tags         casos
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "PDF attachment (max 2 MiB)"
// @Success      201      {object}  domain.Caso
// @Failure      400      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /casos [post]
func (h *CasoHandler) Create(c echo.Context) error {
	var req datosCasoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	datos, err := toDatosCaso(req)
	if err != nil {
		return err
	}

	archivo, err := h.saveUpload(c)
	if err != nil {
		return err
	}

	caso, err := h.service.Create(c.Request().Context(), datos, archivo)
	if err != nil {
		return err
	}

	metrics.CasosCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, caso)
}

// Replace handles PATCH /casos/:id — full replacement of the descriptive
// fields. When the body names a username, the per-field diff lands in
// modificaciones.
//
// @Summary      Replace a caso's descriptive fields
// @Tags         casos
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Caso id"
// @Param        body  body      replaceCasoRequest  true  "New field values"
// @Success      200   {object}  domain.Caso
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /casos/{id} [patch]
func (h *CasoHandler) Replace(c echo.Context) error {
	var req replaceCasoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	datos, err := toDatosCaso(req.datosCasoRequest)
	if err != nil {
		return err
	}

	caso, err := h.service.ReplaceDatos(c.Request().Context(), c.Param("id"), datos, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caso)
}

// UpdateEstado handles PATCH /casos/:id/estado. Entregado is not accepted
// on this path, and a delivered caso is terminal.
//
// @Summary      Transition a caso's estado
// @Tags         casos
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Caso id"
// @Param        body  body      estadoRequest  true  "Target estado and acting username"
// @Success      200   {object}  domain.Caso
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /casos/{id}/estado [patch]
func (h *CasoHandler) UpdateEstado(c echo.Context) error {
	var req estadoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caso, err := h.service.UpdateEstado(c.Request().Context(), c.Param("id"), domain.Estado(req.Estado), req.Username)
	if err != nil {
		return err
	}

	metrics.EstadoTransitionsTotal.WithLabelValues(req.Estado).Inc()
	return c.JSON(http.StatusOK, caso)
}

// ConfirmDelivery handles PATCH /casos/:id/confirm-delivery.
//
// @Summary      Mark a caso as delivered
// @Tags         casos
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Caso id"
// @Param        body  body      passwordRequest  true  "Delivery password"
// @Success      200   {object}  domain.Caso
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /casos/{id}/confirm-delivery [patch]
func (h *CasoHandler) ConfirmDelivery(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caso, err := h.service.ConfirmarEntrega(c.Request().Context(), c.Param("id"), req.Password)
	if err != nil {
		return err
	}

	metrics.EntregasConfirmadasTotal.Inc()
	return c.JSON(http.StatusOK, caso)
}

// DeleteWithPassword handles DELETE /casos/:id/delete-with-password and
// returns the deleted caso's last snapshot.
//
// @Summary      Permanently delete a caso
// @Tags         casos
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Caso id"
// @Param        body  body      passwordRequest  true  "Deletion password"
// @Success      200   {object}  domain.Caso
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /casos/{id}/delete-with-password [delete]
func (h *CasoHandler) DeleteWithPassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caso, err := h.service.DeleteConPassword(c.Request().Context(), c.Param("id"), req.Password)
	if err != nil {
		return err
	}

	metrics.CasosDeletedTotal.Inc()
	return c.JSON(http.StatusOK, caso)
}

// AddActuacion handles POST /casos/:id/actuaciones.
//
// @Summary      Append a free-text actuación to a caso
// @Tags         casos
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Caso id"
// @Param        body  body      actuacionRequest  true  "Note text and acting username"
// @Success      200   {object}  domain.Caso
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /casos/{id}/actuaciones [post]
func (h *CasoHandler) AddActuacion(c echo.Context) error {
	var req actuacionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caso, err := h.service.AddActuacion(c.Request().Context(), c.Param("id"), req.Texto, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caso)
}

// saveUpload reads the multipart "archivo" part and hands it to the file
// store, translating intake rejections into metrics.
func (h *CasoHandler) saveUpload(c echo.Context) (string, error) {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "archivo is required")
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name, err := h.files.Save(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTipoArchivo):
			metrics.UploadsRejectedTotal.WithLabelValues("mime").Inc()
		case errors.Is(err, domain.ErrArchivoGrande):
			metrics.UploadsRejectedTotal.WithLabelValues("size").Inc()
		}
		return "", err
	}
	return name, nil
}
