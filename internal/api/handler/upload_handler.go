package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/munitrack/casos-api/internal/api/metrics"
	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/core/ports"
)

// UploadHandler handles standalone attachment uploads, used when a caso's
// PDF is re-uploaded independently of creation.
type UploadHandler struct {
	files ports.FileStore
}

func NewUploadHandler(files ports.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// Upload handles POST /upload — multipart field "archivo".
//
// @Summary      Upload a PDF attachment
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "PDF attachment (max 2 MiB)"
// @Success      200      {object}  uploadResponse
// @Failure      400      {object}  errorResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "archivo is required")
	}

	src, err := fh.Open()
	if err != nil {
		return err
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
		return err
	}

	return c.JSON(http.StatusOK, uploadResponse{Archivo: name})
}
