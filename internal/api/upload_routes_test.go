package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/munitrack/casos-api/internal/api/handler"
	"github.com/munitrack/casos-api/internal/core/domain"
	"github.com/munitrack/casos-api/internal/infrastructure/storage"
)

// casoServiceRecorder counts creations so tests can assert that a rejected
// upload never produces a caso.
type casoServiceRecorder struct {
	created int
}

func (s *casoServiceRecorder) Create(_ context.Context, datos domain.DatosCaso, archivo string) (*domain.Caso, error) {
	s.created++
	return &domain.Caso{ID: "caso1", DatosCaso: datos, Archivo: archivo, Estado: domain.EstadoCargado}, nil
}

func (s *casoServiceRecorder) Get(context.Context, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

func (s *casoServiceRecorder) List(context.Context) ([]*domain.Caso, error) {
	return nil, nil
}

func (s *casoServiceRecorder) ReplaceDatos(context.Context, string, domain.DatosCaso, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

func (s *casoServiceRecorder) UpdateEstado(context.Context, string, domain.Estado, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

func (s *casoServiceRecorder) ConfirmarEntrega(context.Context, string, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

func (s *casoServiceRecorder) DeleteConPassword(context.Context, string, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

func (s *casoServiceRecorder) AddActuacion(context.Context, string, string, string) (*domain.Caso, error) {
	return nil, domain.ErrCasoNotFound
}

// newUploadRoutes wires the two upload routes exactly as NewRouter does:
// real file store, central error handler, and the body-limit middleware.
func newUploadRoutes(t *testing.T) (*echo.Echo, *casoServiceRecorder, *storage.LocalStore) {
	t.Helper()

	files, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	svc := &casoServiceRecorder{}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	uploadLimit := echomiddleware.BodyLimit(uploadBodyLimit)
	e.POST("/casos", handler.NewCasoHandler(svc, files).Create, uploadLimit)
	e.POST("/upload", handler.NewUploadHandler(files).Upload, uploadLimit)

	return e, svc, files
}

func pdfForm(t *testing.T, fileSize int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"tipoObra":    "Asfaltado",
		"parroquia":   "San Juan",
		"descripcion": "Bacheo de la calle principal",
		"fechaCaso":   "2026-05-12",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="archivo"; filename="informe.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), fileSize)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func serveUpload(t *testing.T, e *echo.Echo, path string, fileSize int) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := pdfForm(t, fileSize)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func storedFiles(t *testing.T, files *storage.LocalStore) int {
	t.Helper()
	entries, err := os.ReadDir(files.Dir())
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	return len(entries)
}

func TestCasosRoute_OversizePDF(t *testing.T) {
	e, svc, files := newUploadRoutes(t)

	rec := serveUpload(t, e, "/casos", 3<<20)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("3 MiB upload: expected 400, got %d", rec.Code)
	}
	if svc.created != 0 {
		t.Fatalf("oversize upload must not create a caso")
	}
	if n := storedFiles(t, files); n != 0 {
		t.Fatalf("oversize upload must not persist a file, found %d", n)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Error != domain.ErrArchivoGrande.Error() {
		t.Fatalf("unexpected error message: %q", body.Error)
	}
}

func TestCasosRoute_GrosslyOversizeBody(t *testing.T) {
	e, svc, files := newUploadRoutes(t)

	// Large enough that the body-limit middleware fires before the handler.
	rec := serveUpload(t, e, "/casos", 6<<20)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("6 MiB upload: expected 400, got %d", rec.Code)
	}
	if svc.created != 0 || storedFiles(t, files) != 0 {
		t.Fatalf("rejected upload must leave no trace")
	}
}

func TestUploadRoute_OversizePDF(t *testing.T) {
	e, _, files := newUploadRoutes(t)

	rec := serveUpload(t, e, "/upload", 3<<20)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("3 MiB upload: expected 400, got %d", rec.Code)
	}
	if n := storedFiles(t, files); n != 0 {
		t.Fatalf("oversize upload must not persist a file, found %d", n)
	}
}

func TestCasosRoute_AcceptsPDFWithinLimit(t *testing.T) {
	e, svc, files := newUploadRoutes(t)

	rec := serveUpload(t, e, "/casos", 1<<20)

	if rec.Code != http.StatusCreated {
		t.Fatalf("1 MiB upload: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.created != 1 {
		t.Fatalf("expected one caso created, got %d", svc.created)
	}
	if n := storedFiles(t, files); n != 1 {
		t.Fatalf("expected one stored file, got %d", n)
	}
}
