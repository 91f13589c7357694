// Package storage implements attachment intake on the local filesystem.
// Stored files are served read-only under a public static path that mirrors
// the storage directory 1:1.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/munitrack/casos-api/internal/core/domain"
)

const (
	// MaxPDFBytes is the attachment size ceiling: 2 MiB.
	MaxPDFBytes = 2 << 20

	pdfMIME = "application/pdf"
)

// LocalStore persists uploads under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the storage directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the storage directory, for wiring the static file route.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save validates the declared MIME type and size, then persists the bytes
// under a generated name: nanosecond timestamp plus a random fragment plus
// the original extension. Concurrent uploads cannot collide.
func (s *LocalStore) Save(filename, declaredMIME string, size int64, r io.Reader) (string, error) {
	if mime, _, _ := strings.Cut(declaredMIME, ";"); strings.TrimSpace(mime) != pdfMIME {
		return "", domain.ErrTipoArchivo
	}
	if size <= 0 {
		return "", domain.ErrValidation
	}
	if size > MaxPDFBytes {
		return "", domain.ErrArchivoGrande
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	// Cap the copy at the limit even if the declared size lied.
	written, err := io.Copy(dst, io.LimitReader(r, MaxPDFBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > MaxPDFBytes {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", domain.ErrArchivoGrande
	}

	return name, nil
}
