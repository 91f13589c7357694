package ports

import "io"

// FileStore persists uploaded caso attachments and returns a stable
// reference under which the file is later served read-only.
type FileStore interface {
	// Save validates the declared MIME type and size, persists the bytes
	// under a name unique across concurrent uploads, and returns that name.
	// Fails with domain.ErrTipoArchivo for non-PDF uploads and
	// domain.ErrArchivoGrande when size exceeds the limit.
	Save(filename, declaredMIME string, size int64, r io.Reader) (string, error)
}
