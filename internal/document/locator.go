// Package document resolves the single served PDF to a path on disk and
// hands out read-only handles to it.
package document

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfviewer/internal/config"
	"pdfviewer/internal/domain"
)

// MediaType is the content type of every document served.
const MediaType = "application/pdf"

// Reference identifies the served document. It is fixed at startup.
type Reference struct {
	Path         string
	DownloadName string
	Disposition  string
}

// Locator resolves the Reference and opens it per request.
type Locator struct {
	ref Reference
}

// NewLocator builds a Locator from cfg. Relative paths are made absolute
// against the working directory at startup so a later chdir cannot move
// the reference.
func NewLocator(cfg config.Config) *Locator {
	path := cfg.Document.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Locator{ref: Reference{
		Path:         path,
		DownloadName: cfg.Document.DownloadName,
		Disposition:  cfg.Document.Disposition,
	}}
}

// Reference returns a copy of the resolved reference.
func (l *Locator) Reference() Reference {
	return l.ref
}

// Open returns a read-only handle on the document along with its size. The
// caller owns the handle. Any failure maps to domain.ErrResourceNotFound.
func (l *Locator) Open() (*os.File, int64, error) {
	f, err := os.Open(l.ref.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w: %v", l.ref.Path, domain.ErrResourceNotFound, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w: %v", l.ref.Path, domain.ErrResourceNotFound, err)
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%s is not a regular file: %w", l.ref.Path, domain.ErrResourceNotFound)
	}
	return f, st.Size(), nil
}

// Check reports whether the document can currently be opened.
func (l *Locator) Check() error {
	f, _, err := l.Open()
	if err != nil {
		return err
	}
	return f.Close()
}
