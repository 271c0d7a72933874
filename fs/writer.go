// Package fs stores finished documents on the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/starchen4/pptstealer"
)

// Ensure Writer implements pptstealer.ResultWriter at compile time.
var _ pptstealer.ResultWriter = (*Writer)(nil)

// Writer saves result documents into a directory. A document is written to a
// temporary file next to its destination and renamed into place, so readers
// never observe a partial file.
type Writer struct {
	baseDir  string
	filename string
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFilename saves every document under name instead of the result's
// suggested filename. A missing .pdf extension is added.
func WithFilename(name string) WriterOption {
	return func(w *Writer) {
		w.filename = name
	}
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string, opts ...WriterOption) *Writer {
	w := &Writer{baseDir: baseDir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult writes result.Document and returns the path of the new file.
// An existing file at that path is replaced.
func (w *Writer) WriteResult(ctx context.Context, result *pptstealer.Result) (string, error) {
	if result == nil || len(result.Document) == 0 {
		return "", pptstealer.Errorf(pptstealer.EINVALID, "no document to write")
	}

	name, err := w.name(result)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(w.baseDir, name)

	tmp, err := os.CreateTemp(w.baseDir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(result.Document); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// name picks the file name for result. Names that would leave baseDir are rejected.
func (w *Writer) name(result *pptstealer.Result) (string, error) {
	name := w.filename
	if name == "" {
		name = result.Filename
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pptstealer.Errorf(pptstealer.EINVALID, "filename required")
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return "", pptstealer.Errorf(pptstealer.EINVALID, "filename %q must not contain a path", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name, nil
}
