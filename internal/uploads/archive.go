// Package uploads validates uploaded files and optionally archives them on local disk
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultChunkSize = 32 * 1024

// Archive copies uploads into a local directory under unique names.
// A zero-value or nil Archive is disabled and stores nothing.
type Archive struct {
	dir       string
	chunkSize int
}

// NewArchive creates an archive rooted at dir. An empty dir disables archiving.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir, chunkSize: defaultChunkSize}
}

// Enabled reports whether uploads are archived
func (a *Archive) Enabled() bool {
	return a != nil && a.dir != ""
}

// Store saves the upload content and returns its path, or "" when archiving is disabled
func (a *Archive) Store(ctx context.Context, content []byte, filename string) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	filePath := filepath.Join(a.dir, uniqueName(filename, time.Now()))
	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer destFile.Close()

	buf := make([]byte, a.chunkSize)
	if _, err := io.CopyBuffer(destFile, bytes.NewReader(content), buf); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy upload: %w", err)
	}
	return filePath, nil
}

// Open returns a reader for an archived upload
func (a *Archive) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archived upload: %w", err)
	}
	return file, nil
}

// Delete removes an archived upload; a missing file is not an error
func (a *Archive) Delete(ctx context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archived upload: %w", err)
	}
	return nil
}

// uniqueName keeps the base name and extension and inserts a timestamp and short uuid
func uniqueName(filename string, now time.Time) string {
	base := filepath.Base(filepath.Clean("/" + filename))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "/" || stem == "." {
		stem = "upload"
	}
	return fmt.Sprintf("%s_%s_%s%s", stem, now.Format("20060102_150405"), uuid.New().String()[:8], ext)
}
