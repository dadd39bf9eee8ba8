package uploads

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"enrolldash/internal/errors"
)

// AllowedExtensions are the upload types the dashboard reads
var AllowedExtensions = []string{".csv", ".xlsx"}

// Accept lists AllowedExtensions for an <input accept> attribute
func Accept() string {
	return strings.Join(AllowedExtensions, ",")
}

// ValidateFilename rejects files whose extension is not allowed
func ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.UnsupportedFile(filename)
}

// ReadAll reads at most limit bytes and fails with FILE_TOO_LARGE beyond it.
// A non-positive limit disables the check.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read upload")
		}
		return content, nil
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if n > limit {
		return nil, errors.FileTooLarge(limit)
	}
	return buf.Bytes(), nil
}
