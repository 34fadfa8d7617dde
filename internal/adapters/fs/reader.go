// Package fs implements filesystem access to script sources.
package fs

import (
	"io"
	"os"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceReader = (*Reader)(nil)

// Reader reads script sources from a file or standard input.
type Reader struct {
	stdin io.Reader
}

// NewReader creates a Reader bound to the process's standard input.
func NewReader() *Reader {
	return NewReaderFrom(os.Stdin)
}

// NewReaderFrom creates a Reader that uses stdin in place of standard input.
func NewReaderFrom(stdin io.Reader) *Reader {
	return &Reader{stdin: stdin}
}

// Read returns the raw bytes of path, or of standard input when path is empty or "-".
func (r *Reader) Read(path string) ([]byte, error) {
	if path == "" || path == domain.StdinPath {
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "path", "<stdin>")
		}
		return data, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is the script the user asked to run
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "path", path)
	}
	return data, nil
}
