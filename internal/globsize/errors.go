package globsize

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternInput is returned for pattern input that is neither a string nor a list of strings.
	ErrPatternInput = errors.New("invalid pattern input")

	// ErrInvalidTableInput is returned when a table is requested for something that is not a list of entries.
	ErrInvalidTableInput = errors.New("expected a list of file entries")

	// ErrFileAccess matches every *FileAccessError via errors.Is.
	ErrFileAccess = errors.New("file access failed")
)

// FileAccessError reports a failed stat on a file that was selected for reporting.
// It aborts the whole computation.
type FileAccessError struct {
	// Path is the absolute path that could not be stat'ed.
	Path string
	// Err is the underlying filesystem error.
	Err error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("stat %q: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFileAccess) hold for any FileAccessError.
func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccess
}
