package store

import "fmt"

// Target names which artifact an I/O error concerns.
type Target string

const (
	TargetMarker Target = "marker"
	TargetOutput Target = "output"
)

// WriteError is returned when an artifact could not be replaced. The previous
// contents are left intact.
type WriteError struct {
	Target Target
	Path   string
	Err    error
}

func NewWriteError(target Target, path string, err error) *WriteError {
	return &WriteError{Target: target, Path: path, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s %s: %v", e.Target, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError is returned when a stored marker exists but cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func NewReadError(path string, err error) *ReadError {
	return &ReadError{Path: path, Err: err}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read marker %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
