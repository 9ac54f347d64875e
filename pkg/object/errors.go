package object

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks a malformed object header, tree entry, or name.
	ErrDecode = errors.New("object decode")
	// ErrNotImplemented marks an object type that is recognized but unsupported.
	ErrNotImplemented = errors.New("object type not implemented")
	// ErrNotFound marks a hash with no object in the store.
	ErrNotFound = errors.New("object not found")
	// ErrIO marks a filesystem failure. Errors matching it are *IOError.
	ErrIO = errors.New("object i/o")
	// ErrInvalidHash marks a string that is not a hex object id.
	ErrInvalidHash = errors.New("invalid object hash")
	// ErrAmbiguous marks a hash prefix matching more than one object.
	ErrAmbiguous = errors.New("ambiguous object hash prefix")
)

// IOError records a failed filesystem operation on the store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

func notImplemented(t Type) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, t)
}
