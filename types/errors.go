package types

import (
	"github.com/pkg/errors"
)

/*
Error taxonomy shared by every storage component.

	IO             the backing file could not be opened, read or written at the expected size
	Precondition   caller broke a contract: non-resident page, duplicate name, bad schema, empty slot
	Capacity       a page or structure has no room left
	Unsupported    the operation is not offered by this storage organization

Components keep their own sentinel errors and wrap them in a StorageError so
callers can switch on the kind without knowing every sentinel.
*/

type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindIO
	KindPrecondition
	KindCapacity
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPrecondition:
		return "precondition"
	case KindCapacity:
		return "capacity"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// StorageError carries the failing operation and its kind.
type StorageError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op + ": <nil>"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewError wraps err as a StorageError of the given kind.
func NewError(kind ErrorKind, op string, err error) error {
	return &StorageError{Kind: kind, Op: op, Err: err}
}

// IOError, PreconditionError, CapacityError and UnsupportedError are
// shorthands for NewError with a fixed kind.
func IOError(op string, err error) error { return NewError(KindIO, op, err) }

func PreconditionError(op string, err error) error { return NewError(KindPrecondition, op, err) }

func CapacityError(op string, err error) error { return NewError(KindCapacity, op, err) }

func UnsupportedError(op string, err error) error { return NewError(KindUnsupported, op, err) }

// KindOf returns the kind of the outermost StorageError in err's chain.
func KindOf(err error) ErrorKind {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func IsIO(err error) bool { return KindOf(err) == KindIO }

func IsPrecondition(err error) bool { return KindOf(err) == KindPrecondition }

func IsCapacity(err error) bool { return KindOf(err) == KindCapacity }

func IsUnsupported(err error) bool { return KindOf(err) == KindUnsupported }
