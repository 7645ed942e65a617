package serialization

import "errors"

var (
	// Structural errors: the caller drove the scope stack incorrectly.

	ErrNoMatchingBegin = errors.New("end without matching begin")
	ErrWrongParent     = errors.New("current node cannot hold the requested child")
	ErrIndexOutOfRange = errors.New("array index out of range")

	// Data errors: the document does not hold what the caller asked for.

	ErrKeyNotFound  = errors.New("key not found")
	ErrTypeMismatch = errors.New("value has a different type")
	ErrNotFinite    = errors.New("number is NaN or infinite")

	// Document errors

	ErrParse              = errors.New("document parse failed")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)
