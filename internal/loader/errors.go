package loader

import (
	"errors"
	"fmt"

	"github.com/roach88/statemig/internal/tag"
	"github.com/roach88/statemig/internal/wire"
)

var (
	// ErrIO is returned when the directory or a schema file cannot be read.
	ErrIO = errors.New("io error")

	// ErrMalformedDocument is returned on a syntax error or a non-object root.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrDuplicatePriority is returned when two files encode the same priority.
	ErrDuplicatePriority = errors.New("duplicate priority")
)

// ErrorCode categorizes load errors.
type ErrorCode string

const (
	ErrCodeIO                ErrorCode = "IO_ERROR"
	ErrCodeMalformed         ErrorCode = "MALFORMED_DOCUMENT"
	ErrCodeSchemaField       ErrorCode = "SCHEMA_FIELD"
	ErrCodeUnknownValueType  ErrorCode = "UNKNOWN_VALUE_TYPE"
	ErrCodeTypeMismatch      ErrorCode = "TYPE_MISMATCH"
	ErrCodeDuplicatePriority ErrorCode = "DUPLICATE_PRIORITY"
	ErrCodeGeneric           ErrorCode = "LOAD_FAILED"
)

// Error reports a failure to load one schema file or the directory itself.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Path is the file or directory being loaded.
	Path string

	// Err is the underlying error; it matches one of the package sentinels,
	// wire.ErrSchemaField, tag.ErrUnknownValueType or tag.ErrTypeMismatch.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err for path and derives the code from its sentinel.
func newError(path string, err error) *Error {
	return &Error{Code: codeFor(err), Path: path, Err: err}
}

func codeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrIO):
		return ErrCodeIO
	case errors.Is(err, ErrMalformedDocument):
		return ErrCodeMalformed
	case errors.Is(err, ErrDuplicatePriority):
		return ErrCodeDuplicatePriority
	case errors.Is(err, tag.ErrUnknownValueType):
		return ErrCodeUnknownValueType
	case errors.Is(err, tag.ErrTypeMismatch):
		return ErrCodeTypeMismatch
	case errors.Is(err, wire.ErrSchemaField):
		return ErrCodeSchemaField
	default:
		return ErrCodeGeneric
	}
}

// Code returns the ErrorCode carried by err, or "" if err is not a load error.
func Code(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
