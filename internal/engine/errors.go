package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Kinds are stable identifiers meant
// for programmatic dispatch; the human-readable text lives in the error
// message.
type Kind string

const (
	KindAccessDenied    Kind = "access_denied"
	KindExtensionDenied Kind = "extension_denied"
	KindNotFound        Kind = "not_found"
	KindNotAFile        Kind = "not_a_file"
	KindNotADirectory   Kind = "not_a_directory"
	KindTooLarge        Kind = "too_large"
	KindParentMissing   Kind = "parent_missing"
	KindResolveFailed   Kind = "resolve_failed"
	KindReadFailed      Kind = "read_failed"
	KindWriteFailed     Kind = "write_failed"
)

// OpError is the typed failure result of an engine operation.
type OpError struct {
	// Op is the operation name as exposed at the engine boundary,
	// e.g. "read_file".
	Op string

	// Path is the path as the caller supplied it. Resolved forms are
	// deliberately not echoed back for denied paths.
	Path string

	// Kind classifies the failure.
	Kind Kind

	// Err is the underlying cause, when one exists.
	Err error
}

func (e *OpError) Error() string {
	msg := e.message()
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, msg, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) message() string {
	switch e.Kind {
	case KindAccessDenied:
		return "access denied: path not in allowed directories"
	case KindExtensionDenied:
		return "access denied: file type not allowed"
	case KindNotFound:
		return "no such file or directory"
	case KindNotAFile:
		return "not a file"
	case KindNotADirectory:
		return "not a directory"
	case KindTooLarge:
		return "exceeds size limit"
	case KindParentMissing:
		return "parent directory does not exist"
	case KindResolveFailed:
		return "cannot resolve path"
	case KindReadFailed:
		return "read failed"
	case KindWriteFailed:
		return "write failed"
	}
	return string(e.Kind)
}

// opErr builds a typed failure without an underlying cause.
func opErr(op, path string, kind Kind) *OpError {
	return &OpError{Op: op, Path: path, Kind: kind}
}

// wrapErr builds a typed failure around an underlying cause.
func wrapErr(op, path string, kind Kind, err error) *OpError {
	return &OpError{Op: op, Path: path, Kind: kind, Err: err}
}

// KindOf extracts the failure Kind from an error returned by an engine
// operation. It returns the empty Kind for nil or foreign errors.
func KindOf(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
