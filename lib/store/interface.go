package store

import (
	"context"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Fields is the content of a single document: a mapping from field name to
// field value. Values are strings, timestamps or nil.
type Fields map[string]any

// IDocStore is the generic interface for interacting with a document store.
// Documents are addressed by a collection name and a document id.
// Both operations may block on I/O and therefore take a context.
type IDocStore interface {
	// Get returns the fields of the document stored under (collection, id).
	// The boolean return value indicates whether the document exists.
	// A missing document is not an error: Get returns nil, false, nil.
	Get(ctx context.Context, collection, id string) (fields Fields, exists bool, err error)
	// Set replaces the whole document stored under (collection, id).
	// Fields that are not part of the new document are dropped, there is no merge.
	// A nil error indicates success.
	Set(ctx context.Context, collection, id string, fields Fields) (err error)
}

// serverTimestamp is the type of the ServerTimestamp sentinel.
type serverTimestamp struct{}

// ServerTimestamp can be used as a field value in Set. The backend replaces it
// with the time at which it applies the write.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the error that caused it.
type Error struct {
	Code  RetCode // The return code
	Msg   string  // The error message.
	Cause error   // The underlying error (may be nil).
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("DocStoreError (code %s): %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("DocStoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error so errors.Is and errors.As see through it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new DocStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new DocStoreError with the given code and message that wraps cause.
func WrapError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code:  code,
		Msg:   msg,
		Cause: cause,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess         RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                  // 1: Operation failed due to an internal error.
	RetCUnavailable                    // 2: The backend could not be reached.
	RetCInvalidArgument                // 3: The arguments of the operation are invalid.
)

// String returns the name of the return code.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnavailable:
		return "Unavailable"
	case RetCInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}
