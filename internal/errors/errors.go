// Package errors provides unified error handling using coded application errors.
// Codes are shared by the hashing core and the command-line layer, which maps
// them to process exit codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Code classifies an application error.
type Code int

// Error codes.
const (
	CodeUnknown Code = iota
	CodeInvalidDimension
	CodeInvalidConfiguration
	CodeLengthMismatch
	CodeInvalidEncoding
	CodeInvalidWidth
	CodeInvalidHeight
	CodeInvalidFilter
	CodeInvalidAlgorithm
	CodeMissingImage
	CodeImageOpen
	CodeConfigInvalid
)

var codeNames = map[Code]string{
	CodeUnknown:              "UNKNOWN",
	CodeInvalidDimension:     "INVALID_DIMENSION",
	CodeInvalidConfiguration: "INVALID_CONFIGURATION",
	CodeLengthMismatch:       "LENGTH_MISMATCH",
	CodeInvalidEncoding:      "INVALID_ENCODING",
	CodeInvalidWidth:         "INVALID_WIDTH",
	CodeInvalidHeight:        "INVALID_HEIGHT",
	CodeInvalidFilter:        "INVALID_FILTER",
	CodeInvalidAlgorithm:     "INVALID_ALGORITHM",
	CodeMissingImage:         "MISSING_IMAGE",
	CodeImageOpen:            "IMAGE_OPEN",
	CodeConfigInvalid:        "CONFIG_INVALID",
}

// String returns the upper-case name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE(%d)", int(c))
}

// Metadata keys understood by ExitCode.
const (
	MetaArg = "arg"
)

// Positional argument names used as MetaArg values.
const (
	ArgImage        = "IMAGE"
	ArgCompareImage = "IMAGE_CMP"
)

// exitCodeMap maps error codes to process exit codes.
var exitCodeMap = map[Code]int{
	CodeUnknown:              1,
	CodeInvalidDimension:     1,
	CodeInvalidConfiguration: 1,
	CodeInvalidWidth:         1,
	CodeInvalidHeight:        2,
	CodeInvalidFilter:        3,
	CodeInvalidAlgorithm:     4,
	CodeMissingImage:         5,
	CodeImageOpen:            6,
	CodeLengthMismatch:       8,
	CodeInvalidEncoding:      8,
	CodeConfigInvalid:        9,
}

// AppError is the base error type with structured error code and metadata.
type AppError struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + e.Metadata[k]
		}
		s += " {" + strings.Join(pairs, " ") + "}"
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so coded
// sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ExitCode returns the process exit code for this error.
func (e *AppError) ExitCode() int {
	if e.Code == CodeImageOpen && e.Metadata[MetaArg] != "" && e.Metadata[MetaArg] != ArgImage {
		return 7
	}
	if c, ok := exitCodeMap[e.Code]; ok {
		return c
	}
	return 1
}

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata returns a copy of e with key set. The receiver is left
// untouched, so shared errors can be decorated safely.
func (e *AppError) WithMetadata(key, value string) *AppError {
	c := *e
	c.Metadata = make(map[string]string, len(e.Metadata)+1)
	maps.Copy(c.Metadata, e.Metadata)
	c.Metadata[key] = value
	return &c
}

// IsCode checks if an error, or any error it wraps, has a specific error code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ExitCode maps any error to a process exit code. Nil maps to 0 and errors
// without an AppError in their chain map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode()
	}
	return 1
}
