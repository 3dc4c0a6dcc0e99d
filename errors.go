package userfs

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed operation. The zero value means no error.
type ErrorCode int

const (
	ErrCodeNone         ErrorCode = iota // No error recorded
	ErrCodeNoFile                        // No such file or descriptor
	ErrCodeNoMem                         // File size limit or descriptor table exhausted
	ErrCodeNoPermission                  // Access mode forbids the operation
	ErrCodeInvalid                       // Malformed argument (flags, offsets, sizes)
)

// String returns a human-readable message for the error code
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "no error"
	case ErrCodeNoFile:
		return "no such file"
	case ErrCodeNoMem:
		return "not enough memory"
	case ErrCodeNoPermission:
		return "permission denied"
	case ErrCodeInvalid:
		return "invalid argument"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// FSError represents a failed filesystem call
type FSError struct {
	Code    ErrorCode // Error class
	Op      string    // Operation that failed (e.g., "open", "write")
	Name    string    // File name or descriptor the call referred to
	Message string    // Optional detail replacing the code message
}

// Error implements the error interface
func (e *FSError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Op == "" {
		return msg
	}
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Name, msg)
}

// Is implements errors.Is for FSError by comparing codes.
func (e *FSError) Is(target error) bool {
	var fsErr *FSError
	if errors.As(target, &fsErr) {
		return e.Code == fsErr.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNoFile       = &FSError{Code: ErrCodeNoFile}
	ErrNoMem        = &FSError{Code: ErrCodeNoMem}
	ErrNoPermission = &FSError{Code: ErrCodeNoPermission}
	ErrInvalid      = &FSError{Code: ErrCodeInvalid}
)

func errNoFile(op, name string) *FSError {
	return &FSError{Code: ErrCodeNoFile, Op: op, Name: name}
}

func errNoMem(op, name, message string) *FSError {
	return &FSError{Code: ErrCodeNoMem, Op: op, Name: name, Message: message}
}

func errNoPermission(op, name string) *FSError {
	return &FSError{Code: ErrCodeNoPermission, Op: op, Name: name}
}

func errInvalid(op, name, message string) *FSError {
	return &FSError{Code: ErrCodeInvalid, Op: op, Name: name, Message: message}
}

// CodeOf returns the ErrorCode carried by err, ErrCodeNone for nil and
// ErrCodeInvalid for errors that did not come from this package.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeNone
	}
	var fsErr *FSError
	if errors.As(err, &fsErr) {
		return fsErr.Code
	}
	return ErrCodeInvalid
}

// IsNotExist returns true if the error indicates a missing file or descriptor
func IsNotExist(err error) bool {
	return CodeOf(err) == ErrCodeNoFile
}

// IsPermission returns true if the error indicates an access mode violation
func IsPermission(err error) bool {
	return CodeOf(err) == ErrCodeNoPermission
}

// IsNoSpace returns true if the error indicates an exhausted size or slot limit
func IsNoSpace(err error) bool {
	return CodeOf(err) == ErrCodeNoMem
}

// ParseErrorCode maps the names used in scenario files and reports
// ("none", "no_file", "no_mem", "no_permission", "invalid") to codes.
func ParseErrorCode(s string) (ErrorCode, bool) {
	switch s {
	case "", "none":
		return ErrCodeNone, true
	case "no_file":
		return ErrCodeNoFile, true
	case "no_mem":
		return ErrCodeNoMem, true
	case "no_permission":
		return ErrCodeNoPermission, true
	case "invalid":
		return ErrCodeInvalid, true
	}
	return ErrCodeNone, false
}

// Name returns the snake_case name accepted by ParseErrorCode.
func (c ErrorCode) Name() string {
	switch c {
	case ErrCodeNoFile:
		return "no_file"
	case ErrCodeNoMem:
		return "no_mem"
	case ErrCodeNoPermission:
		return "no_permission"
	case ErrCodeInvalid:
		return "invalid"
	default:
		return "none"
	}
}
