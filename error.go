package pptstealer

import (
	"errors"
	"fmt"
)

// Error codes. Each code doubles as the stable error_type reported to callers
// when a run ends in the error stage.
const (
	EFETCH         = "fetch_failed"
	ENOIMAGES      = "no_images"
	EFILTEREDOUT   = "filtered_out"
	ENOVALIDIMAGES = "no_valid_images"
	EINVALID       = "invalid"
	EINTERNAL      = "internal"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a network or disk error) should be
// reported as an EINTERNAL error and the human user should only see the
// message "Internal error".
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("pptstealer error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
