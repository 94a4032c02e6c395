// Package errors provides the structured error type used across keystone-wsgi.
//
// Every error carries a Code that groups it for programmatic handling and,
// when one is involved, the name of the managed vhost (keystone_wsgi or
// keystone_wsgi_ssl).
//
// # Sentinel Errors
//
// Sentinels compare by code, so a constructed error matches the sentinel of
// its category:
//
//	errors.ErrVhostNotFound    // managed vhost file missing
//	errors.ErrInvalidConfig    // parameter validation failed
//	errors.ErrRootRequired     // apply/remove need root
//	errors.ErrModuleNotLoaded  // mod_wsgi is not loaded in Apache
//
// # Usage
//
//	if err := cfg.Validate(); err != nil {
//	    if errors.Is(err, errors.ErrInvalidConfig) {
//	        // bad parameters, nothing touched
//	    }
//	}
//
//	return errors.WrapVhost(errors.ErrCodeDriver, "keystone_wsgi", "failed to write vhost", err)
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"  // Resource not found
	ErrCodeValidation ErrorCode = "VALIDATION" // Parameter validation failed
	ErrCodePermission ErrorCode = "PERMISSION" // Permission denied
	ErrCodeConfig     ErrorCode = "CONFIG"     // Configuration file error
	ErrCodeDriver     ErrorCode = "DRIVER"     // Apache driver error
	ErrCodePlatform   ErrorCode = "PLATFORM"   // Host fact detection error
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Internal/unexpected error
)

// KeystoneError is a structured error with context about the failed operation.
type KeystoneError struct {
	Code    ErrorCode
	Message string
	Vhost   string // managed vhost name, if any
	Err     error
}

// Error implements the error interface.
func (e *KeystoneError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Vhost != "" {
		return fmt.Sprintf("vhost %s: %s", e.Vhost, msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *KeystoneError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a KeystoneError with the same code.
func (e *KeystoneError) Is(target error) bool {
	t, ok := target.(*KeystoneError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	// ErrVhostNotFound indicates a managed vhost file does not exist.
	ErrVhostNotFound = &KeystoneError{Code: ErrCodeNotFound, Message: "vhost not found"}

	// ErrInvalidConfig indicates the keystone parameters failed validation.
	ErrInvalidConfig = &KeystoneError{Code: ErrCodeValidation, Message: "invalid configuration"}

	// ErrPermissionDenied indicates insufficient privileges for the operation.
	ErrPermissionDenied = &KeystoneError{Code: ErrCodePermission, Message: "permission denied"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &KeystoneError{Code: ErrCodePermission, Message: "this operation requires root privileges. Please run with sudo"}

	// ErrConfigUnreadable indicates the configuration file could not be read or parsed.
	ErrConfigUnreadable = &KeystoneError{Code: ErrCodeConfig, Message: "configuration unreadable"}

	// ErrModuleNotLoaded indicates a required Apache module is missing.
	ErrModuleNotLoaded = &KeystoneError{Code: ErrCodeDriver, Message: "apache module not loaded"}

	// ErrUnsupportedPlatform indicates host facts could not be detected.
	ErrUnsupportedPlatform = &KeystoneError{Code: ErrCodePlatform, Message: "unsupported platform"}
)

// NotFound creates an error for a managed vhost that doesn't exist.
func NotFound(vhost string) error {
	return &KeystoneError{
		Code:    ErrCodeNotFound,
		Message: "vhost not found",
		Vhost:   vhost,
	}
}

// Validation creates a validation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &KeystoneError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &KeystoneError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapVhost is Wrap with the managed vhost name attached.
func WrapVhost(code ErrorCode, vhost, msg string, err error) error {
	return &KeystoneError{
		Code:    code,
		Message: msg,
		Vhost:   vhost,
		Err:     err,
	}
}

// Is is a re-export of errors.Is.
var Is = errors.Is

// As is a re-export of errors.As.
var As = errors.As
