package dispatch

import (
	"errors"
	"fmt"
)

// Common dispatch errors
var (
	ErrEmptyDocument = errors.New("empty configuration document")
	ErrSinkClosed    = errors.New("sink is closed")
)

// ConfigError codes, one per class of violation the loader reports.
const (
	CodeBadVersion       = "BadVersion"
	CodeEmptyName        = "EmptyName"
	CodeBadPattern       = "BadPattern"
	CodeBadLevel         = "BadLevel"
	CodeBadClass         = "BadClass"
	CodeBadStream        = "BadStream"
	CodeBadMode          = "BadMode"
	CodeUnknownFormatter = "UnknownFormatter"
	CodeUnknownHandler   = "UnknownHandler"
	CodeMissingFilename  = "MissingFilename"
	CodeUnexpectedField  = "UnexpectedField"
	CodeOpenFailed       = "OpenFailed"
)

// ConfigError describes one violation found while loading a
// configuration document.
type ConfigError struct {
	Code    string
	Section string // "formatters", "handlers" or "loggers"; empty for document-level violations
	Name    string // offending entry name
	Ref     string // dangling reference target, when the violation is a reference
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Section != "" {
		msg = fmt.Sprintf("%s[%q]: %s", e.Section, e.Name, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

func newConfigError(code, section, name, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Section: section,
		Name:    name,
		Message: message,
	}
}

func newConfigErrorWithCause(code, section, name, message string, cause error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Section: section,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}
