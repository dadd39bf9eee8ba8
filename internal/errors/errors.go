package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
	}
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsInputError reports whether err was caused by the uploaded data rather than the server
func IsInputError(err error) bool {
	switch GetCode(err) {
	case CodeEmptyFile, CodeParseError, CodeMissingColumn, CodeNonNumeric,
		CodeTermNotFound, CodeNoMatchingRows, CodeUnsupportedFile, CodeFileTooLarge, CodeInvalidInput:
		return true
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	CodeEmptyFile       = "EMPTY_FILE"
	CodeParseError      = "PARSE_ERROR"
	CodeMissingColumn   = "MISSING_COLUMN"
	CodeNonNumeric      = "NON_NUMERIC"
	CodeTermNotFound    = "TERM_NOT_FOUND"
	CodeNoMatchingRows  = "NO_MATCHING_ROWS"
	CodeUnsupportedFile = "UNSUPPORTED_FILE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeChartError      = "CHART_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func EmptyFile() *AppError {
	return New(CodeEmptyFile, "file is empty")
}

func MissingColumn(column string) *AppError {
	return New(CodeMissingColumn, fmt.Sprintf("column %q not found", column))
}

func NonNumeric(column string) *AppError {
	return New(CodeNonNumeric, fmt.Sprintf("column %q contains non-numeric values", column))
}

func TermNotFound(term string) *AppError {
	return New(CodeTermNotFound, fmt.Sprintf("no rows with term %q", term))
}

func NoMatchingRows(column string) *AppError {
	return New(CodeNoMatchingRows, fmt.Sprintf("no rows match the tracked values of column %q", column))
}

func UnsupportedFile(filename string) *AppError {
	return New(CodeUnsupportedFile, fmt.Sprintf("unsupported file type: %s", filename))
}

func FileTooLarge(limit int64) *AppError {
	return New(CodeFileTooLarge, fmt.Sprintf("file exceeds the %d byte upload limit", limit))
}

func ChartError(chart, reason string) *AppError {
	return New(CodeChartError, fmt.Sprintf("%s: %s", chart, reason))
}

// ChartFailed wraps a renderer failure under CHART_ERROR
func ChartFailed(err error, chart string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: CodeChartError, Message: "failed to render " + chart, Cause: err}
}
