package errors

import (
	"errors"
	"fmt"
)

// Value tree errors
var (
	ErrTypeMismatch    = errors.New("wrong type")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNumberFormat    = errors.New("invalid number text")
	ErrUnsupportedKind = errors.New("kind outside conversion domain")
	ErrNullValue       = errors.New("value is null")
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrInvalidYAML     = errors.New("invalid YAML format")
	ErrPathNotFound    = errors.New("path not found in document")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe a document to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeTypeMismatch          ErrorType = "type_mismatch"
	ErrorTypeIndexOutOfRange       ErrorType = "index_out_of_range"
	ErrorTypeParse                 ErrorType = "parse"
	ErrorTypeUnsupportedConversion ErrorType = "unsupported_conversion"
	ErrorTypeNull                  ErrorType = "null_value"
	ErrorTypeInput                 ErrorType = "input"
	ErrorTypeConfig                ErrorType = "config"
	ErrorTypeBuild                 ErrorType = "build"
	ErrorTypeEncode                ErrorType = "encode"
	ErrorTypeOutput                ErrorType = "output"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(typ ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    typ,
		Message: message,
		Err:     err,
	}
}

// NewTypeMismatchError reports an accessor or insertion against the wrong kind
func NewTypeMismatchError(message string) *AppError {
	return newError(ErrorTypeTypeMismatch, message, ErrTypeMismatch)
}

// NewIndexError reports an index outside the current bounds
func NewIndexError(index, size int) *AppError {
	return newError(ErrorTypeIndexOutOfRange, fmt.Sprintf("index %d, size %d", index, size), ErrIndexOutOfRange)
}

// NewParseError reports arbitrary-precision text that does not parse
func NewParseError(message string, err error) *AppError {
	if err == nil {
		err = ErrNumberFormat
	}
	return newError(ErrorTypeParse, message, err)
}

// NewConversionError reports a tag outside a conversion table's domain
func NewConversionError(message string) *AppError {
	return newError(ErrorTypeUnsupportedConversion, message, ErrUnsupportedKind)
}

// NewNullError reports a read of a null payload
func NewNullError(message string) *AppError {
	return newError(ErrorTypeNull, message, ErrNullValue)
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewBuildError creates a new error related to building a value tree
func NewBuildError(message string, err error) *AppError {
	return newError(ErrorTypeBuild, message, err)
}

// NewEncodeError creates a new error related to rendering a value tree
func NewEncodeError(message string, err error) *AppError {
	return newError(ErrorTypeEncode, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParse:
			return fmt.Sprintf("Parse error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeBuild:
			return fmt.Sprintf("Build error: %s", buildDetail(appErr))
		case ErrorTypeEncode:
			return fmt.Sprintf("Encoding error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeTypeMismatch:
			return fmt.Sprintf("Type error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON or YAML document."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrInvalidYAML) {
		return "Error: The input contains invalid YAML. Please check your YAML syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe a document to stdin."
	}

	return fmt.Sprintf("Error: %v", err)
}

// buildDetail appends the innermost tree error to a build failure message
func buildDetail(appErr *AppError) string {
	var inner *AppError
	if errors.As(appErr.Err, &inner) && inner.Message != "" {
		return fmt.Sprintf("%s (%s)", appErr.Message, inner.Message)
	}
	return appErr.Message
}
