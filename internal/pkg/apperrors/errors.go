package apperrors

import "errors"

// Student errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Document errors
var (
	ErrDocumentNotFound = errors.New("document not found")
)

// Request errors
var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidFormat = errors.New("invalid data format")
	ErrFileRejected  = errors.New("file rejected")
)

// Storage errors
var (
	ErrStorageFailure = errors.New("storage failure")
)

// NewMissingFieldError creates an error for an absent required form field
func NewMissingFieldError(message string) error {
	return &CustomError{
		Err:     ErrMissingField,
		Message: message,
	}
}

// NewInvalidFormatError creates an error for an unparseable field value
func NewInvalidFormatError(message string) error {
	return &CustomError{
		Err:     ErrInvalidFormat,
		Message: message,
	}
}

// NewFileRejectedError creates an error for an upload failing validation
func NewFileRejectedError(message string) error {
	return &CustomError{
		Err:     ErrFileRejected,
		Message: message,
	}
}

// NewStorageError creates an error for a filesystem failure
func NewStorageError(message string) error {
	return &CustomError{
		Err:     ErrStorageFailure,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
