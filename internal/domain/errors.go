package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches two domain errors carrying the same code and message, so wrapped
// sentinels still compare equal with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrInvalidPrice         = NewDomainError(ErrCodeValidation, "price must be a non-negative amount")
	ErrInvalidSlug          = NewDomainError(ErrCodeValidation, "slug must be lowercase letters, digits and dashes")
	ErrInvalidEmail         = NewDomainError(ErrCodeValidation, "invalid email address")
	ErrMessageTooLong       = NewDomainError(ErrCodeValidation, "message is too long")
	ErrInvalidCursor        = NewDomainError(ErrCodeValidation, "invalid pagination cursor")
)

// Not found errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeNotFound, "product not found")
	ErrHeroNotFound      = NewDomainError(ErrCodeNotFound, "hero content not found")
	ErrSearchLogNotFound = NewDomainError(ErrCodeNotFound, "search log not found")
	ErrUnsupportedLocale = NewDomainError(ErrCodeNotFound, "unsupported locale")
)

// Already exists errors
var (
	ErrProductSlugTaken = NewDomainError(ErrCodeAlreadyExists, "product slug already in use")
)

// Authorization errors
var (
	ErrInvalidAdminToken = NewDomainError(ErrCodeUnauthorized, "invalid admin token")
)

// Backend errors
var (
	ErrContentUnavailable   = NewDomainError(ErrCodeUnavailable, "content backend unavailable")
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
	ErrSearchFailed         = NewDomainError(ErrCodeInternalError, "search failed")
)
