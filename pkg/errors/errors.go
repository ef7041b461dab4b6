package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInternal          = errors.New("internal error")
)

// Kind classifies a BusinessError for the handler boundary.
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindNotFound          Kind = "NotFound"
	KindForbidden         Kind = "Forbidden"
	KindUnauthorized      Kind = "Unauthorized"
	KindConflict          Kind = "Conflict"
	KindInsufficientStock Kind = "InsufficientStock"
	KindInternal          Kind = "InternalError"
)

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a BusinessError against the sentinel of its kind,
// whatever the wrapped cause is.
func (e *BusinessError) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeEquipmentNotFound    = "EQUIPMENT_NOT_FOUND"
	ErrCodeLabNotFound          = "LAB_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeDuplicate            = "DUPLICATE"
	ErrCodeInUse                = "RESOURCE_IN_USE"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

func kindSentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindUnauthorized:
		return ErrUnauthorized
	case KindConflict:
		return ErrConflict
	case KindInsufficientStock:
		return ErrInsufficientStock
	default:
		return ErrInternal
	}
}

// HTTPStatus maps an error to the status code the API answers with.
// Anything that is not a BusinessError is an internal error.
func HTTPStatus(err error) int {
	var be *BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}
	switch be.Kind {
	case KindValidation, KindConflict, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AsBusiness returns err as a BusinessError, wrapping unknown errors as internal.
func AsBusiness(err error) *BusinessError {
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return NewBusinessError(KindInternal, ErrCodeInternal, "unexpected error", err)
}

// Validation builds a validation error carrying field-level detail.
func Validation(message string, fields map[string]string) *BusinessError {
	e := NewBusinessError(KindValidation, ErrCodeValidation, message, nil)
	e.Fields = fields
	return e
}

// ValidationField is a shorthand for a single offending field.
func ValidationField(field, problem string) *BusinessError {
	return Validation(fmt.Sprintf("invalid %s", field), map[string]string{field: problem})
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		nil,
	)
}

func WrapEquipmentNotFound(equipmentID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeEquipmentNotFound,
		fmt.Sprintf("Equipment with ID %s not found", equipmentID),
		nil,
	)
}

func WrapLabNotFound(labID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeLabNotFound,
		fmt.Sprintf("Lab with ID %s not found", labID),
		nil,
	)
}

func WrapUserNotFound(userID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeUserNotFound,
		fmt.Sprintf("User with ID %s not found", userID),
		nil,
	)
}

func WrapNotificationNotFound(id string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeNotificationNotFound,
		fmt.Sprintf("Notification with ID %s not found", id),
		nil,
	)
}

func WrapInsufficientStock(equipmentID string, requested, available int) *BusinessError {
	return NewBusinessError(
		KindInsufficientStock,
		ErrCodeInsufficientStock,
		fmt.Sprintf("Equipment %s has %d unit(s) available, %d requested", equipmentID, available, requested),
		nil,
	)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(KindForbidden, ErrCodeForbidden, message, nil)
}

func WrapUnauthorized(message string) *BusinessError {
	return NewBusinessError(KindUnauthorized, ErrCodeUnauthorized, message, nil)
}

func WrapDuplicate(resource, field, value string) *BusinessError {
	e := NewBusinessError(
		KindConflict,
		ErrCodeDuplicate,
		fmt.Sprintf("%s with %s %s already exists", resource, field, value),
		nil,
	)
	e.Fields = map[string]string{field: "already in use"}
	return e
}

func WrapInUse(resource, id, reason string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeInUse,
		fmt.Sprintf("%s %s cannot be removed: %s", resource, id, reason),
		nil,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
