package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error.
// Two domain errors are considered the same kind when their codes match,
// so errors.Is works against the sentinel values below even when the
// message was specialised for a particular product or order.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Cause:   e.Cause,
	}
}

// Wrap returns a copy of the error carrying cause
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound                = "NOT_FOUND"
	CodeAlreadyExists           = "ALREADY_EXISTS"
	CodeValidation              = "VALIDATION_ERROR"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeProductInactive         = "PRODUCT_INACTIVE"
	CodeProductInUse            = "PRODUCT_IN_USE"
	CodeStockExceeded           = "STOCK_EXCEEDED"
	CodeEmptyCart               = "EMPTY_CART"
	CodeItemNotFound            = "ITEM_NOT_FOUND"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeOrderFailed             = "ORDER_FAILED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeDuplicateRequest        = "DUPLICATE_REQUEST"
	CodeStorage                 = "STORAGE_ERROR"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation    = NewDomainError(CodeValidation, "Invalid input provided")
	ErrUnauthorized  = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden     = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrStorage       = NewDomainError(CodeStorage, "Storage operation failed")
)

// Storefront errors
var (
	ErrProductNotFound         = NewDomainError(CodeProductNotFound, "Product not found")
	ErrProductInactive         = NewDomainError(CodeProductInactive, "Product is not available")
	ErrProductInUse            = NewDomainError(CodeProductInUse, "Product is referenced by existing orders")
	ErrStockExceeded           = NewDomainError(CodeStockExceeded, "Requested quantity exceeds available stock")
	ErrEmptyCart               = NewDomainError(CodeEmptyCart, "Cart is empty")
	ErrItemNotFound            = NewDomainError(CodeItemNotFound, "Cart item not found")
	ErrOrderNotFound           = NewDomainError(CodeOrderNotFound, "Order not found")
	ErrOrderFailed             = NewDomainError(CodeOrderFailed, "Order could not be placed")
	ErrInvalidStatusTransition = NewDomainError(CodeInvalidStatusTransition, "Order status transition is not allowed")
	ErrDuplicateRequest        = NewDomainError(CodeDuplicateRequest, "Request has already been processed")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(format string, args ...any) *DomainError {
	return ErrValidation.WithMessage(format, args...)
}

// NewStorageError wraps an infrastructure failure
func NewStorageError(cause error) *DomainError {
	return ErrStorage.Wrap(cause)
}

// IsDomainError reports whether err is or wraps a DomainError
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
