package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their own codes
// (shared.Code*) in the envelope.
const (
	// ErrCodeInternal is used for errors that carry no domain code
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when the body cannot be decoded
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeTokenInvalid is used when a bearer token is missing, invalid or revoked
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeBodyTooLarge is used when the request body exceeds the limit
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
	// ErrCodeTimeout is used when a request exceeds its deadline
	ErrCodeTimeout = "ERR_TIMEOUT"
	// ErrCodeRouteNotFound is used for unknown routes
	ErrCodeRouteNotFound = "ERR_ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Resource lookups -> 404
	shared.CodeNotFound:        http.StatusNotFound,
	shared.CodeProductNotFound: http.StatusNotFound,
	shared.CodeItemNotFound:    http.StatusNotFound,
	shared.CodeOrderNotFound:   http.StatusNotFound,
	ErrCodeRouteNotFound:       http.StatusNotFound,

	// Input -> 400
	shared.CodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidJSON:    http.StatusBadRequest,

	// Business rules -> 422
	shared.CodeStockExceeded:           http.StatusUnprocessableEntity,
	shared.CodeEmptyCart:               http.StatusUnprocessableEntity,
	shared.CodeProductInactive:         http.StatusUnprocessableEntity,
	shared.CodeInvalidStatusTransition: http.StatusUnprocessableEntity,
	shared.CodeProductInUse:            http.StatusUnprocessableEntity,

	// Conflicts -> 409
	shared.CodeAlreadyExists:    http.StatusConflict,
	shared.CodeDuplicateRequest: http.StatusConflict,

	// Auth
	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	// Server side -> 5xx
	shared.CodeOrderFailed: http.StatusInternalServerError,
	shared.CodeStorage:     http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeTimeout:         http.StatusGatewayTimeout,

	// Transport limits
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
