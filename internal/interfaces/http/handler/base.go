// Package handler holds the gin handlers of the storefront API. Handlers
// bind and validate requests, call one application service and write the
// response envelope.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// BindError reports a request that failed to bind or validate
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleDomainError converts service errors to HTTP responses. Domain
// errors keep their code and message. Anything else is logged and
// reported as ERR_INTERNAL without detail.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.GetGinLogger(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		_ = c.Error(err)
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, getRequestID(c)))
		return
	}

	log.Error("Unexpected error", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		getRequestID(c),
	))
}

// pathID parses the :name path parameter as a UUID, writing a
// VALIDATION_ERROR response when it is malformed
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.HandleDomainError(c, shared.NewValidationError("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user, writing 401 when absent
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetJWTUserID(c)
	if id == uuid.Nil {
		h.HandleDomainError(c, shared.ErrUnauthorized.WithMessage("Authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

// respondPage writes a paginated result with meta
func respondPage[T any](h *BaseHandler, c *gin.Context, page *shared.Paginated[T]) {
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
