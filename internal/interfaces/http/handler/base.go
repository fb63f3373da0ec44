package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	application "github.com/opsdash/backend/internal/application/reconciliation"
	domain "github.com/opsdash/backend/internal/domain/reconciliation"
	"github.com/opsdash/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with aggregate counts
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total, synced, pending int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, synced, pending))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	statusCode := dto.GetHTTPStatus(code)
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	))
}

// errorCode maps domain and application errors to API error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return dto.ErrCodeNotFound
	case errors.Is(err, domain.ErrUpdateTimeout):
		return dto.ErrCodeUpstreamTimeout
	case errors.Is(err, domain.ErrUpdateRejected):
		return dto.ErrCodeUpstreamRejected
	case errors.Is(err, domain.ErrSourceUnavailable):
		return dto.ErrCodeUpstreamUnavailable
	case errors.Is(err, domain.ErrSourceRequestFailed):
		return dto.ErrCodeUpstreamResponse
	case errors.Is(err, domain.ErrInvalidResponse):
		return dto.ErrCodeUpstreamResponse
	case errors.Is(err, application.ErrNoTarget):
		return dto.ErrCodeBadRequest
	case errors.Is(err, application.ErrEmptyUpdate):
		return dto.ErrCodeBadRequest
	default:
		return dto.ErrCodeInternal
	}
}

// HandleError converts domain and application errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := errorCode(err)
	message := err.Error()
	if code == dto.ErrCodeInternal {
		message = "An unexpected error occurred"
	}

	requestID := getRequestID(c)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, requestID))
}
