// internal/api/response_helpers.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
)

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError is the error part of the envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PaginationMeta describes a window of the route manifest.
type PaginationMeta struct {
	Offset   int `json:"offset"`
	Limit    int `json:"limit"`
	Total    int `json:"total"`
	Returned int `json:"returned"`
}

// PaginatedResponse is an envelope carrying window metadata.
type PaginatedResponse struct {
	*APIResponse
	Meta *PaginationMeta `json:"meta,omitempty"`
}

// ResponseHelper writes envelopes.
type ResponseHelper struct {
	now func() time.Time
}

// NewResponseHelper creates a response helper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{now: time.Now}
}

func (rh *ResponseHelper) envelope(c *gin.Context, success bool) *APIResponse {
	return &APIResponse{
		Success:   success,
		Timestamp: rh.now(),
		RequestID: rh.getRequestID(c),
	}
}

// Success writes a 200 envelope.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := rh.envelope(c, true)
	response.Data = data
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusOK, response)
}

// Accepted writes a 202 envelope for work that continues in the background.
func (rh *ResponseHelper) Accepted(c *gin.Context, data interface{}, message string) {
	response := rh.envelope(c, true)
	response.Data = data
	response.Message = message
	c.JSON(http.StatusAccepted, response)
}

// PaginatedSuccess writes a 200 envelope with window metadata.
func (rh *ResponseHelper) PaginatedSuccess(c *gin.Context, data interface{}, meta *PaginationMeta) {
	response := &PaginatedResponse{APIResponse: rh.envelope(c, true), Meta: meta}
	response.Data = data
	c.JSON(http.StatusOK, response)
}

// sanitizeErrorMessage hides messages that look like they carry secrets.
func sanitizeErrorMessage(message string) string {
	lower := strings.ToLower(message)
	for _, pattern := range []string{"api_key", "apikey", "secret", "password", "token="} {
		if strings.Contains(lower, pattern) {
			return "An internal error occurred"
		}
	}
	return message
}

// Error writes an error envelope.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	apiError := &APIError{
		Code:    errorCode,
		Message: sanitizeErrorMessage(message),
	}
	if len(details) > 0 {
		apiError.Details = sanitizeErrorMessage(details[0])
	}

	response := rh.envelope(c, false)
	response.Error = apiError
	c.JSON(statusCode, response)
}

// BadRequest writes a 400.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadRequest, ErrorBadRequest, message, details...)
}

// NotFound writes a 404.
func (rh *ResponseHelper) NotFound(c *gin.Context, resource string, details ...string) {
	rh.Error(c, http.StatusNotFound, rh.getResourceNotFoundCode(resource), resource+" not found", details...)
}

// InternalError writes a 500.
func (rh *ResponseHelper) InternalError(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusInternalServerError, ErrorInternalError, message, details...)
}

// TooManyRequests writes a 429.
func (rh *ResponseHelper) TooManyRequests(c *gin.Context, message string) {
	rh.Error(c, http.StatusTooManyRequests, ErrorRateLimitExceeded, message)
}

// AppError maps an application error to its HTTP status and envelope.
func (rh *ResponseHelper) AppError(c *gin.Context, err error) {
	rh.Error(c, StatusFor(err), ErrorCodeFor(err), err.Error())
}

// Skipped writes the 422 body of a page refused by the content-depth gate.
// The body is the bare SKIPPED form so renderers can switch on status.
func (rh *ResponseHelper) Skipped(c *gin.Context, reason string) {
	c.JSON(http.StatusUnprocessableEntity, models.NewSkippedPage(reason))
}

// StatusFor returns the HTTP status of an application error.
func StatusFor(err error) int {
	switch {
	case apperrors.IsValidationError(err):
		return http.StatusBadRequest
	case apperrors.IsNotFoundError(err), apperrors.IsUnknownPlaybookError(err):
		return http.StatusNotFound
	case apperrors.IsThinContentError(err):
		return http.StatusUnprocessableEntity
	case apperrors.IsConflictError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeFor returns the stable error code of err.
func ErrorCodeFor(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return ErrorInternalError
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func (rh *ResponseHelper) getResourceNotFoundCode(resource string) string {
	switch resource {
	case "page", "route":
		return ErrorPageNotFound
	case "task":
		return ErrorTaskNotFound
	default:
		return ErrorNotFound
	}
}
