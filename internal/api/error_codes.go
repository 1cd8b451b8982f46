// internal/api/error_codes.go
package api

// API error codes. Codes raised by the application layer come from
// errors.AppError.Code and are passed through unchanged.
const (
	// generic
	ErrorBadRequest        = "BAD_REQUEST"
	ErrorNotFound          = "NOT_FOUND"
	ErrorInternalError     = "INTERNAL_ERROR"
	ErrorRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrorUnauthorized      = "UNAUTHORIZED"
	ErrorForbidden         = "FORBIDDEN"

	// pages
	ErrorPageNotFound    = "PAGE_NOT_FOUND"
	ErrorInvalidPlaybook = "INVALID_PLAYBOOK"
	ErrorInvalidWindow   = "INVALID_WINDOW"

	// export
	ErrorTaskNotFound         = "TASK_NOT_FOUND"
	ErrorExportRequestInvalid = "EXPORT_REQUEST_INVALID"
)
