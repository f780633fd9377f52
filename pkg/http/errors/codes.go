package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeTokenExpired = "token_expired"
	ErrCodeInvalidKey   = "invalid_api_key"

	// Validation errors
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Scheduling errors
	ErrCodeAlreadyPosted = "already_posted"
	ErrCodeNoSchedule    = "no_schedule"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
