package errors

// Error codes for standardized error responses
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeUpstreamError = "upstream_error"
)
