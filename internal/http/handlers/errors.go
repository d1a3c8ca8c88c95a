package handlers

// Stable machine-readable error codes. Clients branch on these while the
// `error` message stays human-readable.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeTimeout          = "request_timeout"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeInvalidResponse  = "invalid_response"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
