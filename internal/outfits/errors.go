package outfits

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRateLimited    = errors.New("rate limited")
	ErrQuotaExhausted = errors.New("quota exhausted")
	ErrNotConfigured  = errors.New("gateway not configured")
	ErrProviderFailed = errors.New("provider failed")
)

// Messages returned to callers of the provider endpoint.
const (
	MessageRateLimited    = "Rate limit exceeded. Please try again in a moment."
	MessageQuotaExhausted = "AI credits exhausted. Please add more credits."
	MessageNotConfigured  = "AI gateway is not configured"
	MessageUnexpected     = "An unexpected error occurred"
)

// ProviderError is a generation failure whose Message is safe to return to the caller.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProviderFailed}
	}
	return []error{ErrProviderFailed, e.Cause}
}
