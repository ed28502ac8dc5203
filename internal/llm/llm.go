package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Client abstracts the AI gateway used for styling text and outfit images.
type Client interface {
	// GenerateText returns the first choice's content, or "" when the gateway
	// answered without one.
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	// GenerateImage returns the URL of the first generated image, or "" when
	// the gateway answered without one.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrRateLimited reports a 429 from the gateway.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrQuotaExhausted reports a 402 from the gateway.
	ErrQuotaExhausted = errors.New("llm: quota exhausted")
	// ErrNotConfigured is returned when no gateway credentials are available.
	ErrNotConfigured = errors.New("llm: gateway not configured")
)

// StatusError is a non-2xx gateway answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gateway http status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway http status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is match the sentinel for the status.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrQuotaExhausted:
		return e.StatusCode == http.StatusPaymentRequired
	}
	return false
}

// PlaceholderClient stands in when no gateway is configured.
type PlaceholderClient struct{}

// GenerateText returns ErrNotConfigured.
func (PlaceholderClient) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

// GenerateImage returns ErrNotConfigured.
func (PlaceholderClient) GenerateImage(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
