package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Request is one completion call to an external model service.
type Request struct {
	Provider    string
	ModelID     string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Completer is the single outbound dependency of the generation path.
// Implementations must honor ctx cancellation; a disconnected caller
// abandons the in-flight call rather than completing it.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrorKind classifies provider failures once, at the client boundary, so
// the orchestrator never inspects provider-specific status fields.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRateLimited
	KindAuthFailed
	KindBadRequest
	KindUnavailable
)

// Error is a classified provider failure.
type Error struct {
	Kind     ErrorKind
	Provider string
	Detail   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return fmt.Sprintf("%s: rate limited", e.Provider)
	case KindAuthFailed:
		return fmt.Sprintf("%s: authentication failed", e.Provider)
	case KindBadRequest:
		return fmt.Sprintf("%s: rejected request: %s", e.Provider, e.Detail)
	case KindUnavailable:
		return fmt.Sprintf("%s: service unavailable", e.Provider)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
	}
}

// StatusCode maps the failure to an HTTP status for the boundary layer.
func (e *Error) StatusCode() int {
	if e.Kind == KindRateLimited {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

// classifyStatus translates a provider HTTP status into an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthFailed
	case status >= 400 && status < 500:
		return KindBadRequest
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}
