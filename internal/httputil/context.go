package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	ownerIDKey contextKey = "ownerID"
)

// WithOwnerID returns a request whose context carries the authenticated
// owner identity. Set exactly once by the auth middleware; core operations
// receive the value explicitly and never reach back into the context.
func WithOwnerID(r *http.Request, ownerID string) *http.Request {
	ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
	return r.WithContext(ctx)
}

// GetOwnerID retrieves the owner identity from context, returns empty string
// if not found.
func GetOwnerID(r *http.Request) string {
	ownerID, _ := r.Context().Value(ownerIDKey).(string)
	return ownerID
}
