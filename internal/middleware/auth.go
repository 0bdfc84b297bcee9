package middleware

import (
	"net/http"
	"strings"

	"ideaforge/internal/auth"
	"ideaforge/internal/httputil"
)

// Auth verifies the bearer token on every request and injects the resolved
// owner identity into the request context. Identity is resolved exactly once
// here; downstream code receives an immutable ownerID value.
//
// The health endpoint is exempt so load balancers can probe without credentials.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithOwnerID(r, claims.GetUserID()))
		})
	}
}
