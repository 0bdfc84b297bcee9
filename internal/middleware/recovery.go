package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"ideaforge/internal/httputil"
)

// Recovery converts panics in downstream handlers into 500 responses so one
// bad request cannot take down the process. The panic value and stack are
// logged; the caller only sees a generic problem response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				cause := recover()
				if cause == nil {
					return
				}
				logger.Error("panic while serving request",
					"panic", cause,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
