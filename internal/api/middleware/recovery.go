package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
)

// Logger is the logging interface the middleware needs.
type Logger interface {
	Error(format string, v ...interface{})
}

// Recovery converts handler panics into 500 responses.
func Recovery(log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic in %s %s: %v", r.Method, r.URL.Path, rec)
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
