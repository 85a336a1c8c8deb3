package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// Recoverer recovers from panics in later handlers and renders the error page instead
func Recoverer(logger *log.Logger, renderError http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Printf("[ERROR] Panic recovered on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
					renderError(w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
