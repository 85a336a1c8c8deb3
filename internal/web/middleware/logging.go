package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// LoggingMiddleware logs HTTP requests with method, path, status, duration, view and size
func LoggingMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // Default status
			}

			next.ServeHTTP(rw, r)

			logger.Print(FormatLogEntry(
				r.Method,
				r.URL.Path,
				rw.statusCode,
				time.Since(start),
				viewID(r),
				rw.written,
			) + " req=" + requestID(r))
		})
	}
}

// FormatLogEntry formats a consistent log entry
func FormatLogEntry(method, path string, status int, duration time.Duration, view string, bytes int) string {
	return fmt.Sprintf(
		"method=%s path=%s status=%d duration=%s view=%s bytes=%s",
		method,
		path,
		status,
		duration.Round(time.Millisecond),
		view,
		humanize.Bytes(uint64(bytes)),
	)
}

// viewID returns a short form of the view a request belongs to, or "-"
func viewID(r *http.Request) string {
	id := r.URL.Query().Get("view")
	if id == "" && r.PostForm != nil {
		id = r.PostForm.Get("view")
	}
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return "-"
}
