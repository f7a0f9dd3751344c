package middleware

import (
	"net/http"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request with method, path, status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", chimw.GetReqID(r.Context()),
		}
		if user := GetUserFromContext(r); user != nil {
			attrs = append(attrs, "user_id", user.Id)
		}
		if status >= http.StatusInternalServerError {
			logger.Log.Error("http", attrs...)
			return
		}
		logger.Log.Info("http", attrs...)
	})
}
