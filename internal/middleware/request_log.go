package middleware

import (
	"net/http"
	"time"

	"pill-dispenser/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog registra cada request con status, latencia y request id (de chimw.RequestID).
// Los 5xx salen como error, los 4xx como warn y el resto como info.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "http"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]any{
				"status":     status,
				"method":     r.Method,
				"url":        r.URL.String(),
				"remote_ip":  r.RemoteAddr,
				"protocol":   r.Proto,
				"size":       ww.BytesWritten(),
				"latency":    time.Since(start).String(),
				"user_agent": r.UserAgent(),
				"request_id": chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= 500:
				log.Error("request", fields)
			case status >= 400:
				log.Warn("request", fields)
			default:
				log.Info("request", fields)
			}
		})
	}
}
