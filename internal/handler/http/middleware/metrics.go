package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/observability"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records request counts and latency per route pattern
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		observability.HTTPRequests().WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
