package live

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vango-dev/notes/pkg/telemetry"
)

// instrument wraps each request in a span and records its duration by
// route pattern.
func (h *Hub) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := telemetry.StartSpan(r.Context(), "live "+r.URL.Path,
			attribute.String("http.method", r.Method),
			attribute.String("http.request_id", middleware.GetReqID(r.Context())),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			// Hijacked for a WebSocket; the handshake answered 101.
			status = http.StatusSwitchingProtocols
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		span.SetName("live " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		case status < http.StatusBadRequest:
			span.SetStatus(codes.Ok, "")
		}

		d := time.Since(start)
		h.metrics.HTTPRequest(r.Method+" "+route, strconv.Itoa(status), d)
		h.logger.Debug("live: request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
