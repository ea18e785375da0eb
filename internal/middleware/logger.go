package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PauloHFS/inkpress/internal/contextkeys"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/metrics"
	"github.com/google/uuid"
)

type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logger emits one wide event per request and records the HTTP metrics.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, event := logging.NewEventContext(r.Context())
		ctx = context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
		route := new(string)
		ctx = context.WithValue(ctx, contextkeys.RouteKey, route)

		event.Add(
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		if *route == "" {
			*route = "unmatched"
		}

		event.Add(
			slog.String("route", *route),
			slog.Int("status", rw.status),
			slog.Int("size", rw.size),
			durationMS(duration),
		)

		metrics.HttpRequestsTotal.WithLabelValues(*route, r.Method, strconv.Itoa(rw.status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(*route, r.Method).Observe(duration.Seconds())

		level := slog.LevelInfo
		if rw.status >= 500 {
			level = slog.LevelError
		}

		logging.Get().Log(ctx, level, "request completed", event.Attrs()...)
	})
}

// Routed reports the pattern matched by mux back to Logger. It must wrap
// the mux directly: ServeMux sets Pattern on the request it is handed, and
// middleware in between may have replaced that request.
func Routed(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if route, ok := r.Context().Value(contextkeys.RouteKey).(*string); ok {
			*route = r.Pattern
		}
	})
}

// RequestID returns the id assigned by Logger.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}

func durationMS(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d.Nanoseconds())/1e6)
}
