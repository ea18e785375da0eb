package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PauloHFS/inkpress/internal/contextkeys"
	"github.com/PauloHFS/inkpress/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Handler(http.HandlerFunc(ok))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}

	// Other clients have their own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("second client limited: %d", rr.Code)
	}

	rl.evict(0)
	if len(rl.clients) != 0 {
		t.Errorf("expected idle clients evicted, %d left", len(rl.clients))
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON envelope, got %q", ct)
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})
	handler := Logger(Routed(mux))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	req.Header.Set("X-Request-ID", "req-123")
	handler.ServeHTTP(rr, req)

	if seen != "req-123" || rr.Header().Get("X-Request-ID") != "req-123" {
		t.Errorf("request id not propagated: ctx %q header %q", seen, rr.Header().Get("X-Request-ID"))
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posts/2", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}
}

func TestLoggerRecordsRouteBehindContextSwaps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tags/{id}", ok)

	// Stands in for Authenticate, which hands the mux a new request.
	swap := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextkeys.ActorKey, nil)))
		})
	}
	handler := Logger(swap(Routed(mux)))

	counter := metrics.HttpRequestsTotal.WithLabelValues("GET /api/tags/{id}", http.MethodGet, "200")
	before := testutil.ToFloat64(counter)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tags/3", nil))
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected the matched pattern to be counted once, got %v", got)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(DefaultCORSConfig([]string{"https://*.example.com"}))(http.HandlerFunc(ok))

	tests := []struct {
		name        string
		method      string
		origin      string
		wantAllowed bool
		wantStatus  int
	}{
		{"matching origin", http.MethodGet, "https://app.example.com", true, http.StatusOK},
		{"other origin", http.MethodGet, "https://evil.test", false, http.StatusOK},
		{"preflight", http.MethodOptions, "https://app.example.com", true, http.StatusNoContent},
		{"no origin", http.MethodGet, "", false, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/posts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			allowed := rr.Header().Get("Access-Control-Allow-Origin") == tt.origin && tt.origin != ""
			if allowed != tt.wantAllowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.wantAllowed)
			}
			if rr.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}
