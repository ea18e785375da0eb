package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PauloHFS/inkpress/internal/envelope"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
	"github.com/PauloHFS/inkpress/internal/token"
)

type fakeResolver map[int64]policies.Actor

func (f fakeResolver) ResolveActor(_ context.Context, userID int64) (policies.Actor, error) {
	if actor, ok := f[userID]; ok {
		return actor, nil
	}
	return policies.Anonymous, &services.Error{Kind: services.KindUnauthenticated, Message: "user not found"}
}

func TestAuthenticate(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute, time.Hour)
	resolver := fakeResolver{7: {ID: 7, Role: policies.RoleEditor}}

	valid, _ := tokens.Issue(7)
	ghost, _ := tokens.Issue(99)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  policies.Actor
	}{
		{"no header is anonymous", "", http.StatusOK, policies.Anonymous},
		{"valid access token", "Bearer " + valid.Access, http.StatusOK, policies.Actor{ID: 7, Role: policies.RoleEditor}},
		{"refresh token rejected", "Bearer " + valid.Refresh, http.StatusUnauthorized, policies.Anonymous},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, policies.Anonymous},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, policies.Anonymous},
		{"deleted user", "Bearer " + ghost.Access, http.StatusUnauthorized, policies.Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got policies.Actor
			handler := Authenticate(tokens, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetActor(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if got != tt.wantActor {
				t.Errorf("expected actor %+v, got %+v", tt.wantActor, got)
			}
			if rr.Code != http.StatusOK {
				var env envelope.Envelope[json.RawMessage]
				if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
					t.Fatalf("error body is not an envelope: %v", err)
				}
				if env.StatusCode != tt.wantStatus || env.Message == "" {
					t.Errorf("unexpected envelope %+v", env)
				}
			}
		})
	}
}
