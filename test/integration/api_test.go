package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/PauloHFS/inkpress/internal/config"
	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/envelope"
	"github.com/PauloHFS/inkpress/internal/middleware"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/routes"
	"github.com/PauloHFS/inkpress/internal/services"
	"github.com/PauloHFS/inkpress/internal/token"
	"github.com/PauloHFS/inkpress/internal/web"
)

type TestServer struct {
	Pool   *db.DualPool
	Server *httptest.Server
}

// setupTestServer wires the same handler chain as the server command.
func setupTestServer(t *testing.T) *TestServer {
	t.Helper()

	pool, err := db.NewDualPool(filepath.Join(t.TempDir(), "integration.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Seed(context.Background(), pool, db.SeedOptions{AdminPassword: "admin-password"}); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Env: "test", Port: "8080", CORSAllowedOrigins: []string{"https://app.example.com"}}
	tokens := token.NewManager("integration-secret", time.Minute, time.Hour)
	users := services.NewUserService(pool, 64, time.Minute)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.HandlerDeps{
		Pool:         pool,
		Content:      services.NewContentService(pool, users),
		Users:        users,
		Auth:         services.NewAuthService(pool, tokens),
		Config:       cfg,
		LoginLimiter: middleware.NewRateLimiter(rate.Inf, 1),
	})

	handler := middleware.Logger(
		middleware.Recovery(
			middleware.SecurityHeaders(false)(
				middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins))(
					middleware.NewRateLimiter(rate.Inf, 1).Handler(
						middleware.Authenticate(tokens, users)(middleware.Routed(mux)),
					),
				),
			),
		),
	)

	server := httptest.NewServer(gzhttp.GzipHandler(handler))
	t.Cleanup(func() {
		server.Close()
		pool.Close()
	})

	return &TestServer{Pool: pool, Server: server}
}

func (ts *TestServer) request(t *testing.T, method, path, access string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func (ts *TestServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := ts.request(t, http.MethodPost, routes.Login, "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, resp.StatusCode, body)
	}
	var env envelope.Envelope[token.Pair]
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(err)
	}
	return env.Data.Access
}

func (ts *TestServer) createUser(t *testing.T, username string, role policies.Role) {
	t.Helper()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	err = ts.Pool.WithTx(ctx, func(q *db.Queries) error {
		id, err := q.CreateUser(ctx, db.CreateUserParams{Username: username, PasswordHash: string(hash)})
		if err != nil {
			return err
		}
		return q.SetUserRole(ctx, id, role)
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.request(t, http.MethodGet, routes.Health, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
	var env envelope.Envelope[map[string]string]
	if err := json.Unmarshal(body, &env); err != nil || env.Data["database"] != "ok" {
		t.Errorf("unexpected health body %s", body)
	}
}

func TestSeededTaxonomyIsPublic(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.request(t, http.MethodGet, routes.Categories, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var env envelope.Envelope[[]db.Category]
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data) == 0 {
		t.Error("expected seeded categories")
	}
}

func TestEditorialWorkflow(t *testing.T) {
	ts := setupTestServer(t)
	ts.createUser(t, "writer", policies.RoleEditor)

	admin := ts.login(t, "admin", "admin-password")
	writer := ts.login(t, "writer", "password123")

	// Anyone can sign up; they start as readers.
	resp, body := ts.request(t, http.MethodPost, routes.Register, "", map[string]string{
		"username": "visitor",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %s", resp.StatusCode, body)
	}
	visitor := ts.login(t, "visitor", "password123")

	resp, body = ts.request(t, http.MethodPost, routes.Posts, writer, map[string]any{
		"title":   "Work in progress",
		"content": "<p>soon</p>",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}
	var created envelope.Envelope[services.PostDetail]
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	postPath := "/api/posts/" + strconv.FormatInt(created.Data.ID, 10)

	if resp, _ := ts.request(t, http.MethodGet, postPath, visitor, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("reader saw a draft: %d", resp.StatusCode)
	}
	if resp, _ := ts.request(t, http.MethodPost, routes.Posts, visitor, map[string]string{"title": "t", "content": "c"}); resp.StatusCode != http.StatusForbidden {
		t.Errorf("reader created a post: %d", resp.StatusCode)
	}

	if resp, body := ts.request(t, http.MethodPatch, postPath, writer, map[string]string{"status": "published"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("publish: %d %s", resp.StatusCode, body)
	}
	if resp, _ := ts.request(t, http.MethodGet, postPath, "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("published post hidden from anonymous: %d", resp.StatusCode)
	}

	// Promote the visitor; the new role applies to their current token.
	usersResp, usersBody := ts.request(t, http.MethodGet, routes.Users+"?search=visitor", "", nil)
	if usersResp.StatusCode != http.StatusOK {
		t.Fatalf("list users: %d", usersResp.StatusCode)
	}
	var page envelope.Envelope[db.Page[services.UserView]]
	if err := json.Unmarshal(usersBody, &page); err != nil || len(page.Data.Items) != 1 {
		t.Fatalf("unexpected users page %s", usersBody)
	}
	userPath := "/api/users/" + strconv.FormatInt(page.Data.Items[0].ID, 10)
	if resp, body := ts.request(t, http.MethodPatch, userPath, admin, map[string]string{"role": "editor"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("promote: %d %s", resp.StatusCode, body)
	}
	if resp, _ := ts.request(t, http.MethodPost, routes.Posts, visitor, map[string]string{"title": "t", "content": "c"}); resp.StatusCode != http.StatusCreated {
		t.Errorf("promoted editor could not create: %d", resp.StatusCode)
	}
	if resp, _ := ts.request(t, http.MethodDelete, postPath, visitor, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("editor deleted someone else's post: %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.Server.URL+routes.Posts, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Errorf("unexpected allow-origin %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestInvalidTokenIsRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.request(t, http.MethodGet, routes.Posts, "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var env envelope.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil || env.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected an error envelope, got %s", body)
	}
}

func TestResponsesAreCompressed(t *testing.T) {
	ts := setupTestServer(t)

	for i := range 30 {
		ts.createUser(t, "user"+strconv.Itoa(i), policies.RoleReader)
	}

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+routes.Users+"?page_size=100", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	// A transport with compression disabled hands back the raw body.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", resp.Header.Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope.Envelope[db.Page[services.UserView]]
	if err := json.NewDecoder(zr).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data.TotalItems < 30 {
		t.Errorf("expected at least 30 users, got %d", env.Data.TotalItems)
	}
}
