package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PauloHFS/inkpress/internal/config"
	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/envelope"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/middleware"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/routes"
	"github.com/PauloHFS/inkpress/internal/services"
)

const maxBodyBytes = 1 << 20

type HandlerDeps struct {
	Pool    *db.DualPool
	Content *services.ContentService
	Users   *services.UserService
	Auth    *services.AuthService
	Config  *config.Config
	// LoginLimiter throttles the credential endpoints; nil disables it.
	LoginLimiter *middleware.RateLimiter
}

// AppHandler is a handler that returns its error instead of writing it.
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

// Handle adapts an AppHandler to http.HandlerFunc. Caller errors become
// their envelope; anything else is logged and reported as a 500.
func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(deps, w, r)
		if err == nil {
			return
		}

		if e, ok := services.AsError(err); ok {
			logging.AddToEvent(r.Context(), slog.String("error_kind", e.Kind.String()))
			envelope.Error(w, statusFor(e.Kind), e.Message, e.Fields)
			return
		}

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			envelope.Error(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}

		logging.Get().Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.Any("error", err),
		)
		envelope.Error(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respond writes a successful result.
func respond(w http.ResponseWriter, res services.Result) {
	status := http.StatusOK
	if res.Status == services.OutcomeCreated {
		status = http.StatusCreated
	}
	message := res.Message
	if message == "" {
		message = "ok"
	}
	envelope.Write(w, status, message, res.Data)
}

func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	credentials := func(h http.HandlerFunc) http.Handler {
		if deps.LoginLimiter == nil {
			return h
		}
		return deps.LoginLimiter.Handler(h)
	}

	// Auth
	mux.Handle("POST "+routes.Register, credentials(Handle(deps, handleRegister)))
	mux.Handle("POST "+routes.Login, credentials(Handle(deps, handleLogin)))
	mux.Handle("POST "+routes.Refresh, credentials(Handle(deps, handleRefresh)))

	// Own account
	mux.HandleFunc("GET "+routes.Profile, Handle(deps, handleGetProfile))
	mux.HandleFunc("PUT "+routes.Profile, Handle(deps, handleUpdateProfile))
	mux.HandleFunc("PATCH "+routes.Profile, Handle(deps, handleUpdateProfile))
	mux.HandleFunc("GET "+routes.MyPosts, Handle(deps, handleMyPosts))

	// Posts
	mux.HandleFunc("GET "+routes.Posts, Handle(deps, handleListPosts))
	mux.HandleFunc("POST "+routes.Posts, Handle(deps, handleCreatePost))
	mux.HandleFunc("GET "+routes.Post, Handle(deps, handleGetPost))
	mux.HandleFunc("PUT "+routes.Post, Handle(deps, handleUpdatePost))
	mux.HandleFunc("PATCH "+routes.Post, Handle(deps, handlePatchPost))
	mux.HandleFunc("DELETE "+routes.Post, Handle(deps, handleDeletePost))

	// Taxonomy
	mux.HandleFunc("GET "+routes.Categories, Handle(deps, handleListCategories))
	mux.HandleFunc("POST "+routes.Categories, Handle(deps, handleCreateCategory))
	mux.HandleFunc("GET "+routes.Category, Handle(deps, handleGetCategory))
	mux.HandleFunc("PUT "+routes.Category, Handle(deps, handleUpdateCategory))
	mux.HandleFunc("PATCH "+routes.Category, Handle(deps, handlePatchCategory))
	mux.HandleFunc("DELETE "+routes.Category, Handle(deps, handleDeleteCategory))

	mux.HandleFunc("GET "+routes.Tags, Handle(deps, handleListTags))
	mux.HandleFunc("POST "+routes.Tags, Handle(deps, handleCreateTag))
	mux.HandleFunc("GET "+routes.Tag, Handle(deps, handleGetTag))
	mux.HandleFunc("PUT "+routes.Tag, Handle(deps, handleUpdateTag))
	mux.HandleFunc("PATCH "+routes.Tag, Handle(deps, handlePatchTag))
	mux.HandleFunc("DELETE "+routes.Tag, Handle(deps, handleDeleteTag))

	// Users
	mux.HandleFunc("GET "+routes.Users, Handle(deps, handleListUsers))
	mux.HandleFunc("GET "+routes.User, Handle(deps, handleGetUser))
	mux.HandleFunc("PATCH "+routes.User, Handle(deps, handlePatchUser))
	mux.HandleFunc("DELETE "+routes.User, Handle(deps, handleDeleteUser))

	mux.HandleFunc("GET "+routes.Health, Handle(deps, handleHealth))

	// Unknown /api paths answer with an envelope instead of the mux's text 404.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		envelope.Error(w, http.StatusNotFound, "not found", nil)
	})
}

// serveResource turns an HTTP request into a resource request and writes
// its result.
func serveResource(deps HandlerDeps, w http.ResponseWriter, r *http.Request, kind policies.Kind, action policies.Action) error {
	req := services.Request{
		Actor:  middleware.GetActor(r.Context()),
		Action: action,
		Kind:   kind,
	}

	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return &services.Error{Kind: services.KindNotFound, Message: string(kind) + " not found"}
		}
		req.ID = id
	}

	switch action {
	case policies.ActionList:
		q, err := parseListQuery(r)
		if err != nil {
			return err
		}
		req.Query = q
	case policies.ActionCreate, policies.ActionUpdate, policies.ActionPartialUpdate:
		body, err := readBody(w, r)
		if err != nil {
			return err
		}
		req.Payload = body
	case policies.ActionRetrieve, policies.ActionDestroy:
	}

	res, err := deps.Content.Handle(r.Context(), req)
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func parseListQuery(r *http.Request) (services.ListQuery, error) {
	values := r.URL.Query()
	q := services.ListQuery{
		Status:   policies.Status(values.Get("status")),
		Search:   values.Get("search"),
		Ordering: values.Get("ordering"),
	}

	fields := map[string]string{}
	intParam := func(name string) int64 {
		raw := values.Get(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			fields[name] = "must be a positive integer"
			return 0
		}
		return n
	}

	q.Page = int(intParam("page"))
	q.PageSize = int(intParam("page_size"))
	q.Category = intParam("category")
	q.Tag = intParam("tag")
	q.Author = intParam("author")

	if len(fields) > 0 {
		return q, &services.Error{Kind: services.KindValidation, Message: "invalid query parameters", Fields: fields}
	}
	return q, nil
}

// handleHealth godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} envelope.Envelope[map[string]string]
// @Failure 503 {object} envelope.Envelope[envelope.ErrorData]
// @Router /health [get]
func handleHealth(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.Pool.Ping(r.Context()); err != nil {
		logging.Get().Error("health check failed: db unreachable", "error", err)
		envelope.Error(w, http.StatusServiceUnavailable, "database unreachable", nil)
		return nil
	}
	envelope.Write(w, http.StatusOK, "ok", map[string]string{"database": "ok"})
	return nil
}
