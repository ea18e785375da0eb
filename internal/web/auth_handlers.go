package web

import (
	"net/http"

	"github.com/PauloHFS/inkpress/internal/middleware"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
)

// handleRegister godoc
// @Summary Register an account
// @Description Creates a user with a profile. Roles other than reader require an admin token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account"
// @Success 201 {object} envelope.Envelope[services.UserView]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 409 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/auth/register [post]
func handleRegister(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	res, err := deps.Auth.Register(r.Context(), middleware.GetActor(r.Context()), body)
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

// handleLogin godoc
// @Summary Obtain a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} envelope.Envelope[token.Pair]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 429 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/auth/login [post]
func handleLogin(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	res, err := deps.Auth.Login(r.Context(), body)
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

// handleRefresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RefreshInput true "Refresh token"
// @Success 200 {object} envelope.Envelope[map[string]string]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/auth/refresh [post]
func handleRefresh(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	res, err := deps.Auth.Refresh(r.Context(), body)
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

// handleGetProfile godoc
// @Summary Current account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} envelope.Envelope[services.UserView]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/profile [get]
func handleGetProfile(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	res, err := deps.Users.Profile(r.Context(), middleware.GetActor(r.Context()))
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

// handleUpdateProfile godoc
// @Summary Update the current account
// @Description PUT and PATCH both accept a partial body. Changing the role requires admin.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UserPayload true "Profile fields"
// @Success 200 {object} envelope.Envelope[services.UserView]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/profile [put]
// @Router /api/profile [patch]
func handleUpdateProfile(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	actor := middleware.GetActor(r.Context())
	if !actor.Authenticated() {
		return &services.Error{Kind: services.KindUnauthenticated, Message: "authentication credentials were not provided"}
	}
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	res, err := deps.Content.Handle(r.Context(), services.Request{
		Actor:   actor,
		Action:  policies.ActionPartialUpdate,
		Kind:    policies.KindUser,
		ID:      actor.ID,
		Payload: body,
	})
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}

// handleMyPosts godoc
// @Summary Posts authored by the caller
// @Description Drafts are included; an author demoted to reader sees only their published posts.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page (max 100)"
// @Param status query string false "draft or published"
// @Param category query int false "Category id"
// @Param tag query int false "Tag id"
// @Param search query string false "Search in title and content"
// @Param ordering query string false "created_at, updated_at, published_at or title, optionally prefixed with -"
// @Success 200 {object} envelope.Envelope[db.Page[services.PostListItem]]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/my-posts [get]
func handleMyPosts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	q, err := parseListQuery(r)
	if err != nil {
		return err
	}
	res, err := deps.Content.MyPosts(r.Context(), middleware.GetActor(r.Context()), q)
	if err != nil {
		return err
	}
	respond(w, res)
	return nil
}
