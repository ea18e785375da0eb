package web

import (
	"net/http"

	"github.com/PauloHFS/inkpress/internal/policies"
)

// Posts

// handleListPosts godoc
// @Summary List posts
// @Description Anonymous callers and readers see published posts only; staff see drafts too.
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page (max 100)"
// @Param category query int false "Category id"
// @Param tag query int false "Tag id"
// @Param author query int false "Author id"
// @Param status query string false "draft or published"
// @Param search query string false "Search in title and content"
// @Param ordering query string false "created_at, updated_at, published_at or title, optionally prefixed with -"
// @Success 200 {object} envelope.Envelope[db.Page[services.PostListItem]]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts [get]
func handleListPosts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionList)
}

// handleGetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} envelope.Envelope[services.PostDetail]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts/{id} [get]
func handleGetPost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionRetrieve)
}

// handleCreatePost godoc
// @Summary Create a post
// @Description Admins and editors only. The caller becomes the author.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PostPayload true "Post"
// @Success 201 {object} envelope.Envelope[services.PostDetail]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 401 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts [post]
func handleCreatePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionCreate)
}

// handleUpdatePost godoc
// @Summary Replace a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post id"
// @Param body body services.PostPayload true "Post"
// @Success 200 {object} envelope.Envelope[services.PostDetail]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts/{id} [put]
func handleUpdatePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionUpdate)
}

// handlePatchPost godoc
// @Summary Partially update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post id"
// @Param body body services.PostPayload true "Fields to change"
// @Success 200 {object} envelope.Envelope[services.PostDetail]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts/{id} [patch]
func handlePatchPost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionPartialUpdate)
}

// handleDeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post id"
// @Success 200 {object} envelope.Envelope[any]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/posts/{id} [delete]
func handleDeletePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindPost, policies.ActionDestroy)
}

// Categories

// handleListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} envelope.Envelope[[]db.Category]
// @Router /api/categories [get]
func handleListCategories(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionList)
}

// handleGetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category id"
// @Success 200 {object} envelope.Envelope[db.Category]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/categories/{id} [get]
func handleGetCategory(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionRetrieve)
}

// handleCreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CategoryPayload true "Category"
// @Success 201 {object} envelope.Envelope[db.Category]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 409 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/categories [post]
func handleCreateCategory(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionCreate)
}

// handleUpdateCategory godoc
// @Summary Replace a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category id"
// @Param body body services.CategoryPayload true "Category"
// @Success 200 {object} envelope.Envelope[db.Category]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/categories/{id} [put]
func handleUpdateCategory(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionUpdate)
}

// handlePatchCategory godoc
// @Summary Partially update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category id"
// @Param body body services.CategoryPayload true "Fields to change"
// @Success 200 {object} envelope.Envelope[db.Category]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/categories/{id} [patch]
func handlePatchCategory(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionPartialUpdate)
}

// handleDeleteCategory godoc
// @Summary Delete a category
// @Description Posts in the category are kept and lose their category.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category id"
// @Success 200 {object} envelope.Envelope[any]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/categories/{id} [delete]
func handleDeleteCategory(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindCategory, policies.ActionDestroy)
}

// Tags

// handleListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {object} envelope.Envelope[[]db.Tag]
// @Router /api/tags [get]
func handleListTags(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionList)
}

// handleGetTag godoc
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} envelope.Envelope[db.Tag]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/tags/{id} [get]
func handleGetTag(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionRetrieve)
}

// handleCreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.TagPayload true "Tag"
// @Success 201 {object} envelope.Envelope[db.Tag]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 409 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/tags [post]
func handleCreateTag(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionCreate)
}

// handleUpdateTag godoc
// @Summary Replace a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag id"
// @Param body body services.TagPayload true "Tag"
// @Success 200 {object} envelope.Envelope[db.Tag]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/tags/{id} [put]
func handleUpdateTag(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionUpdate)
}

// handlePatchTag godoc
// @Summary Partially update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag id"
// @Param body body services.TagPayload true "Fields to change"
// @Success 200 {object} envelope.Envelope[db.Tag]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/tags/{id} [patch]
func handlePatchTag(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionPartialUpdate)
}

// handleDeleteTag godoc
// @Summary Delete a tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag id"
// @Success 200 {object} envelope.Envelope[any]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/tags/{id} [delete]
func handleDeleteTag(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindTag, policies.ActionDestroy)
}

// Users

// handleListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page (max 100)"
// @Param search query string false "Search in username and names"
// @Success 200 {object} envelope.Envelope[db.Page[services.UserView]]
// @Router /api/users [get]
func handleListUsers(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindUser, policies.ActionList)
}

// handleGetUser godoc
// @Summary Get a user
// @Description Email is only returned to the account itself and to admins.
// @Tags users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} envelope.Envelope[services.UserView]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/users/{id} [get]
func handleGetUser(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindUser, policies.ActionRetrieve)
}

// handlePatchUser godoc
// @Summary Update a user
// @Description The account itself or an admin. Only admins may change the role.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param body body services.UserPayload true "Fields to change"
// @Success 200 {object} envelope.Envelope[services.UserView]
// @Failure 400 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/users/{id} [patch]
func handlePatchUser(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindUser, policies.ActionPartialUpdate)
}

// handleDeleteUser godoc
// @Summary Delete a user
// @Description Admins only. The user's posts are deleted with them.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} envelope.Envelope[any]
// @Failure 403 {object} envelope.Envelope[envelope.ErrorData]
// @Failure 404 {object} envelope.Envelope[envelope.ErrorData]
// @Router /api/users/{id} [delete]
func handleDeleteUser(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return serveResource(deps, w, r, policies.KindUser, policies.ActionDestroy)
}
