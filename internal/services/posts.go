package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/policies"
)

// PostPayload is the writable part of a post. Nil fields were not sent.
// Category 0 clears the category; TagIDs replaces the whole tag set.
type PostPayload struct {
	Title    *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Content  *string          `json:"content" validate:"omitnil,min=1"`
	Category *int64           `json:"category" validate:"omitnil,gte=0"`
	TagIDs   []int64          `json:"tag_ids" validate:"omitnil,dive,gt=0"`
	Status   *policies.Status `json:"status" validate:"omitnil,oneof=draft published"`
}

type PostDetail struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Author         int64           `json:"author"`
	AuthorUsername string          `json:"author_username"`
	Category       *int64          `json:"category"`
	CategoryName   *string         `json:"category_name"`
	Tags           []db.Tag        `json:"tags"`
	Status         policies.Status `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	PublishedAt    *time.Time      `json:"published_at"`
}

type PostListItem struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	AuthorUsername string          `json:"author_username"`
	CategoryName   *string         `json:"category_name"`
	TagsCount      int64           `json:"tags_count"`
	Status         policies.Status `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	PublishedAt    *time.Time      `json:"published_at"`
}

func newPostDetail(p db.Post, tags []db.Tag) PostDetail {
	if tags == nil {
		tags = []db.Tag{}
	}
	d := PostDetail{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		Author:         p.AuthorID,
		AuthorUsername: p.AuthorUsername,
		Tags:           tags,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		PublishedAt:    nullTime(p.PublishedAt),
	}
	if p.CategoryID.Valid {
		d.Category = &p.CategoryID.Int64
		d.CategoryName = &p.CategoryName.String
	}
	return d
}

func newPostListItem(p db.Post) PostListItem {
	item := PostListItem{
		ID:             p.ID,
		Title:          p.Title,
		AuthorUsername: p.AuthorUsername,
		TagsCount:      p.TagsCount,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		PublishedAt:    nullTime(p.PublishedAt),
	}
	if p.CategoryName.Valid {
		item.CategoryName = &p.CategoryName.String
	}
	return item
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func (s *ContentService) listPosts(ctx context.Context, req Request) (Result, error) {
	if err := authorize(ctx, req.Actor, req.Action, policies.KindPost, nil); err != nil {
		return Result{}, err
	}

	q := req.Query
	filter, err := postFilter(q)
	if err != nil {
		return Result{}, err
	}
	filter.AuthorID = q.Author
	return s.pagePosts(ctx, req.Actor, filter, q, false)
}

// MyPosts lists the actor's own posts, still narrowed by visibility: an
// author who lost the editor role no longer sees their drafts.
func (s *ContentService) MyPosts(ctx context.Context, actor policies.Actor, q ListQuery) (Result, error) {
	ctx, span := tracer.Start(ctx, "post.my_posts")
	defer span.End()

	if !actor.Authenticated() {
		return Result{}, newError(KindUnauthenticated, "authentication credentials were not provided")
	}
	filter, err := postFilter(q)
	if err != nil {
		return Result{}, err
	}
	filter.AuthorID = actor.ID
	return s.pagePosts(ctx, actor, filter, q, true)
}

// postFilter validates the list query and builds the SQL filter from it.
// The author is left to the caller.
func postFilter(q ListQuery) (db.PostFilter, error) {
	if q.Ordering != "" && !db.ValidPostOrdering(q.Ordering) {
		return db.PostFilter{}, errField("ordering", fmt.Sprintf("unknown ordering %q", q.Ordering))
	}
	if q.Status != "" && !q.Status.Valid() {
		return db.PostFilter{}, errField("status", fmt.Sprintf("%q is not a valid choice", q.Status))
	}
	return db.PostFilter{
		Status:     q.Status,
		CategoryID: q.Category,
		TagID:      q.Tag,
		Search:     strings.TrimSpace(q.Search),
	}, nil
}

func (s *ContentService) pagePosts(ctx context.Context, actor policies.Actor, filter db.PostFilter, q ListQuery, ownedOnly bool) (Result, error) {
	paging := db.PagingParams{Page: q.Page, PerPage: q.PageSize}.Normalize()
	page := db.PagedResult[PostListItem]{
		Items:       []PostListItem{},
		CurrentPage: paging.Page,
		PerPage:     paging.PerPage,
	}

	if !policies.SeesDrafts(actor) {
		if filter.Status == policies.StatusDraft {
			return Result{Status: OutcomeOK, Data: page.Page()}, nil
		}
		filter.Status = policies.StatusPublished
	}

	queries := s.pool.Queries()
	count, err := queries.CountPosts(ctx, filter)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count posts: %w", err)
	}
	posts, err := queries.ListPosts(ctx, db.ListPostsParams{
		Filter:   filter,
		Ordering: q.Ordering,
		Limit:    paging.Limit(),
		Offset:   paging.Offset(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to list posts: %w", err)
	}

	seq := slices.Values(posts)
	if ownedOnly {
		seq = policies.FilterOwned(actor, seq)
	}
	for p := range policies.FilterVisible(actor, seq) {
		page.Items = append(page.Items, newPostListItem(p))
	}
	page.TotalItems = int(count)

	return Result{Status: OutcomeOK, Data: page.Page()}, nil
}

func (s *ContentService) retrievePost(ctx context.Context, req Request) (Result, error) {
	queries := s.pool.Queries()

	post, err := queries.GetPost(ctx, req.ID)
	if err != nil {
		return Result{}, storeError(policies.KindPost, err)
	}
	target := post.PolicyTarget()
	if err := authorize(ctx, req.Actor, req.Action, policies.KindPost, &target); err != nil {
		return Result{}, err
	}

	tags, err := queries.ListPostTags(ctx, post.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load tags of post %d: %w", post.ID, err)
	}
	return Result{Status: OutcomeOK, Data: newPostDetail(post, tags)}, nil
}

func (s *ContentService) createPost(ctx context.Context, req Request) (Result, error) {
	if err := authorize(ctx, req.Actor, req.Action, policies.KindPost, nil); err != nil {
		return Result{}, err
	}

	var p PostPayload
	if err := decode(req.Payload, &p); err != nil {
		return Result{}, err
	}
	if err := required(map[string]bool{"title": p.Title != nil, "content": p.Content != nil}); err != nil {
		return Result{}, err
	}
	title, content, err := s.clean(*p.Title, *p.Content)
	if err != nil {
		return Result{}, err
	}

	params := db.CreatePostParams{
		Title:    title,
		Content:  content,
		AuthorID: req.Actor.ID,
		Status:   policies.StatusDraft,
	}
	if p.Status != nil {
		params.Status = *p.Status
	}
	if p.Category != nil && *p.Category != 0 {
		params.CategoryID = sql.NullInt64{Int64: *p.Category, Valid: true}
	}
	if params.Status == policies.StatusPublished {
		params.PublishedAt = sql.NullTime{Time: s.now(), Valid: true}
	}

	var detail PostDetail
	err = s.pool.WithTx(ctx, func(q *db.Queries) error {
		if err := checkPostRefs(ctx, q, p); err != nil {
			return err
		}
		id, err := q.CreatePost(ctx, params)
		if errors.Is(err, db.ErrForeignKey) {
			// References were checked above, so the author row is gone.
			s.users.Invalidate(req.Actor.ID)
			return newError(KindUnauthenticated, "user not found")
		}
		if err != nil {
			return postWriteError("category", err)
		}
		if len(p.TagIDs) > 0 {
			if err := q.SetPostTags(ctx, id, p.TagIDs); err != nil {
				return postWriteError("tag_ids", err)
			}
		}
		detail, err = loadPostDetail(ctx, q, id)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: OutcomeCreated, Message: "post created", Data: detail}, nil
}

func (s *ContentService) updatePost(ctx context.Context, req Request) (Result, error) {
	var detail PostDetail
	err := s.pool.WithTx(ctx, func(q *db.Queries) error {
		post, err := s.resolvePostForWrite(ctx, q, req)
		if err != nil {
			return err
		}

		var p PostPayload
		if err := decode(req.Payload, &p); err != nil {
			return err
		}
		if req.Action == policies.ActionUpdate {
			if err := required(map[string]bool{"title": p.Title != nil, "content": p.Content != nil}); err != nil {
				return err
			}
		}

		params := db.UpdatePostParams{
			ID:          post.ID,
			Title:       post.Title,
			Content:     post.Content,
			CategoryID:  post.CategoryID,
			Status:      post.Status,
			PublishedAt: post.PublishedAt,
		}
		if p.Title != nil || p.Content != nil {
			title, content := params.Title, params.Content
			if p.Title != nil {
				title = *p.Title
			}
			if p.Content != nil {
				content = *p.Content
			}
			if params.Title, params.Content, err = s.clean(title, content); err != nil {
				return err
			}
		}
		if p.Category != nil {
			params.CategoryID = sql.NullInt64{Int64: *p.Category, Valid: *p.Category != 0}
		}
		if p.Status != nil {
			params.Status = *p.Status
		}
		// published_at records the first publication and survives unpublishing.
		if params.Status == policies.StatusPublished && !params.PublishedAt.Valid {
			params.PublishedAt = sql.NullTime{Time: s.now(), Valid: true}
		}

		if err := checkPostRefs(ctx, q, p); err != nil {
			return err
		}
		if err := q.UpdatePost(ctx, params); err != nil {
			return postWriteError("category", err)
		}
		if p.TagIDs != nil {
			if err := q.SetPostTags(ctx, post.ID, p.TagIDs); err != nil {
				return postWriteError("tag_ids", err)
			}
		}
		detail, err = loadPostDetail(ctx, q, post.ID)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: OutcomeOK, Message: "post updated", Data: detail}, nil
}

func (s *ContentService) destroyPost(ctx context.Context, req Request) (Result, error) {
	err := s.pool.WithTx(ctx, func(q *db.Queries) error {
		post, err := s.resolvePostForWrite(ctx, q, req)
		if err != nil {
			return err
		}
		return storeError(policies.KindPost, q.DeletePost(ctx, post.ID))
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: OutcomeDeleted, Message: "post deleted"}, nil
}

// resolvePostForWrite loads the target post and checks that the actor may
// first see it and then change it. A post the actor cannot see is reported
// as missing, whatever the write rules would say.
func (s *ContentService) resolvePostForWrite(ctx context.Context, q *db.Queries, req Request) (db.Post, error) {
	post, err := q.GetPost(ctx, req.ID)
	if err != nil {
		return db.Post{}, storeError(policies.KindPost, err)
	}
	target := post.PolicyTarget()
	if err := authorize(ctx, req.Actor, policies.ActionRetrieve, policies.KindPost, &target); err != nil {
		return db.Post{}, err
	}
	if err := authorize(ctx, req.Actor, req.Action, policies.KindPost, &target); err != nil {
		return db.Post{}, err
	}
	return post, nil
}

// clean strips markup from the title and unsafe markup from the content.
func (s *ContentService) clean(title, content string) (string, string, error) {
	title = strings.TrimSpace(s.plainText.Sanitize(title))
	content = strings.TrimSpace(s.html.Sanitize(content))

	fields := map[string]string{}
	if title == "" {
		fields["title"] = "this field may not be blank"
	}
	if content == "" {
		fields["content"] = "this field may not be blank"
	}
	if len(fields) > 0 {
		return "", "", errValidation(fields)
	}
	return title, content, nil
}

func checkPostRefs(ctx context.Context, q *db.Queries, p PostPayload) error {
	fields := map[string]string{}

	if p.Category != nil && *p.Category != 0 {
		_, err := q.GetCategory(ctx, *p.Category)
		switch {
		case errors.Is(err, db.ErrNotFound):
			fields["category"] = fmt.Sprintf("invalid pk %d: category does not exist", *p.Category)
		case err != nil:
			return fmt.Errorf("failed to check category: %w", err)
		}
	}

	if len(p.TagIDs) > 0 {
		missing, err := q.MissingTagIDs(ctx, p.TagIDs)
		if err != nil {
			return fmt.Errorf("failed to check tags: %w", err)
		}
		if len(missing) > 0 {
			fields["tag_ids"] = fmt.Sprintf("invalid pk %v: tag does not exist", missing)
		}
	}

	if len(fields) > 0 {
		return errValidation(fields)
	}
	return nil
}

// postWriteError reports a foreign key failure that slipped past
// checkPostRefs as a validation error on field.
func postWriteError(field string, err error) error {
	if errors.Is(err, db.ErrForeignKey) {
		return errField(field, "referenced object does not exist")
	}
	return storeError(policies.KindPost, err)
}

func loadPostDetail(ctx context.Context, q *db.Queries, id int64) (PostDetail, error) {
	post, err := q.GetPost(ctx, id)
	if err != nil {
		return PostDetail{}, fmt.Errorf("failed to reload post %d: %w", id, err)
	}
	tags, err := q.ListPostTags(ctx, id)
	if err != nil {
		return PostDetail{}, fmt.Errorf("failed to load tags of post %d: %w", id, err)
	}
	return newPostDetail(post, tags), nil
}
