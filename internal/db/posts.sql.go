package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/PauloHFS/inkpress/internal/policies"
)

const selectPost = `
SELECT p.id, p.title, p.content, p.author_id, u.username, p.category_id, c.name, p.status,
       (SELECT COUNT(*) FROM post_tags pt WHERE pt.post_id = p.id),
       p.created_at, p.updated_at, p.published_at
FROM posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN categories c ON c.id = p.category_id
`

// orderColumns whitelists the columns a listing may be ordered by.
var orderColumns = map[string]string{
	"created_at":   "p.created_at",
	"updated_at":   "p.updated_at",
	"published_at": "p.published_at",
	"title":        "p.title",
}

// DefaultPostOrdering is newest first.
const DefaultPostOrdering = "-created_at"

// ValidPostOrdering reports whether ordering is a known column, optionally
// prefixed with "-" for descending.
func ValidPostOrdering(ordering string) bool {
	_, ok := orderColumns[strings.TrimPrefix(ordering, "-")]
	return ok
}

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.CategoryID, &p.CategoryName, &p.Status,
		&p.TagsCount, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	return p, classify(err)
}

func (q *Queries) GetPost(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, selectPost+`WHERE p.id = ?`, id))
}

// PostFilter narrows listings. Zero values mean "any".
type PostFilter struct {
	Status     policies.Status
	CategoryID int64
	TagID      int64
	AuthorID   int64
	Search     string
}

func (f PostFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Status != "" {
		clauses = append(clauses, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.CategoryID != 0 {
		clauses = append(clauses, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.TagID != 0 {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)")
		args = append(args, f.TagID)
	}
	if f.AuthorID != 0 {
		clauses = append(clauses, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.Search != "" {
		clauses = append(clauses, `(p.title LIKE '%' || ? || '%' ESCAPE '\' OR p.content LIKE '%' || ? || '%' ESCAPE '\')`)
		term := escapeLike(f.Search)
		args = append(args, term, term)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND ") + "\n", args
}

type ListPostsParams struct {
	Filter   PostFilter
	Ordering string
	Limit    int
	Offset   int
}

func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]Post, error) {
	ordering := arg.Ordering
	if ordering == "" {
		ordering = DefaultPostOrdering
	}
	column, ok := orderColumns[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return nil, fmt.Errorf("list posts: unknown ordering %q", ordering)
	}
	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
	}

	where, args := arg.Filter.where()
	query := selectPost + where + fmt.Sprintf("ORDER BY %s %s, p.id %s\nLIMIT ? OFFSET ?", column, direction, direction)
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (q *Queries) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	where, args := f.where()
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p\n"+where, args...).Scan(&n)
	return n, err
}

type CreatePostParams struct {
	Title       string
	Content     string
	AuthorID    int64
	CategoryID  sql.NullInt64
	Status      policies.Status
	PublishedAt sql.NullTime
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
INSERT INTO posts (title, content, author_id, category_id, status, created_at, updated_at, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Content, arg.AuthorID, arg.CategoryID, arg.Status, now, now, arg.PublishedAt,
	)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// UpdatePostParams never carries the author: it is fixed at creation.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Content     string
	CategoryID  sql.NullInt64
	Status      policies.Status
	PublishedAt sql.NullTime
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	return affected(q.db.ExecContext(ctx, `
UPDATE posts SET title = ?, content = ?, category_id = ?, status = ?, published_at = ?, updated_at = ?
WHERE id = ?`,
		arg.Title, arg.Content, arg.CategoryID, arg.Status, arg.PublishedAt, time.Now().UTC(), arg.ID,
	))
}

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	return affected(q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id))
}

// SetPostTags replaces the post's tag set.
func (q *Queries) SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return classify(err)
	}
	for _, tagID := range tagIDs {
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID,
		); err != nil {
			return classify(err)
		}
	}
	return nil
}

func (q *Queries) ListPostTags(ctx context.Context, postID int64) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT t.id, t.name, t.created_at
FROM tags t
JOIN post_tags pt ON pt.tag_id = t.id
WHERE pt.post_id = ?
ORDER BY t.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}
