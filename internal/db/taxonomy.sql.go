package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type CreateCategoryParams struct {
	Name        string
	Description string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	c := Category{Name: arg.Name, Description: arg.Description, CreatedAt: time.Now().UTC()}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Description, c.CreatedAt,
	)
	if err != nil {
		return Category{}, classify(err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, classify(err)
}

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Description string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	return affected(q.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		arg.Name, arg.Description, arg.ID,
	))
}

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	return affected(q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id))
}

func (q *Queries) DeleteAllCategories(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories`)
	return err
}

func (q *Queries) CreateTag(ctx context.Context, name string) (Tag, error) {
	t := Tag{Name: name, CreatedAt: time.Now().UTC()}
	res, err := q.db.ExecContext(ctx, `INSERT INTO tags (name, created_at) VALUES (?, ?)`, t.Name, t.CreatedAt)
	if err != nil {
		return Tag{}, classify(err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	var t Tag
	err := q.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, classify(err)
}

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (q *Queries) UpdateTag(ctx context.Context, id int64, name string) error {
	return affected(q.db.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ?`, name, id))
}

func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	return affected(q.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id))
}

func (q *Queries) DeleteAllTags(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM tags`)
	return err
}

// MissingTagIDs returns the ids in ids that have no tags row, in input order.
func (q *Queries) MissingTagIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id FROM tags WHERE id IN (%s)`, placeholders(len(ids))), args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type rowScanner interface {
	Next() bool
	Scan(...any) error
	Err() error
}

func scanTags(rows rowScanner) ([]Tag, error) {
	items := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
