package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PauloHFS/inkpress/internal/policies"
)

const selectUser = `
SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, p.role, u.created_at
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u    User
		role sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.CreatedAt); err != nil {
		return User{}, classify(err)
	}
	parsed, err := policies.ParseRole(role.String)
	if err != nil {
		return User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.Role = parsed
	return u, nil
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// CreateUser inserts the account only; call SetUserRole in the same
// transaction to give it a profile.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.PasswordHash, arg.FirstName, arg.LastName, time.Now().UTC(),
	)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// SetUserRole creates or replaces the user's profile row.
func (q *Queries) SetUserRole(ctx context.Context, userID int64, role policies.Role) error {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx, `
INSERT INTO user_profiles (user_id, role, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at`,
		userID, role.String(), now, now,
	)
	return classify(err)
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, selectUser+`WHERE u.id = ?`, id))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, selectUser+`WHERE u.username = ?`, username))
}

type ListUsersParams struct {
	Search string
	Limit  int
	Offset int
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, selectUser+`
WHERE (? = '' OR u.username LIKE '%' || ? || '%' ESCAPE '\')
ORDER BY u.username
LIMIT ? OFFSET ?`,
		arg.Search, escapeLike(arg.Search), arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (q *Queries) CountUsers(ctx context.Context, search string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users u WHERE (? = '' OR u.username LIKE '%' || ? || '%' ESCAPE '\')`,
		search, escapeLike(search),
	).Scan(&n)
	return n, err
}

type UpdateUserParams struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) error {
	return affected(q.db.ExecContext(ctx,
		`UPDATE users SET email = ?, first_name = ?, last_name = ? WHERE id = ?`,
		arg.Email, arg.FirstName, arg.LastName, arg.ID,
	))
}

func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	return affected(q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}
