package db

import (
	"database/sql"
	"time"

	"github.com/PauloHFS/inkpress/internal/policies"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	// Role is RoleUnknown when the user has no profile row.
	Role      policies.Role
	CreatedAt time.Time
}

func (u User) Actor() policies.Actor {
	return policies.Actor{ID: u.ID, Role: u.Role}
}

func (u User) PolicyTarget() policies.Target {
	return policies.Target{OwnerID: u.ID}
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a posts row joined with its author's username and category name.
type Post struct {
	ID             int64
	Title          string
	Content        string
	AuthorID       int64
	AuthorUsername string
	CategoryID     sql.NullInt64
	CategoryName   sql.NullString
	Status         policies.Status
	TagsCount      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    sql.NullTime
}

func (p Post) PolicyTarget() policies.Target {
	return policies.Target{OwnerID: p.AuthorID, Status: p.Status}
}
