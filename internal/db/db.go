package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a lookup or single-row write matches nothing.
	ErrNotFound = errors.New("db: record not found")
	// ErrUniqueViolation wraps UNIQUE / PRIMARY KEY constraint failures.
	ErrUniqueViolation = errors.New("db: unique constraint violated")
	// ErrForeignKey wraps FOREIGN KEY constraint failures.
	ErrForeignKey = errors.New("db: foreign key constraint violated")
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// classify maps driver errors onto the package sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Join(ErrUniqueViolation, err)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Join(ErrForeignKey, err)
		}
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so a search term matches literally.
// Queries using it must declare ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
