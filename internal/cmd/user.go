package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
)

// RunCreateUser creates an account with any role. It is the way to get the
// first admin into a prod database.
func RunCreateUser(args []string) {
	flags := pflag.NewFlagSet("create-user", pflag.ExitOnError)
	username := flags.String("username", "", "login name (required)")
	email := flags.String("email", "", "email address")
	password := flags.String("password", "", "password, at least 8 characters (required)")
	roleName := flags.String("role", "reader", "admin, editor or reader")
	_ = flags.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Usage: create-user --username <name> --password <password> [--email <email>] [--role admin|editor|reader]")
		os.Exit(1)
	}

	role, err := policies.ParseRole(*roleName)
	if err != nil {
		fmt.Printf("invalid role: %v\n", err)
		os.Exit(1)
	}
	if err := services.ValidateCredentials(*username, *email, *password); err != nil {
		if e, ok := services.AsError(err); ok {
			for field, msg := range e.Fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		os.Exit(1)
	}

	_, pool, err := initDB()
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		fmt.Printf("failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	err = pool.WithTx(ctx, func(q *db.Queries) error {
		id, err := q.CreateUser(ctx, db.CreateUserParams{
			Username:     *username,
			Email:        *email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return err
		}
		return q.SetUserRole(ctx, id, role)
	})
	if errors.Is(err, db.ErrUniqueViolation) {
		fmt.Printf("user %s already exists\n", *username)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("failed to create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("User %s created with role %s\n", *username, role)
}
