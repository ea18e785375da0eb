package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/policies"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type SeedData struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
	Tags []string `yaml:"tags"`
}

type SeedOptions struct {
	// Clear removes every category and tag before seeding.
	Clear bool
	// AdminPassword, when set, creates an "admin" account if none exists.
	AdminPassword string
}

type SeedReport struct {
	CategoriesCreated int
	TagsCreated       int
	AdminCreated      bool
}

func LoadSeedData() (SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return SeedData{}, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return data, nil
}

// Seed inserts the default categories and tags. Existing names are left
// untouched, so it is safe to run repeatedly.
func Seed(ctx context.Context, pool *DualPool, opts SeedOptions) (SeedReport, error) {
	var report SeedReport

	data, err := LoadSeedData()
	if err != nil {
		return report, err
	}

	err = pool.WithTx(ctx, func(q *Queries) error {
		if opts.Clear {
			if err := q.DeleteAllCategories(ctx); err != nil {
				return fmt.Errorf("failed to clear categories: %w", err)
			}
			if err := q.DeleteAllTags(ctx); err != nil {
				return fmt.Errorf("failed to clear tags: %w", err)
			}
		}

		for _, c := range data.Categories {
			_, err := q.CreateCategory(ctx, CreateCategoryParams{Name: c.Name, Description: c.Description})
			switch {
			case err == nil:
				report.CategoriesCreated++
			case errors.Is(err, ErrUniqueViolation):
			default:
				return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
			}
		}

		for _, name := range data.Tags {
			_, err := q.CreateTag(ctx, name)
			switch {
			case err == nil:
				report.TagsCreated++
			case errors.Is(err, ErrUniqueViolation):
			default:
				return fmt.Errorf("failed to seed tag %s: %w", name, err)
			}
		}

		if opts.AdminPassword == "" {
			return nil
		}
		created, err := seedAdmin(ctx, q, opts.AdminPassword)
		report.AdminCreated = created
		return err
	})
	if err != nil {
		return SeedReport{}, err
	}

	logging.Get().Info("database seeded",
		slog.Int("categories_created", report.CategoriesCreated),
		slog.Int("tags_created", report.TagsCreated),
		slog.Bool("admin_created", report.AdminCreated),
	)
	return report, nil
}

func seedAdmin(ctx context.Context, q *Queries, password string) (bool, error) {
	if _, err := q.GetUserByUsername(ctx, "admin"); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	id, err := q.CreateUser(ctx, CreateUserParams{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	if err := q.SetUserRole(ctx, id, policies.RoleAdmin); err != nil {
		return false, fmt.Errorf("failed to seed admin role: %w", err)
	}
	return true, nil
}
