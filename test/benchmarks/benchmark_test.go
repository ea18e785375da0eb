package benchmarks

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// setupPool creates a migrated database holding n posts by one editor,
// every other one a draft.
func setupPool(b *testing.B, n int, opts ...func(*db.PoolConfig)) (*db.DualPool, policies.Actor) {
	b.Helper()
	ctx := context.Background()

	pool, err := db.NewDualPool(filepath.Join(b.TempDir(), "bench.db"), opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { pool.Close() })
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		b.Fatal(err)
	}

	var editor policies.Actor
	err = pool.WithTx(ctx, func(q *db.Queries) error {
		id, err := q.CreateUser(ctx, db.CreateUserParams{Username: "editor", PasswordHash: "x"})
		if err != nil {
			return err
		}
		if err := q.SetUserRole(ctx, id, policies.RoleEditor); err != nil {
			return err
		}
		editor = policies.Actor{ID: id, Role: policies.RoleEditor}

		for i := range n {
			status := policies.StatusPublished
			if i%2 == 0 {
				status = policies.StatusDraft
			}
			if _, err := q.CreatePost(ctx, db.CreatePostParams{
				Title:    fmt.Sprintf("post %d", i),
				Content:  "benchmark body",
				AuthorID: id,
				Status:   status,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}
	return pool, editor
}

func BenchmarkAuthorize(b *testing.B) {
	actors := []policies.Actor{
		policies.Anonymous,
		{ID: 1, Role: policies.RoleReader},
		{ID: 2, Role: policies.RoleEditor},
		{ID: 3, Role: policies.RoleAdmin},
	}
	target := &policies.Target{OwnerID: 2, Status: policies.StatusDraft}

	for i := 0; b.Loop(); i++ {
		actor := actors[i%len(actors)]
		_ = policies.Authorize(actor, policies.ActionPartialUpdate, policies.KindPost, target)
		_ = policies.Authorize(actor, policies.ActionRetrieve, policies.KindPost, target)
	}
}

type benchPost policies.Target

func (p benchPost) PolicyTarget() policies.Target { return policies.Target(p) }

func BenchmarkFilterVisible(b *testing.B) {
	posts := make([]benchPost, 1000)
	for i := range posts {
		status := policies.StatusPublished
		if i%3 == 0 {
			status = policies.StatusDraft
		}
		posts[i] = benchPost{OwnerID: int64(i % 7), Status: status}
	}
	reader := policies.Actor{ID: 1, Role: policies.RoleReader}

	for b.Loop() {
		n := 0
		for range policies.FilterVisible(reader, slices.Values(posts)) {
			n++
		}
		if n == 0 {
			b.Fatal("nothing visible")
		}
	}
}

func BenchmarkListPosts(b *testing.B) {
	pool, editor := setupPool(b, 500)
	users := services.NewUserService(pool, 16, time.Minute)
	content := services.NewContentService(pool, users)

	for name, actor := range map[string]policies.Actor{"anonymous": policies.Anonymous, "editor": editor} {
		b.Run(name, func(b *testing.B) {
			ctx := context.Background()
			for b.Loop() {
				if _, err := content.Handle(ctx, services.Request{
					Actor:  actor,
					Action: policies.ActionList,
					Kind:   policies.KindPost,
					Query:  services.ListQuery{PageSize: 20, Ordering: "-created_at"},
				}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkConcurrentReads(b *testing.B) {
	for _, mode := range []struct {
		name string
		opt  func(*db.PoolConfig)
	}{
		{"single", db.WithReadPoolSize(1, 1)},
		{"dual", func(*db.PoolConfig) {}},
	} {
		b.Run(mode.name, func(b *testing.B) {
			pool, _ := setupPool(b, 200, mode.opt)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				ctx := context.Background()
				for pb.Next() {
					_, _ = pool.Queries().ListPosts(ctx, db.ListPostsParams{
						Filter: db.PostFilter{Status: policies.StatusPublished},
						Limit:  10,
					})
				}
			})
		})
	}
}

func BenchmarkReadWriteMix(b *testing.B) {
	pool, editor := setupPool(b, 200)
	users := services.NewUserService(pool, 16, time.Minute)
	content := services.NewContentService(pool, users)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		i := 0
		for pb.Next() {
			i++
			// 80% reads, 20% writes.
			if i%5 == 0 {
				_, err := content.Handle(ctx, services.Request{
					Actor:   editor,
					Action:  policies.ActionCreate,
					Kind:    policies.KindPost,
					Payload: []byte(`{"title":"stress","content":"body"}`),
				})
				if err != nil {
					b.Error(err)
				}
				continue
			}
			_, _ = content.Handle(ctx, services.Request{
				Actor:  policies.Anonymous,
				Action: policies.ActionList,
				Kind:   policies.KindPost,
			})
		}
	})
}

func BenchmarkPasswordHashing(b *testing.B) {
	password := "super-secret-password-123"

	b.Run("Bcrypt-Default", func(b *testing.B) {
		for b.Loop() {
			_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		}
	})
}
