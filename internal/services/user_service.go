package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/metrics"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// UserView is the public shape of an account. Email is only filled for the
// account itself and for admins.
type UserView struct {
	ID         int64         `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email,omitempty"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Role       policies.Role `json:"role"`
	DateJoined time.Time     `json:"date_joined"`
}

func newUserView(u db.User, viewer policies.Actor) UserView {
	v := UserView{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		DateJoined: u.CreatedAt,
	}
	if viewer.ID == u.ID || viewer.Is(policies.RoleAdmin) {
		v.Email = u.Email
	}
	return v
}

// UserPayload is the writable part of an account. Role is honoured only
// for admins.
type UserPayload struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Role      *string `json:"role" validate:"omitnil,oneof=admin editor reader"`
}

// UserService resolves token subjects to actors and serves profiles.
// Resolved actors are cached briefly; role changes made through this
// process evict the entry at once.
type UserService struct {
	pool  *db.DualPool
	cache *expirable.LRU[int64, policies.Actor]
}

func NewUserService(pool *db.DualPool, cacheSize int, cacheTTL time.Duration) *UserService {
	return &UserService{
		pool:  pool,
		cache: expirable.NewLRU[int64, policies.Actor](cacheSize, nil, cacheTTL),
	}
}

// ResolveActor returns the current actor behind a user id. A deleted user
// resolves to an Unauthenticated error.
func (s *UserService) ResolveActor(ctx context.Context, userID int64) (policies.Actor, error) {
	if actor, ok := s.cache.Get(userID); ok {
		metrics.ActorCacheLookups.WithLabelValues("hit").Inc()
		return actor, nil
	}
	metrics.ActorCacheLookups.WithLabelValues("miss").Inc()

	u, err := s.pool.Queries().GetUserByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return policies.Anonymous, newError(KindUnauthenticated, "user not found")
	}
	if err != nil {
		return policies.Anonymous, fmt.Errorf("failed to resolve actor %d: %w", userID, err)
	}

	actor := u.Actor()
	s.cache.Add(userID, actor)
	return actor, nil
}

func (s *UserService) Invalidate(userID int64) {
	s.cache.Remove(userID)
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, actor policies.Actor) (Result, error) {
	if !actor.Authenticated() {
		return Result{}, newError(KindUnauthenticated, "authentication credentials were not provided")
	}
	u, err := s.pool.Queries().GetUserByID(ctx, actor.ID)
	if err != nil {
		return Result{}, storeError(policies.KindUser, err)
	}
	return Result{Status: OutcomeOK, Data: newUserView(u, actor)}, nil
}

func (s *ContentService) handleUser(ctx context.Context, req Request) (Result, error) {
	const kind = policies.KindUser

	switch req.Action {
	case policies.ActionList:
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
		paging := db.PagingParams{Page: req.Query.Page, PerPage: req.Query.PageSize}.Normalize()
		search := strings.TrimSpace(req.Query.Search)

		queries := s.pool.Queries()
		count, err := queries.CountUsers(ctx, search)
		if err != nil {
			return Result{}, fmt.Errorf("failed to count users: %w", err)
		}
		users, err := queries.ListUsers(ctx, db.ListUsersParams{
			Search: search,
			Limit:  paging.Limit(),
			Offset: paging.Offset(),
		})
		if err != nil {
			return Result{}, fmt.Errorf("failed to list users: %w", err)
		}

		page := db.PagedResult[UserView]{
			Items:       make([]UserView, 0, len(users)),
			TotalItems:  int(count),
			CurrentPage: paging.Page,
			PerPage:     paging.PerPage,
		}
		for _, u := range users {
			page.Items = append(page.Items, newUserView(u, req.Actor))
		}
		return Result{Status: OutcomeOK, Data: page.Page()}, nil

	case policies.ActionRetrieve:
		u, err := s.pool.Queries().GetUserByID(ctx, req.ID)
		if err != nil {
			return Result{}, storeError(kind, err)
		}
		target := u.PolicyTarget()
		if err := authorize(ctx, req.Actor, req.Action, kind, &target); err != nil {
			return Result{}, err
		}
		return Result{Status: OutcomeOK, Data: newUserView(u, req.Actor)}, nil

	case policies.ActionUpdate, policies.ActionPartialUpdate:
		return s.updateUser(ctx, req)

	case policies.ActionDestroy:
		err := s.pool.WithTx(ctx, func(q *db.Queries) error {
			u, err := q.GetUserByID(ctx, req.ID)
			if err != nil {
				return storeError(kind, err)
			}
			target := u.PolicyTarget()
			if err := authorize(ctx, req.Actor, req.Action, kind, &target); err != nil {
				return err
			}
			return storeError(kind, q.DeleteUser(ctx, u.ID))
		})
		if err != nil {
			return Result{}, err
		}
		s.users.Invalidate(req.ID)
		return Result{Status: OutcomeDeleted, Message: "user deleted"}, nil

	case policies.ActionCreate:
		// Accounts are created through registration only.
		if err := authorize(ctx, req.Actor, req.Action, kind, nil); err != nil {
			return Result{}, err
		}
	}
	return Result{}, fmt.Errorf("unsupported action %s on %s", req.Action, kind)
}

func (s *ContentService) updateUser(ctx context.Context, req Request) (Result, error) {
	const kind = policies.KindUser

	var (
		view        UserView
		roleChanged bool
	)
	err := s.pool.WithTx(ctx, func(q *db.Queries) error {
		u, err := q.GetUserByID(ctx, req.ID)
		if err != nil {
			return storeError(kind, err)
		}
		target := u.PolicyTarget()
		if err := authorize(ctx, req.Actor, req.Action, kind, &target); err != nil {
			return err
		}

		var p UserPayload
		if err := decode(req.Payload, &p); err != nil {
			return err
		}

		if p.Email != nil {
			u.Email = strings.TrimSpace(*p.Email)
		}
		if p.FirstName != nil {
			u.FirstName = strings.TrimSpace(*p.FirstName)
		}
		if p.LastName != nil {
			u.LastName = strings.TrimSpace(*p.LastName)
		}
		if err := q.UpdateUser(ctx, db.UpdateUserParams{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}); err != nil {
			return storeError(kind, err)
		}

		if p.Role != nil {
			role, err := policies.ParseRole(*p.Role)
			if err != nil {
				return errField("role", err.Error())
			}
			if role != u.Role {
				if !policies.CanAssignRole(req.Actor) {
					return newError(KindForbidden, "only admins may change roles")
				}
				if err := q.SetUserRole(ctx, u.ID, role); err != nil {
					return fmt.Errorf("failed to set role of user %d: %w", u.ID, err)
				}
				u.Role = role
				roleChanged = true
			}
		}

		view = newUserView(u, req.Actor)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if roleChanged {
		s.users.Invalidate(req.ID)
	}
	return Result{Status: OutcomeOK, Message: "user updated", Data: view}, nil
}
