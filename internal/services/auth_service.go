package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/metrics"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/token"
	"github.com/PauloHFS/inkpress/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps failed logins for unknown usernames as slow as ones with
// a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inkpress-timing-guard"), bcrypt.DefaultCost)

type AuthService struct {
	pool   *db.DualPool
	tokens *token.Manager
}

func NewAuthService(pool *db.DualPool, tokens *token.Manager) *AuthService {
	return &AuthService{
		pool:   pool,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=admin editor reader"`
}

// Register creates an account with a profile. The role defaults to reader;
// any other role must be requested by an admin caller.
func (s *AuthService) Register(ctx context.Context, caller policies.Actor, payload []byte) (Result, error) {
	ctx, span := tracer.Start(ctx, "auth.register")
	defer span.End()

	var input RegisterInput
	if err := decode(payload, &input); err != nil {
		return Result{}, err
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	role := policies.RoleReader
	if input.Role != "" {
		parsed, err := policies.ParseRole(input.Role)
		if err != nil {
			return Result{}, errField("role", err.Error())
		}
		role = parsed
	}
	if role != policies.RoleReader && !policies.CanAssignRole(caller) {
		return Result{}, newError(KindForbidden, "only admins may register accounts with elevated roles")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user db.User
	err = s.pool.WithTx(ctx, func(q *db.Queries) error {
		id, err := q.CreateUser(ctx, db.CreateUserParams{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
		})
		if errors.Is(err, db.ErrUniqueViolation) {
			return newError(KindConflict, "a user with that username already exists")
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := q.SetUserRole(ctx, id, role); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		user, err = q.GetUserByID(ctx, id)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	logging.AddToEvent(ctx, slog.Int64("registered_user_id", user.ID), slog.String("registered_role", role.String()))
	return Result{Status: OutcomeCreated, Message: "user registered", Data: newUserView(user, user.Actor())}, nil
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, payload []byte) (Result, error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer span.End()

	var input LoginInput
	if err := decode(payload, &input); err != nil {
		return Result{}, err
	}

	user, err := s.pool.Queries().GetUserByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return Result{}, fmt.Errorf("failed to load user: %w", err)
	}

	hash := dummyHash
	if err == nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(input.Password)) != nil || user.ID == 0 {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return Result{}, newError(KindUnauthenticated, "no active account found with the given credentials")
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Result{}, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logging.AddToEvent(ctx, slog.Int64("login_user_id", user.ID))
	return Result{Status: OutcomeOK, Message: "login successful", Data: pair}, nil
}

type RefreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Refresh exchanges a refresh token for a new access token, provided the
// account still exists.
func (s *AuthService) Refresh(ctx context.Context, payload []byte) (Result, error) {
	ctx, span := tracer.Start(ctx, "auth.refresh")
	defer span.End()

	var input RefreshInput
	if err := decode(payload, &input); err != nil {
		return Result{}, err
	}

	access, userID, err := s.tokens.Refresh(input.Refresh)
	if err != nil {
		return Result{}, newError(KindUnauthenticated, "token is invalid or expired")
	}
	if _, err := s.pool.Queries().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Result{}, newError(KindUnauthenticated, "user not found")
		}
		return Result{}, fmt.Errorf("failed to load user: %w", err)
	}
	return Result{Status: OutcomeOK, Data: map[string]string{"access": access}}, nil
}

// ValidateCredentials is used by the create-user command, which bypasses
// the HTTP payload path.
func ValidateCredentials(username, email, password string) error {
	if result := validator.ValidateRegistration(username, email, password); !result.Valid {
		return errValidation(result.Fields())
	}
	return nil
}
