package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/inkpress/internal/contextkeys"
	"github.com/PauloHFS/inkpress/internal/envelope"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/services"
	"github.com/PauloHFS/inkpress/internal/token"
)

// ActorResolver turns a token subject into the current actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID int64) (policies.Actor, error)
}

// Authenticate puts the caller's actor in the request context. Requests
// without an Authorization header continue as anonymous; a header that
// does not carry a valid access token is rejected.
func Authenticate(tokens *token.Manager, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				envelope.Error(w, http.StatusUnauthorized, "authorization header must be 'Bearer <token>'", nil)
				return
			}

			claims, err := tokens.Parse(raw, token.TypeAccess)
			if err != nil {
				envelope.Error(w, http.StatusUnauthorized, "token is invalid or expired", nil)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				envelope.Error(w, http.StatusUnauthorized, "token is invalid or expired", nil)
				return
			}

			actor, err := resolver.ResolveActor(r.Context(), userID)
			if err != nil {
				if _, ok := services.AsError(err); ok {
					envelope.Error(w, http.StatusUnauthorized, "user not found", nil)
					return
				}
				logging.Get().Error("failed to resolve actor", "error", err, "user_id", userID)
				envelope.Error(w, http.StatusInternalServerError, "internal server error", nil)
				return
			}

			logging.AddToEvent(r.Context(),
				slog.Int64("actor_id", actor.ID),
				slog.String("actor_role", actor.Role.String()),
			)

			ctx := context.WithValue(r.Context(), contextkeys.ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor returns the caller, or the anonymous actor.
func GetActor(ctx context.Context) policies.Actor {
	actor, ok := ctx.Value(contextkeys.ActorKey).(policies.Actor)
	if !ok {
		return policies.Anonymous
	}
	return actor
}
