package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired rejects requests without a valid access token and stores the caller's actor in the context.
// It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Missing access token")
			return
		}

		actor, err := jwt.ActorFromClaims(claims)
		if err != nil {
			response.Unauthorized(w, "Invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated actor set by AuthRequired
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
