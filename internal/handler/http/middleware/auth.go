package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying the authenticated caller.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the caller stored by AuthRequired or OptionalAuth.
func ActorFrom(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}

// actorFromRequest reads the access token verified by jwtauth.Verifier.
func actorFromRequest(r *http.Request) (user.Actor, error) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Actor{}, err
	}
	if token == nil {
		return user.Actor{}, auth.ErrInvalidToken
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TypeAccess {
		return user.Actor{}, auth.ErrInvalidToken
	}

	actor, err := jwt.ActorFromClaims(claims)
	if err != nil {
		return user.Actor{}, auth.ErrInvalidToken
	}
	return actor, nil
}

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromRequest(r)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

// OptionalAuth lets anonymous requests through and attaches the actor when a
// valid access token is present. An invalid token is still rejected.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if jwtauth.TokenFromHeader(r) == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
