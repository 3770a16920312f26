package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"MiniShop/internal/authz"
	"MiniShop/pkg/kit"
)

type ctxKey struct{}

func CallerFromContext(ctx context.Context) (authz.Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(authz.Caller)
	return c, ok
}

// RequireToken rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func RequireToken(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authzHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authzHeader, "Bearer ") {
				kit.WriteMessage(w, r, http.StatusUnauthorized, "missing or invalid token")
				return
			}

			claims, err := tm.Parse(strings.TrimPrefix(authzHeader, "Bearer "))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, ErrTokenExpired) {
					msg = "token expired"
				}
				kit.WriteMessage(w, r, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, authz.Caller{
				ID:   claims.UserID,
				Role: claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after RequireToken.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok || caller.Role != role {
				kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
