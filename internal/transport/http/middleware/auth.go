package middleware

import (
	"context"
	"net/http"
	"strings"

	"kpiflow/internal/domain/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

type UserContext struct {
	UserID   string
	Role     string
	Override bool
}

// Auth attaches the caller identity when a valid bearer token is present.
// Requests without a usable token pass through unauthenticated; handlers
// decide what requires identity.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, UserContext{
				UserID:   claims.UserID,
				Role:     claims.Role,
				Override: claims.Override,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(UserContext)
	return user, ok
}
