package middleware

import (
	"context"
	"net/http"
)

type contextKey string

// UserContextKey is the key for the current user name in the context.
const UserContextKey = contextKey("user")

// UserMiddleware attaches the single implicit user to every request. There is
// no authentication: every caller acts as defaultUser.
func UserMiddleware(defaultUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithUser(r.Context(), defaultUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a copy of ctx carrying userName.
func WithUser(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, UserContextKey, userName)
}

// UserFromContext returns the user name stored by UserMiddleware.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserContextKey).(string)
	return user, ok && user != ""
}
