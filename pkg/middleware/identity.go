package middleware

import (
	"context"
	"net/http"
)

const UserIDKey contextKey = "user_id"

// UserIDHeader carries the already-authenticated caller identity set by the
// upstream gateway. This service never authenticates; it only compares ids.
const UserIDHeader = "X-User-ID"

// Identity copies the caller's user id into the request context. Routes that
// mutate reservations reject requests without one.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := r.Header.Get(UserIDHeader); userID != "" {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFrom returns the authenticated caller id, or "" for anonymous
// requests.
func UserIDFrom(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
