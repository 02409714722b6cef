package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates a bearer token and returns the admin identity it
// carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (adminID string, username string, err error)
}

type contextKeyAdminID struct{}
type contextKeyAdminUsername struct{}

// GetAdminID retrieves the authenticated admin id from the context.
func GetAdminID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyAdminID{}).(string); ok {
		return id
	}
	return ""
}

// GetAdminUsername retrieves the authenticated admin username from the context.
func GetAdminUsername(ctx context.Context) string {
	if name, ok := ctx.Value(contextKeyAdminUsername{}).(string); ok {
		return name
	}
	return ""
}

// WithAdmin injects admin identity into a context, simulating what RequireAuth
// does for an authenticated request. For tests.
func WithAdmin(ctx context.Context, adminID, username string) context.Context {
	ctx = context.WithValue(ctx, contextKeyAdminID{}, adminID)
	return context.WithValue(ctx, contextKeyAdminUsername{}, username)
}

// RequireAuth guards admin routes behind a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token")
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			adminID, username, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token", "error", err)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := WithAdmin(r.Context(), adminID, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
