package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fkhayef/attendly/internal/auth"
	"github.com/fkhayef/attendly/internal/user"
	"github.com/fkhayef/attendly/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ClaimsKey is the context key for the verified token claims
const ClaimsKey ContextKey = "claims"

// Verifier validates a bearer token and returns its claims
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator returns middleware that extracts and verifies the bearer
// token, attaching the claims to the request context on success
func Authenticator(verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				slog.Debug("token rejected", "error", err)
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects authenticated callers whose
// role is not in the allowed set. Must be placed after Authenticator.
func RequireRole(roles ...user.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient role for this resource")
		})
	}
}

// GetClaims extracts the verified claims from the request context
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims returns a context carrying the given claims. Intended for tests
// and internal wiring.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
