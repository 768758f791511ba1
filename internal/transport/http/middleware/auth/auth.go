package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brewline/queue/internal/dal/identity"
)

type contextKey struct{}

// UserFromContext returns the authenticated admin, or nil outside of an
// authenticated request.
func UserFromContext(ctx context.Context) *identity.User {
	user, _ := ctx.Value(contextKey{}).(*identity.User)
	return user
}

// ContextWithUser stores the user in the context the same way RequireAuth
// does.
func ContextWithUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// RequireAuth verifies the bearer token on every request and stores the
// resolved user in the request context. Ownership of a specific business is
// checked by the handlers after they fetch it, not here.
func RequireAuth(verifier identity.Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnauthenticated) {
					http.Error(w, "invalid token", http.StatusUnauthorized)

					return
				}
				http.Error(w, "identity provider unavailable", http.StatusBadGateway)
				slog.Error("Error verifying token", "error", err)

				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
