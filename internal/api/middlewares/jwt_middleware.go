package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/markdave123-py/Cluster/internal/api/response"
	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
)

// Authenticator resolves the user a bearer token belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userKey struct{}

// JWTMiddleware validates the Authorization header and attaches the user to the request context.
func JWTMiddleware(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.Error(w, log, apierr.Unauthorized("Not authenticated"))
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.Error(w, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user JWTMiddleware attached, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok && u != nil
}
