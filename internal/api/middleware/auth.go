package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
)

type AuthValidator interface {
	ValidateAdminToken(ctx context.Context, token string) error
}

// StaticToken validates against a single configured admin token.
type StaticToken string

func (t StaticToken) ValidateAdminToken(_ context.Context, token string) error {
	if t == "" || subtle.ConstantTimeCompare([]byte(t), []byte(token)) != 1 {
		return domain.ErrInvalidAdminToken
	}
	return nil
}

// AdminAuth requires a valid bearer token on every request.
func AdminAuth(validator AuthValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if err := validator.ValidateAdminToken(r.Context(), token); err != nil {
				api.Error(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
