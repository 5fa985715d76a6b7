package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/i18n"
)

const LocaleKey contextKey = "locale"

// Locale validates the {locale} route parameter and stores it in the request
// context. Unsupported locales are answered with 404.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "locale")
		if !i18n.IsSupported(code) {
			api.Error(w, http.StatusNotFound, "unsupported locale")
			return
		}

		w.Header().Set("Content-Language", code)
		ctx := context.WithValue(r.Context(), LocaleKey, code)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLocale returns the locale from context, or "" outside locale routes.
func GetLocale(ctx context.Context) string {
	code, _ := ctx.Value(LocaleKey).(string)
	return code
}
