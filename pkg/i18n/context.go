package i18n

import (
	"context"
	"net/http"
)

type localeContextKey struct{}

// SetLocale stores the negotiated language in ctx.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the language stored by SetLocale, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey{}).(string)
	if locale == "" {
		return DefaultLanguage
	}
	return locale
}

// Middleware negotiates the Accept-Language header against the translator's
// languages and stores the result in the request context. A "lang" query
// parameter naming a loaded language takes precedence.
func Middleware(t *Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := t.DefaultLanguage()
			if q := normalizeLang(r.URL.Query().Get("lang")); q != "" && t.supports(q) {
				lang = q
			} else if header := r.Header.Get("Accept-Language"); header != "" {
				lang = t.Match(header)
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}

func (t *Translator) supports(lang string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.translations[lang]
	return ok
}
