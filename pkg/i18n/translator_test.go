package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/i18n"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(context.Background(), opts...)
	require.NoError(t, err)
	return tr
}

func TestNewTranslator(t *testing.T) {
	t.Run("built-in catalogs", func(t *testing.T) {
		tr := newTranslator(t)
		assert.Equal(t, []string{"en", "es"}, tr.SupportedLanguages())
		assert.Equal(t, "Este campo es obligatorio", tr.T("es", "validation.required"))
	})

	t.Run("directory overrides and adds languages", func(t *testing.T) {
		tr := newTranslator(t, i18n.WithDir("testdata"))
		assert.Equal(t, []string{"en", "es", "fr"}, tr.SupportedLanguages())
		assert.Equal(t, "Please fill in this field", tr.T("en", "validation.required"))
		assert.Equal(t, "Please enter a valid email address", tr.T("en", "validation.email"))
	})

	t.Run("file system source", func(t *testing.T) {
		fsys := fstest.MapFS{
			"i18n/de.yaml": {Data: []byte("de:\n  validation:\n    required: \"Pflichtfeld\"\n")},
			"i18n/notes.txt": {Data: []byte("ignored")},
		}
		tr := newTranslator(t, i18n.WithFS(fsys, "i18n"), i18n.WithoutDefaults())
		assert.Equal(t, []string{"de"}, tr.SupportedLanguages())
		assert.Equal(t, "Pflichtfeld", tr.T("de", "validation.required"))
	})

	t.Run("in-memory catalog wins", func(t *testing.T) {
		tr := newTranslator(t, i18n.WithCatalog(i18n.Catalog{
			"en": {"form": map[string]any{"submit": "Send"}},
		}))
		assert.Equal(t, "Send", tr.T("en", "form.submit"))
		assert.Equal(t, "Reset", tr.T("en", "form.reset"))
	})

	t.Run("invalid catalog", func(t *testing.T) {
		fsys := fstest.MapFS{"x/bad.yaml": {Data: []byte("en: just a string\n")}}
		_, err := i18n.NewTranslator(context.Background(), i18n.WithFS(fsys, "x"))
		assert.ErrorIs(t, err, i18n.ErrInvalidCatalog)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := i18n.NewTranslator(context.Background(), i18n.WithDir("testdata/missing"))
		assert.ErrorIs(t, err, i18n.ErrFailedToReadDir)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := i18n.NewTranslator(ctx)
		assert.Error(t, err)
	})
}

func TestT(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "Must be at least 8 characters", tr.T("en", "validation.min_length", "min", "8"))
	assert.Equal(t, "Must be at least %{min} characters", tr.T("en", "validation.min_length"))
	assert.Equal(t, "Debe tener al menos 3 caracteres", tr.T("es-MX", "validation.min_length", "min", "3"),
		"regional codes fall back to the base language")

	t.Run("missing key", func(t *testing.T) {
		assert.Equal(t, "no.such.key", tr.T("en", "no.such.key"))
		assert.Equal(t, "validation", tr.T("en", "validation"), "subtrees are not messages")

		strict := newTranslator(t, i18n.WithFallbackToKey(false))
		assert.Empty(t, strict.T("en", "no.such.key"))
	})

	assert.True(t, tr.HasTranslation("es", "validation.password.special"))
	assert.False(t, tr.HasTranslation("fr", "validation.required"))
}

func TestMessage(t *testing.T) {
	tr := newTranslator(t)

	err := validator.MinLength(8)("short", nil).(validator.ValidationError)
	assert.Equal(t, "Debe tener al menos 8 caracteres", tr.Message("es", err))
	assert.Equal(t, "Must be at least 8 characters", tr.Message("en", err))
	assert.Equal(t, "Must be at least 8 characters", tr.Message("ja", err), "unknown languages keep the original")

	t.Run("overridden message is kept", func(t *testing.T) {
		err := validator.Required("Tell us your name")(nil, nil).(validator.ValidationError)
		assert.Equal(t, "Tell us your name", tr.Message("es", err))
	})

	t.Run("numeric parameters", func(t *testing.T) {
		err := validator.Max(2.5)(3, nil).(validator.ValidationError)
		assert.Equal(t, "Debe ser como máximo 2.5", tr.Message("es", err))
	})

	t.Run("list parameters", func(t *testing.T) {
		err := validator.OneOf([]string{"a", "b"})("c", nil).(validator.ValidationError)
		assert.Equal(t, "Debe ser uno de: a, b", tr.Message("es", err))
	})
}

func TestForLanguage(t *testing.T) {
	tr := newTranslator(t)

	f := form.New(
		validator.Values{"email": "", "password": ""},
		validator.Rules{
			"email":    {validator.Required()},
			"password": {validator.Password()},
		},
		form.WithTranslator(tr.ForLanguage("es")),
	)
	f.Blur("email")
	f.Change("password", "abc")
	f.Blur("password")

	assert.Equal(t, "Este campo es obligatorio", f.Error("email"))
	assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", f.Error("password"))
}

func TestMatch(t *testing.T) {
	tr := newTranslator(t, i18n.WithDir("testdata"))

	tests := []struct {
		header string
		want   string
	}{
		{header: "es-ES,es;q=0.9", want: "es"},
		{header: "fr-CA", want: "fr"},
		{header: "de-DE,fr;q=0.5", want: "fr"},
		{header: "en-US", want: "en"},
		{header: "ja", want: "en"},
		{header: "", want: "en"},
		{header: ";;;q=abc", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.header))
		})
	}

	t.Run("custom default", func(t *testing.T) {
		tr := newTranslator(t, i18n.WithDefaultLanguage("es"))
		assert.Equal(t, "es", tr.Match("ja"))
		assert.Equal(t, "es", tr.DefaultLanguage())
	})
}

func TestMiddleware(t *testing.T) {
	tr := newTranslator(t)

	var got string
	h := i18n.Middleware(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.GetLocale(r.Context())
	}))

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "header", target: "/", header: "es-AR", want: "es"},
		{name: "no header", target: "/", want: "en"},
		{name: "query wins", target: "/?lang=es", header: "en", want: "es"},
		{name: "unknown query ignored", target: "/?lang=xx", header: "es", want: "es"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, i18n.DefaultLanguage, i18n.GetLocale(context.Background()))
}
