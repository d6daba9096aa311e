package i18n

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// DefaultLanguage is used when no language is negotiated.
const DefaultLanguage = "en"

// Translator resolves translation keys for a set of languages.
type Translator struct {
	mu             sync.RWMutex
	translations   Catalog
	defaultLang    string
	fallbackToKey  bool
	missingLogMode bool
	noDefaults     bool
	logger         *slog.Logger
	sources        []source
	extra          []Catalog

	langs   []string
	matcher language.Matcher
}

type source struct {
	fsys fs.FS
	dir  string
}

// NewTranslator loads the built-in catalog and every configured source.
// Sources are merged in the order they were given.
func NewTranslator(ctx context.Context, opts ...Option) (*Translator, error) {
	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	translations := Catalog{}
	if !t.noDefaults {
		defaults, err := DefaultCatalog(ctx)
		if err != nil {
			return nil, err
		}
		translations.Merge(defaults)
	}
	for _, src := range t.sources {
		catalog, err := LoadFS(ctx, src.fsys, src.dir)
		if err != nil {
			return nil, err
		}
		translations.Merge(catalog)
	}
	for _, catalog := range t.extra {
		translations.Merge(catalog)
	}

	t.translations = translations
	t.buildMatcher()
	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", t.langs))
	return t, nil
}

// buildMatcher puts the default language first so the matcher falls back to it.
func (t *Translator) buildMatcher() {
	langs := []string{t.defaultLang}
	for _, lang := range t.supportedLanguages() {
		if lang != t.defaultLang {
			langs = append(langs, lang)
		}
	}

	tags := make([]language.Tag, 0, len(langs))
	t.langs = t.langs[:0]
	for _, lang := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			t.logger.Warn("skipping unparsable language code", slog.String("lang", lang))
			continue
		}
		tags = append(tags, tag)
		t.langs = append(t.langs, lang)
	}
	t.matcher = language.NewMatcher(tags)
}

func (t *Translator) supportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// SupportedLanguages lists the loaded language codes in lexical order.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supportedLanguages()
}

// DefaultLanguage returns the fallback language code.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match negotiates an Accept-Language header against the loaded languages
// and returns the best code, or the default language when nothing matches.
func (t *Translator) Match(acceptLanguage string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(acceptLanguage) > maxAcceptLanguageLength {
		acceptLanguage = acceptLanguage[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLang
	}
	_, idx, confidence := t.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(t.langs) {
		return t.defaultLang
	}
	return t.langs[idx]
}

// HasTranslation reports whether key exists for lang.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.lookup(lang, key)
	return ok
}

// T translates key for lang, substituting %{name} placeholders from args given
// as name, value pairs. Missing keys return the key itself unless fallback to
// key is disabled.
//
//	// "welcome": "Hello, %{name}!"
//	t.T("en", "welcome", "name", "Jane") // "Hello, Jane!"
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tmpl, ok := t.lookup(lang, key)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		if t.fallbackToKey {
			return namedSprintf(key, pairs(args))
		}
		return ""
	}
	return namedSprintf(tmpl, pairs(args))
}

// Message localises a validation failure. Errors without a translation key,
// or whose key is missing for lang, keep the validator's own message.
func (t *Translator) Message(lang string, err validator.ValidationError) string {
	if msg, ok := t.message(lang, err); ok {
		return msg
	}
	return err.Message
}

// ForLanguage returns a form.Translator bound to lang, for form.WithTranslator.
func (t *Translator) ForLanguage(lang string) form.Translator {
	return func(err validator.ValidationError) string {
		msg, _ := t.message(lang, err)
		return msg
	}
}

func (t *Translator) message(lang string, err validator.ValidationError) (string, bool) {
	if err.TranslationKey == "" {
		return "", false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	tmpl, ok := t.lookup(lang, err.TranslationKey)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("validation message not translated",
				slog.String("lang", lang),
				slog.String("key", err.TranslationKey),
			)
		}
		return "", false
	}

	params := make(map[string]string, len(err.TranslationValues))
	for k, v := range err.TranslationValues {
		params[k] = formatParam(v)
	}
	return namedSprintf(tmpl, params), true
}

// lookup resolves key for lang, then for its base language ("es-mx" -> "es").
// Callers hold the read lock.
func (t *Translator) lookup(lang, key string) (string, bool) {
	lang = normalizeLang(lang)
	candidates := []string{lang}
	if base, _, found := strings.Cut(lang, "-"); found {
		candidates = append(candidates, base)
	}

	for _, candidate := range candidates {
		tree, ok := t.translations[candidate]
		if !ok {
			continue
		}
		val, ok := lookup(tree, key)
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			return v, true
		case fmt.Stringer:
			return v.String(), true
		}
	}
	return "", false
}

// paramRegex matches %{name} placeholders.
var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// namedSprintf replaces %{name} placeholders. Unknown names are left as is.
func namedSprintf(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// pairs turns name, value, name, value... into a map. An odd trailing
// argument is ignored.
func pairs(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

func formatParam(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case string:
		return n
	default:
		return fmt.Sprint(v)
	}
}

// maxAcceptLanguageLength caps the header size handed to the parser.
const maxAcceptLanguageLength = 4096

// dirSource reads catalogs from a directory on disk.
func dirSource(dir string) source {
	return source{fsys: os.DirFS(dir), dir: "."}
}
