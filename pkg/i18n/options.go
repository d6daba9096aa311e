package i18n

import (
	"io/fs"
	"log/slog"
)

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when negotiation finds no match.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = normalizeLang(lang)
		}
	}
}

// WithFallbackToKey makes T return the key for missing translations. Default true.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) {
		t.fallbackToKey = fallback
	}
}

// WithLogger sets the logger. If not specified, a discard logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMissingTranslationsLogging logs a warning for every missing key. Default false.
func WithMissingTranslationsLogging(log bool) Option {
	return func(t *Translator) {
		t.missingLogMode = log
	}
}

// WithDir loads every YAML catalog in a directory on disk.
func WithDir(dir string) Option {
	return func(t *Translator) {
		if dir != "" {
			t.sources = append(t.sources, dirSource(dir))
		}
	}
}

// WithFS loads every YAML catalog in dir of fsys, for example an embed.FS.
func WithFS(fsys fs.FS, dir string) Option {
	return func(t *Translator) {
		if fsys != nil {
			t.sources = append(t.sources, source{fsys: fsys, dir: dir})
		}
	}
}

// WithCatalog merges an in-memory catalog after all file sources.
func WithCatalog(c Catalog) Option {
	return func(t *Translator) {
		if len(c) > 0 {
			t.extra = append(t.extra, c)
		}
	}
}

// WithoutDefaults skips the built-in English and Spanish catalog.
func WithoutDefaults() Option {
	return func(t *Translator) {
		t.noDefaults = true
	}
}
