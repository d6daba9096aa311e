// Package i18n translates validation messages and UI strings.
//
// Catalogs are YAML files keyed by language code with nested, dot-addressed
// keys and %{name} placeholders:
//
//	en:
//	  validation:
//	    min_length: "Must be at least %{min} characters"
//
// NewTranslator starts from the built-in English and Spanish catalogs and
// merges any directories or file systems given with WithDir and WithFS.
// Match negotiates an Accept-Language header with golang.org/x/text/language,
// and Middleware stores the result in the request context.
//
// Validation errors carry a translation key and values, so a form can record
// localised messages directly:
//
//	tr, err := i18n.NewTranslator(ctx, i18n.WithDir("locales"))
//	f := form.New(values, rules, form.WithTranslator(tr.ForLanguage("es")))
//
// Errors whose message was overridden by the caller have no key and are never
// translated.
package i18n
