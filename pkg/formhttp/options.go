package formhttp

import (
	"log/slog"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/i18n"
)

// Option configures a Handler.
type Option func(*Handler)

// WithSubmitter sets the submit collaborator for every form without one of
// its own.
func WithSubmitter(fn form.SubmitFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.submitter = fn
		}
	}
}

// WithFormSubmitter sets the submit collaborator for one form.
func WithFormSubmitter(formName string, fn form.SubmitFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.submitters[formName] = fn
		}
	}
}

// WithTranslator localises messages and labels using the request language.
func WithTranslator(t *i18n.Translator) Option {
	return func(h *Handler) { h.translator = t }
}

// WithLogger sets the logger for the handler and the engines it builds.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics records form traffic in m.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithBasePath sets the prefix the handler is mounted under, used to build
// links in rendered HTML.
func WithBasePath(path string) Option {
	return func(h *Handler) { h.base = path }
}

// WithScript overrides the DataStar client URL rendered by full pages.
func WithScript(src string) Option {
	return func(h *Handler) { h.script = src }
}
