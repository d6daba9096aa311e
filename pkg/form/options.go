package form

import (
	"io"
	"log/slog"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Translator turns a validation failure into the message stored in State.Errors.
// Returning an empty string keeps the validator's own message.
type Translator func(err validator.ValidationError) string

// Option configures a Form.
type Option func(*config)

type config struct {
	validateOnChange   bool
	validateOnBlur     bool
	showErrorsOnSubmit bool
	order              []string
	logger             *slog.Logger
	translate          Translator
	focus              func(name string)
	restore            *State
	name               string
}

func defaultConfig() *config {
	return &config{
		validateOnChange:   true,
		validateOnBlur:     true,
		showErrorsOnSubmit: true,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithValidateOnChange re-validates touched fields on every change. Default true.
func WithValidateOnChange(on bool) Option {
	return func(c *config) { c.validateOnChange = on }
}

// WithValidateOnBlur validates a field when it loses focus. Default true.
func WithValidateOnBlur(on bool) Option {
	return func(c *config) { c.validateOnBlur = on }
}

// WithShowErrorsOnSubmit reports the first failing field to the focus handler
// when a submit attempt is blocked. Default true.
func WithShowErrorsOnSubmit(on bool) Option {
	return func(c *config) { c.showErrorsOnSubmit = on }
}

// WithFieldOrder fixes the field order used for FirstInvalid and blocked-submit
// errors. Fields not listed follow in lexical order.
func WithFieldOrder(names ...string) Option {
	return func(c *config) {
		c.order = append(c.order, names...)
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTranslator localises validation messages as they are recorded.
func WithTranslator(tr Translator) Option {
	return func(c *config) { c.translate = tr }
}

// WithFocusHandler registers the callback told which field to focus after a
// blocked submit. The engine never touches the rendering layer itself.
func WithFocusHandler(fn func(name string)) Option {
	return func(c *config) { c.focus = fn }
}

// WithState resumes a form from a previously captured snapshot instead of the
// initial values. The initial values still define what Reset restores.
func WithState(s State) Option {
	return func(c *config) {
		restored := s.Clone()
		c.restore = &restored
	}
}

// WithName labels the form in log records.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}
