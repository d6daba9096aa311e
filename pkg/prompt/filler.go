package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/logger"
	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// ErrTooManyAttempts is returned when a submission stays blocked after the
// configured number of correction rounds.
var ErrTooManyAttempts = errors.New("prompt: too many attempts")

// Filler walks a form's fields through a Driver. Each answer is applied as a
// change followed by a blur, so the engine validates it exactly as it would a
// UI interaction, and the field's error is handed back to the prompt.
type Filler struct {
	def    *schema.Definition
	form   *form.Form
	driver Driver
	logger *slog.Logger
	rounds int
}

// Option configures a Filler.
type Option func(*Filler)

// WithLogger sets the logger for prompt events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filler) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRounds bounds how many times a blocked submission is corrected.
func WithRounds(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.rounds = n
		}
	}
}

// NewFiller prepares to fill f, whose fields are described by def.
func NewFiller(def *schema.Definition, f *form.Form, driver Driver, opts ...Option) *Filler {
	fl := &Filler{
		def:    def,
		form:   f,
		driver: driver,
		logger: slog.New(slog.DiscardHandler),
		rounds: 3,
	}
	for _, opt := range opts {
		opt(fl)
	}
	return fl
}

// Fill asks every field once, in form order.
func (fl *Filler) Fill(ctx context.Context) error {
	for _, name := range fl.form.Fields() {
		field, ok := fl.def.Field(name)
		if !ok {
			continue
		}
		if err := fl.ask(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

// Run fills the form and submits it with fn. While the submission is blocked
// the invalid fields are asked again, up to the configured rounds. It returns
// the submitted values.
func (fl *Filler) Run(ctx context.Context, fn form.SubmitFunc) (validator.Values, error) {
	if err := fl.Fill(ctx); err != nil {
		return nil, err
	}

	var submitted validator.Values
	handler := fl.form.HandleSubmit(func(ctx context.Context, values validator.Values) error {
		submitted = values
		if fn == nil {
			return nil
		}
		return fn(ctx, values)
	})

	for round := 0; ; round++ {
		err := handler(ctx)
		if err == nil {
			return submitted, nil
		}
		if !form.IsBlocked(err) {
			return nil, err
		}
		if round >= fl.rounds {
			return nil, fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
		}

		invalid := validator.ExtractValidationErrors(err)
		fl.logger.DebugContext(ctx, "submission blocked", logger.Fields(invalid.Fields()))
		for _, name := range invalid.Fields() {
			field, ok := fl.def.Field(name)
			if !ok {
				continue
			}
			if err := fl.driver.Info(ctx, field.DisplayLabel()+": "+fl.form.Error(name)); err != nil {
				return nil, err
			}
			if err := fl.ask(ctx, field); err != nil {
				return nil, err
			}
		}
	}
}

func (fl *Filler) ask(ctx context.Context, field schema.Field) error {
	message := field.DisplayLabel()
	if field.Required() {
		message += " *"
	}
	current := fl.form.Value(field.Name)

	switch field.Type {
	case sanitizer.TypeCheckbox:
		return fl.confirm(ctx, field, message, current)
	case sanitizer.TypeSelect:
		answer, err := fl.driver.Select(ctx, SelectConfig{
			Message:  message,
			Options:  field.Choices,
			Default:  display(current),
			Help:     field.Help,
			Validate: fl.validate(field),
		})
		if err != nil {
			return err
		}
		fl.apply(field, answer)
		return nil
	}

	cfg := InputConfig{
		Message:  message,
		Default:  display(current),
		Help:     field.Help,
		Validate: fl.validate(field),
	}
	var (
		answer string
		err    error
	)
	switch field.Type {
	case sanitizer.TypePassword:
		cfg.Default = ""
		answer, err = fl.driver.Password(ctx, cfg)
	case sanitizer.TypeTextarea:
		answer, err = fl.driver.Multiline(ctx, cfg)
	default:
		answer, err = fl.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	// The final answer is applied even when the driver skipped the hook.
	fl.apply(field, coerce(field.Type, answer))
	return nil
}

// confirm repeats a yes/no question until the engine accepts the answer.
// Drivers cannot validate a confirm prompt themselves.
func (fl *Filler) confirm(ctx context.Context, field schema.Field, message string, current any) error {
	def, _ := current.(bool)
	for {
		answer, err := fl.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: field.Help})
		if err != nil {
			return err
		}
		msg := fl.apply(field, answer)
		if msg == "" {
			return nil
		}
		if err := fl.driver.Info(ctx, msg); err != nil {
			return err
		}
		def = answer
	}
}

// validate is the driver hook: it feeds the answer to the engine and reports
// the resulting field error.
func (fl *Filler) validate(field schema.Field) func(string) error {
	return func(answer string) error {
		if msg := fl.apply(field, coerce(field.Type, answer)); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (fl *Filler) apply(field schema.Field, value any) string {
	if s, ok := value.(string); ok {
		value = sanitizer.ForFieldType(field.Type, s)
	}
	props := fl.form.FieldProps(field.Name)
	props.OnChange(value)
	props.OnBlur()
	return fl.form.Error(field.Name)
}

func coerce(fieldType, answer string) any {
	if fieldType != sanitizer.TypeNumber {
		return answer
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(answer, 64); err == nil {
		return f
	}
	return answer
}

func display(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
