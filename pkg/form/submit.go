package form

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

// SubmitFunc performs the side effect of a submission, for example an API call.
// It receives a copy of the current values.
type SubmitFunc func(ctx context.Context, values validator.Values) error

// SubmitHandler is bound to the form-submission event.
type SubmitHandler func(ctx context.Context) error

// HandleSubmit returns the handler for a submit attempt.
//
// The handler marks every field touched and validates the whole form. When
// any field fails, the errors are recorded, fn is not called and the handler
// returns validator.ValidationErrors in field order. Otherwise Submitting is
// set for the duration of fn and cleared on every exit path, including errors
// and panics. Errors from fn are returned unchanged.
func (f *Form) HandleSubmit(fn SubmitFunc) SubmitHandler {
	return func(ctx context.Context) error {
		var (
			errs   validator.FieldErrors
			values validator.Values
			order  []string
			first  string
		)

		f.apply(func(s State) State {
			next, fieldErrs := f.tr.validateAll(f.tr.touchAll(s))
			errs = fieldErrs
			if len(errs) == 0 {
				next.Submitting = true
				values = deepCopyValues(next.Values)
			}
			return next
		})

		if len(errs) > 0 {
			f.mu.RLock()
			order = f.fields()
			first = f.firstInvalid()
			f.mu.RUnlock()

			blocked := errs.Ordered(order)
			f.cfg.logger.DebugContext(ctx, "submit blocked by validation",
				slog.Any("fields", blocked.Fields()),
				slog.String("focus", first),
			)
			if f.cfg.showErrorsOnSubmit && f.cfg.focus != nil && first != "" {
				f.cfg.focus(first)
			}
			return blocked
		}

		defer func() {
			f.apply(func(s State) State { return f.tr.submitting(s, false) })
		}()

		f.cfg.logger.DebugContext(ctx, "submitting form")
		if fn == nil {
			return nil
		}
		if err := fn(ctx, values); err != nil {
			f.cfg.logger.DebugContext(ctx, "submit callback failed", slog.String("error", err.Error()))
			return err
		}
		f.cfg.logger.DebugContext(ctx, "form submitted")
		return nil
	}
}

// IsBlocked reports whether err comes from a submit attempt that failed validation.
func IsBlocked(err error) bool {
	return errors.Is(err, validator.ErrValidationFailed)
}
