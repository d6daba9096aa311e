package submit

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/logger"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Log returns a form.SubmitFunc that only records the submission. Values are
// not logged, only their field names.
func Log(l *slog.Logger) form.SubmitFunc {
	if l == nil {
		l = discardLogger()
	}
	return func(ctx context.Context, values validator.Values) error {
		meta := MetaFromContext(ctx)
		l.InfoContext(ctx, "form submitted",
			logger.Form(meta.Form),
			logger.FormID(meta.ID),
			logger.Fields(slices.Sorted(maps.Keys(values))),
		)
		return nil
	}
}

// Chain runs submitters in order and stops at the first error.
func Chain(fns ...form.SubmitFunc) form.SubmitFunc {
	return func(ctx context.Context, values validator.Values) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(ctx, values); err != nil {
				return err
			}
		}
		return nil
	}
}
