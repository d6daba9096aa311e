package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler adds the attributes its extractors find in the record's
// context before handing the record on.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func newContextHandler(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return next
	}
	return &contextHandler{Handler: next, extractors: extractors}
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}

type formIDKey struct{}

// WithFormID stores a form instance identifier in ctx for FormIDExtractor.
func WithFormID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, formIDKey{}, id)
}

// FormIDFromContext returns the identifier stored by WithFormID.
func FormIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(formIDKey{}).(string)
	return id, ok && id != ""
}

// FormIDExtractor logs the form instance identifier carried by the context.
func FormIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := FormIDFromContext(ctx); ok {
		return FormID(id), true
	}
	return slog.Attr{}, false
}
