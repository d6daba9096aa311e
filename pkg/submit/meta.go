package submit

import (
	"context"
	"time"
)

// Meta identifies the form instance being submitted.
type Meta struct {
	Form string
	ID   string
}

type metaKey struct{}

// WithMeta attaches submission metadata to ctx. Hosts set it before running a
// form's submit handler so submitters can label what they deliver.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// MetaFromContext returns the metadata stored by WithMeta.
func MetaFromContext(ctx context.Context) Meta {
	m, _ := ctx.Value(metaKey{}).(Meta)
	return m
}

// Payload is the JSON document delivered to webhook endpoints.
type Payload struct {
	Form        string         `json:"form"`
	ID          string         `json:"id"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Values      map[string]any `json:"values"`
}
