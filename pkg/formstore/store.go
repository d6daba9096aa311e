package formstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mitchelllharris/formkit/pkg/form"
)

// Snapshot is a persisted draft of one form instance.
type Snapshot struct {
	ID        string     `json:"id"`
	Form      string     `json:"form"`
	State     form.State `json:"state"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Store persists drafts between requests.
type Store interface {
	// Save creates or replaces the snapshot with s.ID.
	Save(ctx context.Context, s Snapshot) error

	// Load returns the snapshot with id, ErrNotFound or ErrExpired.
	Load(ctx context.Context, id string) (Snapshot, error)

	// Delete removes the snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// NewID returns a random draft identifier.
func NewID() string {
	return uuid.NewString()
}

// Capture takes a snapshot of f under id. The in-flight submitting flag is
// not persisted.
func Capture(id string, f *form.Form) Snapshot {
	state := f.State()
	state.Submitting = false
	return Snapshot{
		ID:        id,
		Form:      f.Name(),
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
}

func validate(s Snapshot) error {
	if s.ID == "" || s.Form == "" {
		return ErrInvalidSnapshot
	}
	return nil
}
