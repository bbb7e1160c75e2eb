// Package repository declares storage interfaces implemented by the postgres package.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/model"
)

// EventRepository stores calendar events. Every operation is scoped to
// the owning user; an ownership mismatch surfaces as ErrNotFound.
type EventRepository interface {
	// List returns the owner's events ordered by start_datetime ascending,
	// narrowed by the optional filters (AND semantics).
	List(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, error)
	// Get returns a single event by id for the owner.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Event, error)
	// Create inserts the event; ErrConflict on overlap-constraint rejection.
	Create(ctx context.Context, ev *model.Event) (*model.Event, error)
	// Update applies only the supplied fields; ErrNotFound if the row is
	// not owned, ErrConflict on overlap, leaving the prior row unchanged.
	Update(ctx context.Context, ownerID, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error)
	// Delete removes the row; ErrNotFound if already absent.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
