package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/cache"
	"weekplanner/internal/errs"
	"weekplanner/internal/model"
	"weekplanner/internal/repository"
)

// EventService defines owner-scoped CRUD over calendar events.
// Overlap prevention lives in the store; this layer validates input,
// keeps the list cache coherent and keeps raw store errors from leaking.
type EventService interface {
	// List returns events ordered by start ascending, cached briefly.
	List(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, error)
	// Get returns one event; ownership mismatch reads as ErrNotFound.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Event, error)
	// Create validates required fields and inserts; ErrConflict on overlap.
	Create(ctx context.Context, ownerID uuid.UUID, in model.CreateEventInput) (*model.Event, error)
	// Update applies only the supplied fields.
	Update(ctx context.Context, ownerID, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error)
	// Delete removes the event; ErrNotFound when already absent.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type EventServiceImpl struct {
	repo  repository.EventRepository
	cache cache.EventListCache
}

// NewEventService constructs EventService. cache may be cache.Noop{}.
func NewEventService(repo repository.EventRepository, c cache.EventListCache) *EventServiceImpl {
	if c == nil {
		c = cache.Noop{}
	}
	return &EventServiceImpl{repo: repo, cache: c}
}

// List serves from the cache inside the staleness window, otherwise
// reads the store and fills the cache.
func (s *EventServiceImpl) List(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner", errs.ErrValidation)
	}
	if evs, ok := s.cache.Get(ctx, ownerID, f); ok {
		return evs, nil
	}
	evs, err := s.repo.List(ctx, ownerID, f)
	if err != nil {
		return nil, flatten(err)
	}
	s.cache.Set(ctx, ownerID, f, evs)
	return evs, nil
}

// Get returns one event by id for the owner.
func (s *EventServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Event, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner/id", errs.ErrValidation)
	}
	ev, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, flatten(err)
	}
	return ev, nil
}

// Create validates the input, stamps identity and ownership server-side
// and inserts the row.
func (s *EventServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, in model.CreateEventInput) (*model.Event, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner", errs.ErrValidation)
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	ev := &model.Event{
		ID:            id,
		OwnerID:       ownerID,
		Name:          in.Name,
		Description:   in.Description,
		StartDatetime: in.StartDatetime,
		EndDatetime:   in.EndDatetime,
		Tag:           in.Tag,
	}
	ev, err = s.repo.Create(ctx, ev)
	if err != nil {
		return nil, flatten(err)
	}
	s.cache.Invalidate(ctx, ownerID)
	return ev, nil
}

// Update re-validates the patched fields and applies them; the prior row
// stays unchanged on any failure.
func (s *EventServiceImpl) Update(ctx context.Context, ownerID, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner/id", errs.ErrValidation)
	}
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}
	ev, err := s.repo.Update(ctx, ownerID, id, upd)
	if err != nil {
		return nil, flatten(err)
	}
	s.cache.Invalidate(ctx, ownerID)
	return ev, nil
}

// Delete removes the event for the owner.
func (s *EventServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return fmt.Errorf("%w: empty owner/id", errs.ErrValidation)
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return flatten(err)
	}
	s.cache.Invalidate(ctx, ownerID)
	return nil
}

func validateCreate(in model.CreateEventInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name required", errs.ErrValidation)
	case in.StartDatetime.IsZero() || in.EndDatetime.IsZero():
		return fmt.Errorf("%w: start/end required", errs.ErrValidation)
	case in.EndDatetime.Before(in.StartDatetime):
		return fmt.Errorf("%w: end before start", errs.ErrValidation)
	case !in.Tag.Valid():
		return fmt.Errorf("%w: unknown tag %q", errs.ErrValidation, in.Tag)
	}
	return nil
}

func validateUpdate(upd model.UpdateEventInput) error {
	if upd.Name != nil && *upd.Name == "" {
		return fmt.Errorf("%w: name must not be empty", errs.ErrValidation)
	}
	if upd.Tag != nil && !upd.Tag.Valid() {
		return fmt.Errorf("%w: unknown tag %q", errs.ErrValidation, *upd.Tag)
	}
	if upd.StartDatetime != nil && upd.EndDatetime != nil &&
		upd.EndDatetime.Before(*upd.StartDatetime) {
		return fmt.Errorf("%w: end before start", errs.ErrValidation)
	}
	return nil
}

// flatten maps store failures onto the two-member mutation taxonomy:
// known sentinels pass through, anything else becomes ErrUnavailable so
// raw store errors never reach callers.
func flatten(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrValidation):
		return err
	default:
		return fmt.Errorf("%w: %w", errs.ErrUnavailable, err)
	}
}
