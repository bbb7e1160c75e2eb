// Package view holds the calendar view controller: week navigation,
// viewing mode and create/edit form state. All state lives in an
// explicit State value the caller owns; the controller only mutates
// what it is handed, which keeps it testable without any UI.
package view

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/calendar"
	"weekplanner/internal/errs"
	"weekplanner/internal/model"
)

// API is the slice of the planner client the controller drives.
type API interface {
	ListEvents(ctx context.Context, f model.EventFilters) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.CreateEventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
}

// Draft is the in-progress create/edit form content.
type Draft struct {
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	Tag         model.Tag
}

// State is the complete view state: the displayed week, whose calendar
// is shown, the fetched events and the form.
type State struct {
	Reference time.Time    // anchor date; the week contains it
	Days      [7]time.Time // Sunday through Saturday

	ViewedUser uuid.UUID // uuid.Nil means the session user's own calendar

	Events []model.Event

	Draft     *Draft    // nil means no form open
	EditingID uuid.UUID // uuid.Nil with an open draft means create mode

	LastErr error // last failed operation, cleared on the next success
}

// ReadOnly reports whether another user's calendar is being viewed;
// edit and delete are unavailable then.
func (s *State) ReadOnly() bool { return s.ViewedUser != uuid.Nil }

// VisibleOn returns the fetched events visible on one of the week's days.
func (s *State) VisibleOn(day time.Time) []model.Event {
	return calendar.VisibleOnDay(day, s.Events)
}

const (
	defaultDuration = time.Hour
	defaultTag      = model.TagWork
)

// Controller executes view operations against the planner API.
type Controller struct {
	api API

	// slot resolution of the grid in minutes
	resolution int
}

// NewController constructs a Controller. resolutionMinutes is the grid's
// click granularity, typically 30 or 60.
func NewController(api API, resolutionMinutes int) *Controller {
	return &Controller{api: api, resolution: resolutionMinutes}
}

// NewState builds the initial state: the week of ref, own calendar, no form.
func (c *Controller) NewState(ref time.Time) *State {
	st := &State{Reference: ref}
	st.Days = calendar.WeekDays(ref)
	return st
}

// Refresh refetches the displayed calendar's events. On failure the
// event list degrades to empty and the error is recorded, never returned
// as a crash of the view.
func (c *Controller) Refresh(ctx context.Context, st *State) {
	var (
		events []model.Event
		err    error
	)
	if st.ReadOnly() {
		events, err = c.api.EventsByUser(ctx, st.ViewedUser)
	} else {
		events, err = c.api.ListEvents(ctx, model.EventFilters{})
	}
	if err != nil {
		st.Events = nil
		st.LastErr = err
		return
	}
	st.Events = events
	st.LastErr = nil
}

// Navigate moves the displayed week by deltaWeeks (±1 for prev/next)
// and refreshes.
func (c *Controller) Navigate(ctx context.Context, st *State, deltaWeeks int) {
	st.Reference = st.Reference.AddDate(0, 0, 7*deltaWeeks)
	st.Days = calendar.WeekDays(st.Reference)
	c.Refresh(ctx, st)
}

// ViewUser switches to another user's calendar, read-only. Any open
// form is discarded.
func (c *Controller) ViewUser(ctx context.Context, st *State, userID uuid.UUID) {
	st.ViewedUser = userID
	st.Draft = nil
	st.EditingID = uuid.Nil
	c.Refresh(ctx, st)
}

// ViewOwn switches back to the session user's calendar.
func (c *Controller) ViewOwn(ctx context.Context, st *State) {
	st.ViewedUser = uuid.Nil
	c.Refresh(ctx, st)
}

// SelectSlot seeds a create draft from a clicked grid slot: start at the
// clicked time rounded down to the slot resolution, one hour long,
// default tag. No-op on a read-only calendar.
func (c *Controller) SelectSlot(st *State, day time.Time, hour, minute int) {
	if st.ReadOnly() {
		return
	}
	start := calendar.SlotTime(day, hour, minute, c.resolution)
	st.Draft = &Draft{
		Start: start,
		End:   start.Add(defaultDuration),
		Tag:   defaultTag,
	}
	st.EditingID = uuid.Nil
}

// Edit opens the form pre-populated from a persisted event.
// No-op on a read-only calendar.
func (c *Controller) Edit(st *State, ev model.Event) {
	if st.ReadOnly() {
		return
	}
	st.Draft = &Draft{
		Name:        ev.Name,
		Description: ev.Description,
		Start:       ev.StartDatetime,
		End:         ev.EndDatetime,
		Tag:         ev.Tag,
	}
	st.EditingID = ev.ID
}

// Cancel discards the open form without touching the store.
func (c *Controller) Cancel(st *State) {
	st.Draft = nil
	st.EditingID = uuid.Nil
}

// Submit commits the open form: update when editing a persisted event,
// create otherwise. On success the form closes and the list refreshes;
// on failure the form stays open with the entered data intact and the
// error is recorded and returned.
func (c *Controller) Submit(ctx context.Context, st *State) error {
	if st.Draft == nil {
		return fmt.Errorf("%w: no form open", errs.ErrValidation)
	}
	if st.ReadOnly() {
		return fmt.Errorf("%w: read-only view", errs.ErrValidation)
	}

	d := st.Draft
	var err error
	if st.EditingID != uuid.Nil {
		upd := model.UpdateEventInput{
			Name:          &d.Name,
			Description:   &d.Description,
			StartDatetime: &d.Start,
			EndDatetime:   &d.End,
			Tag:           &d.Tag,
		}
		_, err = c.api.UpdateEvent(ctx, st.EditingID, upd)
	} else {
		in := model.CreateEventInput{
			Name:          d.Name,
			Description:   d.Description,
			StartDatetime: d.Start,
			EndDatetime:   d.End,
			Tag:           d.Tag,
		}
		_, err = c.api.CreateEvent(ctx, in)
	}
	if err != nil {
		st.LastErr = err
		return err
	}

	c.Cancel(st)
	c.Refresh(ctx, st)
	return nil
}

// Delete removes a persisted event and refreshes. Unavailable on a
// read-only calendar.
func (c *Controller) Delete(ctx context.Context, st *State, id uuid.UUID) error {
	if st.ReadOnly() {
		return fmt.Errorf("%w: read-only view", errs.ErrValidation)
	}
	if err := c.api.DeleteEvent(ctx, id); err != nil {
		st.LastErr = err
		return err
	}
	if st.EditingID == id {
		c.Cancel(st)
	}
	c.Refresh(ctx, st)
	return nil
}
