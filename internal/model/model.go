// Package model defines domain entities used by services, repositories and the HTTP layer.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tag is the closed set of event categories.
type Tag string

// Known tags.
const (
	TagWork      Tag = "work"
	TagMeeting   Tag = "meeting"
	TagPersonal  Tag = "personal"
	TagImportant Tag = "important"
	TagOther     Tag = "other"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagWork, TagMeeting, TagPersonal, TagImportant, TagOther:
		return true
	}
	return false
}

// Event is a single calendar entry owned by one user.
// The store enforces that no two events of the same owner occupy
// intersecting [start, end) ranges.
type Event struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Tag           Tag       `json:"tag"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateEventInput names every client-supplied field of a new event.
// Identity, ownership and timestamps are stamped server-side.
type CreateEventInput struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Tag           Tag       `json:"tag"`
}

// UpdateEventInput is an explicit set of optional field updates.
// A nil pointer means "leave unchanged"; intent is never inferred from
// zero values.
type UpdateEventInput struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	Tag           *Tag       `json:"tag,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (u UpdateEventInput) Empty() bool {
	return u.Name == nil && u.Description == nil &&
		u.StartDatetime == nil && u.EndDatetime == nil && u.Tag == nil
}

// EventFilters narrows a list query. Zero values mean "no filter";
// filters compose with AND semantics.
type EventFilters struct {
	StartDate time.Time // start_datetime >= StartDate
	EndDate   time.Time // end_datetime <= EndDate
	Tag       Tag       // exact match
}

// User represents an account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the verified claim set carried by the auth cookie.
type Session struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}
