package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"weekplanner/internal/errs"
	"weekplanner/internal/model"
)

// EventRepo implements EventRepository using PostgreSQL. Overlap
// prevention is delegated entirely to the events_owner_no_overlap
// exclusion constraint; the repo only translates its rejection.
type EventRepo struct{ db *DB }

// NewEventRepo constructs an event repository.
func NewEventRepo(db *DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, owner_id, name, description, start_datetime, end_datetime, tag, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var ev model.Event
	err := row.Scan(&ev.ID, &ev.OwnerID, &ev.Name, &ev.Description,
		&ev.StartDatetime, &ev.EndDatetime, &ev.Tag, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns the owner's events ordered by start ascending, narrowed
// by optional date-range and tag filters (AND semantics).
func (r *EventRepo) List(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, error) {
	where := []string{"owner_id=$1"}
	args := []any{ownerID}
	if !f.StartDate.IsZero() {
		args = append(args, f.StartDate)
		where = append(where, fmt.Sprintf("start_datetime>=$%d", len(args)))
	}
	if !f.EndDate.IsZero() {
		args = append(args, f.EndDate)
		where = append(where, fmt.Sprintf("end_datetime<=$%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf("tag=$%d", len(args)))
	}

	q := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY start_datetime ASC`,
		eventColumns, strings.Join(where, " AND "))
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

// Get returns a single event by id for the owner. A row owned by someone
// else is reported as not found.
func (r *EventRepo) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Event, error) {
	q := fmt.Sprintf(`SELECT %s FROM events WHERE id=$1 AND owner_id=$2`, eventColumns)
	ev, err := scanEvent(r.db.Pool.QueryRow(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

// Create inserts the event and returns it with server-assigned timestamps.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	const q = `
INSERT INTO events (id, owner_id, name, description, start_datetime, end_datetime, tag)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q,
		ev.ID, ev.OwnerID, ev.Name, ev.Description, ev.StartDatetime, ev.EndDatetime, ev.Tag,
	).Scan(&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) || isCheckViolation(err) {
			return nil, errs.ErrConflict
		}
		return nil, err
	}
	return ev, nil
}

// Update applies only the supplied fields and returns the updated row.
func (r *EventRepo) Update(ctx context.Context, ownerID, id uuid.UUID, upd model.UpdateEventInput) (*model.Event, error) {
	if upd.Empty() {
		return r.Get(ctx, ownerID, id)
	}

	set := []string{"updated_at=now()"}
	args := []any{id, ownerID}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.StartDatetime != nil {
		add("start_datetime", *upd.StartDatetime)
	}
	if upd.EndDatetime != nil {
		add("end_datetime", *upd.EndDatetime)
	}
	if upd.Tag != nil {
		add("tag", *upd.Tag)
	}

	q := fmt.Sprintf(`UPDATE events SET %s WHERE id=$1 AND owner_id=$2 RETURNING %s`,
		strings.Join(set, ", "), eventColumns)
	ev, err := scanEvent(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, errs.ErrNotFound
		case isExclusionViolation(err), isCheckViolation(err):
			return nil, errs.ErrConflict
		default:
			return nil, err
		}
	}
	return ev, nil
}

// Delete removes the owner's event; a missing row is ErrNotFound.
func (r *EventRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
