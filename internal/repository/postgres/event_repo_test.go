package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"weekplanner/internal/errs"
	"weekplanner/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func eventRows(evs ...model.Event) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "name", "description",
		"start_datetime", "end_datetime", "tag", "created_at", "updated_at",
	})
	for _, ev := range evs {
		rows.AddRow(ev.ID, ev.OwnerID, ev.Name, ev.Description,
			ev.StartDatetime, ev.EndDatetime, ev.Tag, ev.CreatedAt, ev.UpdatedAt)
	}
	return rows
}

func sampleEvent(owner uuid.UUID) model.Event {
	ts := time.Now().UTC().Truncate(time.Second)
	return model.Event{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       owner,
		Name:          "standup",
		Description:   "daily",
		StartDatetime: ts,
		EndDatetime:   ts.Add(time.Hour),
		Tag:           model.TagMeeting,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

func TestEventRepo_List_NoFilters(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)

	mock.ExpectQuery(`SELECT .+ FROM events WHERE owner_id=\$1 ORDER BY start_datetime ASC`).
		WithArgs(owner).
		WillReturnRows(eventRows(ev))

	out, err := r.List(context.Background(), owner, model.EventFilters{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, ev.ID, out[0].ID)
}

func TestEventRepo_List_AllFiltersCompose(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT .+ FROM events WHERE owner_id=\$1 AND start_datetime>=\$2 AND end_datetime<=\$3 AND tag=\$4 ORDER BY start_datetime ASC`).
		WithArgs(owner, from, to, model.TagWork).
		WillReturnRows(eventRows())

	out, err := r.List(context.Background(), owner, model.EventFilters{
		StartDate: from, EndDate: to, Tag: model.TagWork,
	})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEventRepo_Get_OK_And_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(ev.ID, owner).
		WillReturnRows(eventRows(ev))
	got, err := r.Get(context.Background(), owner, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ev.Name, got.Name)

	// Ownership mismatch surfaces exactly like absence.
	other := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(ev.ID, other).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(context.Background(), other, ev.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEventRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)
	ts := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO events .+ RETURNING created_at, updated_at`).
		WithArgs(ev.ID, owner, ev.Name, ev.Description, ev.StartDatetime, ev.EndDatetime, ev.Tag).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	got, err := r.Create(context.Background(), &ev)
	require.NoError(t, err)
	require.Equal(t, ts, got.CreatedAt)
	require.Equal(t, ts, got.UpdatedAt)
}

func TestEventRepo_Create_OverlapConflict(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(ev.ID, owner, ev.Name, ev.Description, ev.StartDatetime, ev.EndDatetime, ev.Tag).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "events_owner_no_overlap"})

	_, err := r.Create(context.Background(), &ev)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestEventRepo_Update_PartialFieldsOnly(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)
	name := "renamed"

	// Only updated_at and name appear in SET.
	mock.ExpectQuery(`UPDATE events SET updated_at=now\(\), name=\$3 WHERE id=\$1 AND owner_id=\$2 RETURNING`).
		WithArgs(ev.ID, owner, name).
		WillReturnRows(eventRows(model.Event{
			ID: ev.ID, OwnerID: owner, Name: name, Description: ev.Description,
			StartDatetime: ev.StartDatetime, EndDatetime: ev.EndDatetime,
			Tag: ev.Tag, CreatedAt: ev.CreatedAt, UpdatedAt: ev.UpdatedAt,
		}))

	got, err := r.Update(context.Background(), owner, ev.ID, model.UpdateEventInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, got.Name)
}

func TestEventRepo_Update_NotOwned(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	name := "x"

	mock.ExpectQuery(`UPDATE events SET`).
		WithArgs(id, owner, name).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Update(context.Background(), owner, id, model.UpdateEventInput{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEventRepo_Update_OverlapConflict(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	start := time.Now().UTC()

	mock.ExpectQuery(`UPDATE events SET`).
		WithArgs(id, owner, start).
		WillReturnError(&pgconn.PgError{Code: "23P01"})

	_, err := r.Update(context.Background(), owner, id, model.UpdateEventInput{StartDatetime: &start})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestEventRepo_Update_CheckViolationIsConflict(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	// Patching only the end puts it before the stored start; the
	// events_time_order CHECK rejects the merged bounds.
	end := time.Now().UTC().Add(-time.Hour)

	mock.ExpectQuery(`UPDATE events SET`).
		WithArgs(id, owner, end).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "events_time_order"})

	_, err := r.Update(context.Background(), owner, id, model.UpdateEventInput{EndDatetime: &end})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NotErrorIs(t, err, errs.ErrUnavailable)
}

func TestEventRepo_Create_CheckViolationIsConflict(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(ev.ID, owner, ev.Name, ev.Description, ev.StartDatetime, ev.EndDatetime, ev.Tag).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	_, err := r.Create(context.Background(), &ev)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestEventRepo_Update_EmptyPatchReadsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	ev := sampleEvent(owner)

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(ev.ID, owner).
		WillReturnRows(eventRows(ev))

	got, err := r.Update(context.Background(), owner, ev.ID, model.UpdateEventInput{})
	require.NoError(t, err)
	require.Equal(t, ev.ID, got.ID)
}

func TestEventRepo_Delete_OK_And_IdempotentNotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM events WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(id, owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(context.Background(), owner, id))

	// Repeated delete of an absent row stays NotFound, never an error class above it.
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`DELETE FROM events WHERE id=\$1 AND owner_id=\$2`).
			WithArgs(id, owner).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		require.ErrorIs(t, r.Delete(context.Background(), owner, id), errs.ErrNotFound)
	}
}

func TestEventRepo_List_QueryErr(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)

	owner := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT .+ FROM events WHERE owner_id=\$1`).
		WithArgs(owner).
		WillReturnError(errors.New("q-fail"))

	_, err := r.List(context.Background(), owner, model.EventFilters{})
	require.Error(t, err)
}
