package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"weekplanner/internal/model"
)

func sampleEvent(t *testing.T, name string, start time.Time, d time.Duration) model.Event {
	t.Helper()
	return model.Event{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       uuid.Must(uuid.NewV4()),
		Name:          name,
		Description:   "quarterly sync",
		StartDatetime: start,
		EndDatetime:   start.Add(d),
		Tag:           model.TagMeeting,
		CreatedAt:     start.Add(-time.Hour),
		UpdatedAt:     start.Add(-time.Hour),
	}
}

func TestExport_RoundTripsThroughParser(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	events := []model.Event{
		sampleEvent(t, "planning", start, time.Hour),
		sampleEvent(t, "review", start.Add(2*time.Hour), 30*time.Minute),
	}

	out := Export("Alice's calendar", events)

	cal, err := ical.ParseCalendar(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	ve := cal.Events()[0]
	require.Equal(t, events[0].ID.String(), ve.GetProperty(ical.ComponentPropertyUniqueId).Value)
	require.Equal(t, "planning", ve.GetProperty(ical.ComponentPropertySummary).Value)
	require.Equal(t, "MEETING", ve.GetProperty(ical.ComponentPropertyCategories).Value)

	gotStart, err := ve.GetStartAt()
	require.NoError(t, err)
	require.True(t, gotStart.Equal(start))
	gotEnd, err := ve.GetEndAt()
	require.NoError(t, err)
	require.True(t, gotEnd.Equal(start.Add(time.Hour)))
}

func TestExport_EmptyListStillValidCalendar(t *testing.T) {
	out := Export("", nil)

	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	require.Contains(t, out, "END:VCALENDAR")

	cal, err := ical.ParseCalendar(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Empty(t, cal.Events())
}
