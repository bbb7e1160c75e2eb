package main

import (
	"fmt"
	"strings"
	"time"

	"weekplanner/internal/calendar"
	"weekplanner/internal/model"
	"weekplanner/internal/view"
)

const cellWidth = 13

// renderWeek draws the displayed week as a text grid: one column per
// day, one row per hour. Events paint their name into every hour row
// they cover; a zero-duration event still paints its start row. An open
// draft overlays the grid marked with '*'.
func renderWeek(st *view.State) string {
	var b strings.Builder

	b.WriteString("      ")
	for _, day := range st.Days {
		b.WriteString(pad(day.Format("Mon 01/02"), cellWidth))
	}
	b.WriteByte('\n')

	for hour := 0; hour < 24; hour++ {
		fmt.Fprintf(&b, "%02d:00 ", hour)
		for _, day := range st.Days {
			b.WriteString(pad(cellAt(st, day, hour), cellWidth))
		}
		b.WriteByte('\n')
	}

	if st.ReadOnly() {
		b.WriteString("(read-only view)\n")
	}
	return b.String()
}

func cellAt(st *view.State, day time.Time, hour int) string {
	if d := st.Draft; d != nil {
		draft := model.Event{Name: d.Name, StartDatetime: d.Start, EndDatetime: d.End}
		if coversHour(draft, day, hour) {
			name := d.Name
			if name == "" {
				name = "(new)"
			}
			return "*" + clip(name)
		}
	}
	for _, ev := range st.VisibleOn(day) {
		if coversHour(ev, day, hour) {
			return " " + clip(ev.Name)
		}
	}
	return ""
}

// coversHour reports whether the event's clipped span intersects the
// day's [hour:00, hour+1:00) row.
func coversHour(ev model.Event, day time.Time, hour int) bool {
	span, ok := calendar.ClipToDay(ev, day)
	if !ok {
		return false
	}
	lo := hour * 60
	hi := lo + 60
	end := span.OffsetMinutes + span.DurationMinutes
	if span.DurationMinutes == 0 {
		// Minimum visible height: the start row.
		end = span.OffsetMinutes + 1
	}
	return span.OffsetMinutes < hi && end > lo
}

func clip(s string) string {
	if len(s) > cellWidth-2 {
		return s[:cellWidth-2]
	}
	return s
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}
