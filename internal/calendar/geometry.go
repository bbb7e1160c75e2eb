// Package calendar provides pure date arithmetic for placing events on a
// day/week grid: clipping to day windows, per-day visibility and week
// navigation. Nothing here touches storage or HTTP.
package calendar

import (
	"time"

	"weekplanner/internal/model"
)

// MinutesPerDay is the height of one day column in minutes.
const MinutesPerDay = 24 * 60

// DaySpan is an event's visible vertical placement within one day column.
type DaySpan struct {
	OffsetMinutes   int // minutes from the day's midnight to the clipped start
	DurationMinutes int // clipped duration; 0 for zero-length events
}

// DayStart returns midnight of the calendar day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ClipToDay clips the event to day's half-open window [00:00, 24:00) and
// returns the offset of the clipped start from midnight plus the clipped
// duration, both in whole minutes. ok is false for events entirely
// outside the day; callers must exclude those from rendering. A
// zero-duration event inside the day yields ok with duration 0 — the
// minimum visible height is the renderer's business.
func ClipToDay(ev model.Event, day time.Time) (DaySpan, bool) {
	dayStart := DayStart(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	start := ev.StartDatetime.In(day.Location())
	end := ev.EndDatetime.In(day.Location())

	if end.Before(start) {
		return DaySpan{}, false
	}
	// Ends at or before midnight and isn't a zero-length event pinned to it.
	if end.Before(dayStart) || (end.Equal(dayStart) && start.Before(dayStart)) {
		return DaySpan{}, false
	}
	if !start.Before(dayEnd) {
		return DaySpan{}, false
	}

	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}
	return DaySpan{
		OffsetMinutes:   int(start.Sub(dayStart) / time.Minute),
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}, true
}

// SameDay reports whether a and b fall on the same calendar date,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// IsMultiDay reports whether the event's start and end fall on different
// calendar dates, regardless of time of day.
func IsMultiDay(ev model.Event) bool {
	return !SameDay(ev.StartDatetime, ev.EndDatetime)
}

// VisibleOnDay filters events visible on the given day: those starting on
// it, ending on it, or spanning it (day strictly between start and end).
func VisibleOnDay(day time.Time, events []model.Event) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if SameDay(ev.StartDatetime, day) || SameDay(ev.EndDatetime, day) ||
			(day.After(ev.StartDatetime) && day.Before(ev.EndDatetime)) {
			out = append(out, ev)
		}
	}
	return out
}

// WeekStart returns midnight of the most recent Sunday on or before ref.
func WeekStart(ref time.Time) time.Time {
	d := DayStart(ref)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays returns the 7 consecutive days of the week containing ref,
// starting on Sunday.
func WeekDays(ref time.Time) [7]time.Time {
	var days [7]time.Time
	start := WeekStart(ref)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// SlotTime resolves a clicked grid slot to a concrete time within the
// day, rounding the minute down to the slot resolution. A non-positive
// resolution keeps the minute as-is.
func SlotTime(day time.Time, hour, minute, resolutionMinutes int) time.Time {
	if resolutionMinutes > 0 {
		minute = minute / resolutionMinutes * resolutionMinutes
	}
	return DayStart(day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}
