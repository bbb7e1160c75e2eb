// Package ics serializes a user's events into an iCalendar feed.
package ics

import (
	"strings"

	ical "github.com/arran4/golang-ical"

	"weekplanner/internal/model"
)

const prodID = "-//weekplanner//calendar export//EN"

// Export renders events as a VCALENDAR document with one VEVENT per
// event. The event tag travels as CATEGORIES so other calendar apps can
// group imported entries.
func Export(calName string, events []model.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	if calName != "" {
		cal.SetXWRCalName(calName)
	}

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID.String())
		ve.SetDtStampTime(ev.UpdatedAt)
		ve.SetStartAt(ev.StartDatetime.UTC())
		ve.SetEndAt(ev.EndDatetime.UTC())
		ve.SetSummary(ev.Name)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if !ev.CreatedAt.IsZero() {
			ve.SetCreatedTime(ev.CreatedAt)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(ev.Tag)))
	}

	return cal.Serialize()
}
