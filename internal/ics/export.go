package ics

import (
	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"ecal/internal/model"
)

// Export renders stored events as an iCalendar feed. Events that came
// from an external calendar keep their original UID; locally created
// events get a generated one.
func Export(events []model.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ecal//daily planner//EN")

	for _, ev := range events {
		uid := ""
		if ev.ExternalID != nil {
			uid = *ev.ExternalID
		}
		if uid == "" {
			uid = uuid.NewString()
		}

		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(ev.UpdatedAt)
		ve.SetSummary(ev.Title)
		if ev.Description != nil && *ev.Description != "" {
			ve.SetDescription(*ev.Description)
		}

		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.End)
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}

		if ev.Recurrence != nil && *ev.Recurrence != "" {
			ve.AddRrule(normalizeRRule(*ev.Recurrence))
		}
	}

	return cal.Serialize()
}
