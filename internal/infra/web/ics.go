package web

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
)

// buildCalendar renders events as an iCalendar feed with one all-day VEVENT
// per outreach event. Event UIDs are derived from the event id, so a
// re-downloaded feed updates rather than duplicates entries in a subscribed
// calendar.
func buildCalendar(events []*outreach.UserEvent, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//relationship-manager//outreach//EN")

	for _, ue := range events {
		name := ue.ContactFirstName
		if ue.ContactLastName != "" {
			name += " " + ue.ContactLastName
		}

		day := time.Date(ue.ScheduledAt.Year(), ue.ScheduledAt.Month(), ue.ScheduledAt.Day(), 0, 0, 0, 0, time.UTC)

		ev := cal.AddEvent(fmt.Sprintf("outreach-%d@relationship-manager", ue.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(fmt.Sprintf("Reach out to %s (%s)", name, ue.Method))
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	return cal
}
