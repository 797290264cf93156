package outreach

import (
	"fmt"
	"time"

	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
)

// Step sizes between event groups, in calendar months.
const (
	friendFamilyStepMonths = 1
	professionalStepMonths = 4
)

// Months after a relationship's creation at which its schedule starts and
// ends. The end bound is exclusive.
const (
	scheduleStartMonths = 1
	scheduleEndMonths   = 13
)

var ErrInvalidCreatedAt = fmt.Errorf("relationship creation time is not set")

// GenerateEvents computes the reminder schedule for a relationship: one
// group of events per cadence step, each group holding one event per method
// in input order, all dated at the group's date. The schedule starts one
// calendar month after createdAt and covers dates strictly before
// createdAt plus thirteen calendar months. Friend and family relationships
// step monthly, professional ones every four months.
//
// Month arithmetic keeps the day-of-month but clamps it to the last day of
// the target month when the source day does not exist there (Jan 31 plus
// one month is Feb 29 in a leap year). The current date advances
// incrementally, so once clamped the day stays clamped on later steps
// (Jan 31, Feb 29, Mar 29, ...). The end bound is computed in a single
// jump from createdAt.
//
// The function is pure: no I/O, no shared state, and identical inputs
// always yield the identical ordered result. Persistence is the caller's
// concern; returned events carry only RelationshipID, Method and
// ScheduledAt. An empty methods list yields an empty schedule and no
// error.
func GenerateEvents(relationshipID int64, createdAt time.Time, category relationship.Category, methods []string) ([]Event, error) {
	if createdAt.IsZero() {
		return nil, ErrInvalidCreatedAt
	}

	step, err := stepMonths(category)
	if err != nil {
		return nil, err
	}

	start := addMonths(createdAt, scheduleStartMonths)
	end := addMonths(createdAt, scheduleEndMonths)

	events := make([]Event, 0, 12*len(methods))
	for current := start; current.Before(end); current = addMonths(current, step) {
		for _, method := range methods {
			events = append(events, Event{
				RelationshipID: relationshipID,
				Method:         method,
				ScheduledAt:    current,
			})
		}
	}
	return events, nil
}

func stepMonths(category relationship.Category) (int, error) {
	switch category {
	case relationship.CategoryFriend, relationship.CategoryFamily:
		return friendFamilyStepMonths, nil
	case relationship.CategoryProfessional:
		return professionalStepMonths, nil
	default:
		return 0, fmt.Errorf("%w: %q", relationship.ErrUnknownCategory, category)
	}
}

// addMonths advances t by the given number of calendar months, clamping the
// day to the last day of the target month when needed. Clock time and
// location are preserved.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month; day zero of the
// following month normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
