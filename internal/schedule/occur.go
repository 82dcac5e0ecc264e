package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// cron weekday number (0=Sunday) -> rrule weekday.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// NextOccurrences expands a trigger into its next count concrete fire
// instants after from, in from's location. Used by the installer's dry-run
// preview so the operator can sanity-check what the crontab line will
// actually do.
func NextOccurrences(trig Trigger, count int, from time.Time) ([]time.Time, error) {
	if trig.Weekday < 0 || trig.Weekday > 6 {
		return nil, fmt.Errorf("weekday %d out of range", trig.Weekday)
	}
	if count <= 0 {
		return nil, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   from,
		Count:     count,
		Byweekday: []rrule.Weekday{rruleWeekdays[trig.Weekday]},
		Byhour:    []int{trig.Hour},
		Byminute:  []int{trig.Minute},
		Bysecond:  []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("build recurrence: %w", err)
	}
	return r.All(), nil
}
