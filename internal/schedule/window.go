package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"altbook/internal/model"
)

var (
	// ErrInvalidTimeFormat means a class time string could not be parsed as
	// a 12-hour clock value.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrUnsupportedLeadTime means subtracting the booking lead from the
	// class time would land on the previous calendar day. Cross-midnight
	// triggers are not supported: the generated cron rule would have to run
	// on a different weekday than the arithmetic below produces.
	ErrUnsupportedLeadTime = errors.New("unsupported lead time")
)

// Booking lead policy: the venue opens booking 7 days and 1 hour before a
// class starts.
const (
	DefaultLeadDays  = 7
	DefaultLeadHours = 1
)

// Trigger is the recurring fire rule derived from one class: minute, hour
// (24h) and weekday (0=Sunday .. 6=Saturday), ready to be rendered as the
// schedule fields of a crontab line.
type Trigger struct {
	Minute  int
	Hour    int
	Weekday int
}

var weekdayIndex = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

// WeekdayIndex converts a full English weekday name into a cron weekday
// number (Sunday=0).
func WeekdayIndex(day string) (int, error) {
	idx, ok := weekdayIndex[day]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", day)
	}
	return idx, nil
}

// ParseClockTime parses a 12-hour clock string like "3:30 PM" into 24-hour
// hour and minute. "12:00 AM" is midnight, "12:30 PM" is half past noon.
func ParseClockTime(s string) (hour, minute int, err error) {
	t := strings.ToUpper(strings.TrimSpace(s))

	var pm bool
	switch {
	case strings.Contains(t, "PM"):
		pm = true
		t = strings.TrimSpace(strings.Replace(t, "PM", "", 1))
	case strings.Contains(t, "AM"):
		t = strings.TrimSpace(strings.Replace(t, "AM", "", 1))
	default:
		return 0, 0, fmt.Errorf("%w: %q has no AM/PM marker", ErrInvalidTimeFormat, s)
	}

	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, err = strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minute, err = strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeFormat, s)
	}

	if pm && hour != 12 {
		hour += 12
	} else if !pm && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}

// ComputeTrigger derives the trigger fire rule for one class under the given
// lead policy. leadDays must be a multiple of 7: the weekday arithmetic
// relies on the lead preserving day-of-week.
func ComputeTrigger(cls model.ClassDefinition, leadDays, leadHours int) (Trigger, error) {
	dayIdx, err := WeekdayIndex(cls.Day)
	if err != nil {
		return Trigger{}, err
	}

	hour, minute, err := ParseClockTime(cls.Time)
	if err != nil {
		return Trigger{}, err
	}

	fireHour := hour - leadHours
	if fireHour < 0 {
		return Trigger{}, fmt.Errorf("%w: class at %s starts too early, booking would fall on the previous day",
			ErrUnsupportedLeadTime, cls.Time)
	}

	return Trigger{
		Minute:  minute,
		Hour:    fireHour,
		Weekday: ((dayIdx-leadDays)%7 + 7) % 7,
	}, nil
}
