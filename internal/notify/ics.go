package notify

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"altbook/internal/model"
	"altbook/internal/schedule"
)

// Venue is the physical location stamped on calendar events.
const Venue = "Altea Active, 1660 Carling Ave, Ottawa, ON K2A 1C4"

// BuildInvite renders a booked class as an iCalendar invite suitable for
// attaching to the confirmation email.
func BuildInvite(out model.BookingOutcome, duration time.Duration) ([]byte, error) {
	start, err := classStart(out.Date, out.Entry.Time)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)

	uid := fmt.Sprintf("altbook-%s-%d@myaltea.app", strings.TrimPrefix(out.Entry.URL, "/booking/"), start.Unix())
	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(out.Timestamp)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(duration))
	ev.SetSummary(out.Entry.Title)
	ev.SetLocation(Venue)
	ev.SetDescription(fmt.Sprintf("Booked via altbook\nClass: %s\nDate: %s\nTime: %s",
		out.Entry.Title, out.Date, out.Entry.Time))

	return []byte(cal.Serialize()), nil
}

// classStart combines the venue's DD-MM-YYYY date format with a 12-hour
// clock string into a local time.
func classStart(date, clock string) (time.Time, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(date, "%d-%d-%d", &day, &month, &year); err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	hour, minute, err := schedule.ParseClockTime(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), nil
}
