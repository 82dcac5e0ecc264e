package model

import "time"

// ClassDefinition is one recurring class from the weekly configuration.
// Immutable once loaded for a run.
type ClassDefinition struct {
	// Day is the full English weekday name, e.g. "Monday".
	Day string `yaml:"day"`
	// Time is the venue-native 12-hour clock string, e.g. "4:30 PM".
	Time string `yaml:"time"`
	// Name is the class title used for partial matching, e.g. "Hot Vinyasa".
	Name string `yaml:"name"`
	// User keys into the users configuration for credentials.
	User string `yaml:"user"`
}

// ScheduleEntry is a single class card scraped from the booking page.
// Entries live only for the duration of one scrape-and-match pass.
type ScheduleEntry struct {
	Title string
	// Time is the displayed time string as rendered by the venue ("8:30 AM").
	Time string
	// SpotsLeft is nil when the card does not state a count; absence means
	// unknown, not zero.
	SpotsLeft *int
	IsFull    bool
	// URL is the class detail path, e.g. "/booking/evt_abc123". It is the
	// dedup identity during scraping.
	URL string
}

// Bookable reports whether the entry can be booked (derived, never stored).
func (e ScheduleEntry) Bookable() bool {
	return !e.IsFull
}

// BookingOutcome describes one booking attempt for the notification and
// calendar sinks.
type BookingOutcome struct {
	Class     ClassDefinition
	Entry     ScheduleEntry
	Date      string // DD-MM-YYYY, as the venue formats it
	Success   bool
	Reason    string // failure reason, empty on success
	Timestamp time.Time
}
