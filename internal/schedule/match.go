package schedule

import (
	"strings"

	"altbook/internal/model"
)

// Find returns every entry whose title contains nameQuery (case-insensitive)
// and whose displayed time matches timeQuery.
//
// Time matching is deliberately loose: after trimming and uppercasing, the
// two strings match if they are equal or either is a substring of the other,
// so a bare "8:30" query matches a stored "8:30 AM" and vice versa. Very
// short queries can over-match ("1:00" is inside "11:00 AM"); that trade-off
// favors usability and is kept as-is.
//
// All matches are returned; the caller decides what to do with more than one.
func Find(schedule []model.ScheduleEntry, nameQuery, timeQuery string) []model.ScheduleEntry {
	var matches []model.ScheduleEntry

	wantName := strings.ToLower(nameQuery)
	wantTime := strings.ToUpper(strings.TrimSpace(timeQuery))

	for _, entry := range schedule {
		if !strings.Contains(strings.ToLower(entry.Title), wantName) {
			continue
		}
		if entry.Time == "" {
			continue
		}

		haveTime := strings.ToUpper(strings.TrimSpace(entry.Time))
		if haveTime == wantTime ||
			strings.Contains(haveTime, wantTime) ||
			strings.Contains(wantTime, haveTime) {
			matches = append(matches, entry)
		}
	}

	return matches
}
