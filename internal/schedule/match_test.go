package schedule

import (
	"testing"
	"time"

	"altbook/internal/model"
)

func entry(title, timeStr string) model.ScheduleEntry {
	return model.ScheduleEntry{Title: title, Time: timeStr, URL: "/booking/evt_" + title}
}

func TestFind(t *testing.T) {
	schedule := []model.ScheduleEntry{
		entry("LF3 Strong Conditioning", "8:30 AM"),
		entry("LF3 Strong Conditioning", "8:30 PM"),
		entry("Hot Vinyasa", "4:30 PM"),
		entry("Pilates Reformer", "8:30 AM"),
	}

	t.Run("partial name match is case-insensitive", func(t *testing.T) {
		got := Find(schedule, "lf3", "8:30 AM")
		if len(got) != 1 {
			t.Fatalf("got %d matches, want 1", len(got))
		}
		if got[0].Title != "LF3 Strong Conditioning" {
			t.Fatalf("matched %q", got[0].Title)
		}
	})

	t.Run("bare time query matches stored meridiem time", func(t *testing.T) {
		got := Find(schedule, "Vinyasa", "4:30")
		if len(got) != 1 {
			t.Fatalf("got %d matches, want 1", len(got))
		}
	})

	t.Run("meridiem query does not match the opposite half of the day", func(t *testing.T) {
		got := Find(schedule, "LF3", "8:30 AM")
		if len(got) != 1 {
			t.Fatalf("got %d matches, want 1 (AM only)", len(got))
		}
		if got[0].Time != "8:30 AM" {
			t.Fatalf("matched wrong time %q", got[0].Time)
		}
	})

	t.Run("returns every match, not just the first", func(t *testing.T) {
		got := Find(schedule, "", "8:30 AM")
		if len(got) != 2 {
			t.Fatalf("got %d matches, want 2", len(got))
		}
	})

	t.Run("entries without a time never match", func(t *testing.T) {
		s := []model.ScheduleEntry{{Title: "Mystery Class"}}
		if got := Find(s, "Mystery", "8:30 AM"); len(got) != 0 {
			t.Fatalf("got %d matches, want 0", len(got))
		}
	})

	t.Run("no matches yields an empty result", func(t *testing.T) {
		if got := Find(schedule, "Spin", "6:00 AM"); len(got) != 0 {
			t.Fatalf("got %d matches, want 0", len(got))
		}
	})
}

func TestNextOccurrences(t *testing.T) {
	// Monday 2026-08-24 10:00 local.
	from := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	trig := Trigger{Minute: 30, Hour: 15, Weekday: 1} // Mondays 15:30

	times, err := NextOccurrences(trig, 3, from)
	if err != nil {
		t.Fatalf("NextOccurrences returned error: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("got %d times, want 3", len(times))
	}
	for i, ft := range times {
		if ft.Weekday() != time.Monday {
			t.Fatalf("occurrence %d on %s, want Monday", i, ft.Weekday())
		}
		if ft.Hour() != 15 || ft.Minute() != 30 {
			t.Fatalf("occurrence %d at %02d:%02d, want 15:30", i, ft.Hour(), ft.Minute())
		}
		if !ft.After(from) {
			t.Fatalf("occurrence %d (%s) not after from (%s)", i, ft, from)
		}
	}
	// First fire is later the same Monday, then weekly.
	if times[0].Day() != 24 {
		t.Fatalf("first fire on day %d, want 24", times[0].Day())
	}
	if times[1].Sub(times[0]) != 7*24*time.Hour {
		t.Fatalf("fire interval = %s, want 168h", times[1].Sub(times[0]))
	}
}
